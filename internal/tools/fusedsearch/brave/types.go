package brave

// WebSearchResponse represents the response from Brave web search API
type WebSearchResponse struct {
	Type  string          `json:"type"`
	Query QueryInfo       `json:"query"`
	Web   *WebSearchBlock `json:"web,omitempty"`
}

// QueryInfo echoes the interpreted query
type QueryInfo struct {
	Original string `json:"original"`
	Country  string `json:"country,omitempty"`
}

// WebSearchBlock contains web search results
type WebSearchBlock struct {
	Type    string      `json:"type"`
	Results []WebResult `json:"results"`
}

// WebResult represents a single web search result
type WebResult struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Age         string   `json:"age,omitempty"`
	MetaURL     *MetaURL `json:"meta_url,omitempty"`
}

// MetaURL carries the decomposed result URL
type MetaURL struct {
	Hostname string `json:"hostname,omitempty"`
	Netloc   string `json:"netloc,omitempty"`
}

// ErrorResponse represents an error payload from the Brave API
type ErrorResponse struct {
	ID      string `json:"id,omitempty"`
	Status  int    `json:"status,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
