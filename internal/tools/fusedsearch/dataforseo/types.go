package dataforseo

// SerpRequest is a single live SERP task posted to the API
type SerpRequest struct {
	Keyword      string `json:"keyword"`
	LocationName string `json:"location_name,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	Depth        int    `json:"depth,omitempty"`
	Device       string `json:"device,omitempty"`
}

// SerpResponse is the task envelope every DataForSEO call returns
type SerpResponse struct {
	StatusCode    int        `json:"status_code"`
	StatusMessage string     `json:"status_message"`
	Cost          float64    `json:"cost"`
	TasksCount    int        `json:"tasks_count"`
	Tasks         []SerpTask `json:"tasks"`
}

// SerpTask is one task's outcome inside the envelope
type SerpTask struct {
	StatusCode    int          `json:"status_code"`
	StatusMessage string       `json:"status_message"`
	Cost          float64      `json:"cost"`
	Result        []SerpResult `json:"result"`
}

// SerpResult is one result page for a task
type SerpResult struct {
	Keyword    string     `json:"keyword"`
	Type       string     `json:"type"`
	ItemsCount int        `json:"items_count"`
	Items      []SerpItem `json:"items"`
}

// SerpItem is a single SERP element. Only organic-style items carry a URL;
// items without one (people_also_ask blocks and the like) are dropped during
// mapping.
type SerpItem struct {
	Type         string `json:"type"`
	RankGroup    int    `json:"rank_group,omitempty"`
	RankAbsolute int    `json:"rank_absolute,omitempty"`
	Title        string `json:"title,omitempty"`
	URL          string `json:"url,omitempty"`
	Description  string `json:"description,omitempty"`
	Domain       string `json:"domain,omitempty"`
}
