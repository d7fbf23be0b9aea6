package brave

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/pbeaumont/mcp-fused-search/internal/creds"
	"github.com/pbeaumont/mcp-fused-search/internal/tools/fusedsearch"
	"github.com/sirupsen/logrus"
)

// maxAPICount is the hard result ceiling of the Brave web search API
const maxAPICount = 20

// countryCodes maps the human-readable country names the tool accepts to the
// two-letter codes the Brave API expects. Unknown two-letter inputs pass
// through uppercased.
var countryCodes = map[string]string{
	"france":         "FR",
	"germany":        "DE",
	"spain":          "ES",
	"italy":          "IT",
	"belgium":        "BE",
	"switzerland":    "CH",
	"united kingdom": "GB",
	"united states":  "US",
	"canada":         "CA",
	"netherlands":    "NL",
	"portugal":       "PT",
}

// Adapter implements the fused search secondary source against the Brave
// web search API
type Adapter struct {
	mu     sync.Mutex
	client *Client
	token  string
}

// NewAdapter creates a Brave source adapter. The API client is built lazily
// from the credential supplied on each search.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the source name
func (a *Adapter) Name() string {
	return fusedsearch.SourceBrave
}

// clientFor returns a client bound to the given token, reusing the existing
// one (and its rate limiter) while the token is unchanged
func (a *Adapter) clientFor(token string) *Client {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil || a.token != token {
		a.client = NewClient(token)
		a.token = token
	}
	return a.client
}

// Search executes a Brave web search and maps the results. Brave reports no
// per-query cost, so the cost is always nil.
func (a *Adapter) Search(ctx context.Context, logger *logrus.Logger, cred creds.Credential, q fusedsearch.Query) ([]fusedsearch.RawResult, *float64, error) {
	count := q.Count
	if count > maxAPICount {
		logger.WithFields(logrus.Fields{
			"requested": count,
			"capped":    maxAPICount,
		}).Debug("Capping Brave result count to API maximum")
		count = maxAPICount
	}

	response, err := a.clientFor(cred.Token).WebSearch(ctx, logger, q.Text, count, countryCode(q.Country), q.Language, q.Freshness)
	if err != nil {
		return nil, nil, fmt.Errorf("brave web search failed: %w", err)
	}

	if response.Web == nil {
		return nil, nil, nil
	}

	results := make([]fusedsearch.RawResult, 0, len(response.Web.Results))
	for _, item := range response.Web.Results {
		// malformed item, dropped silently
		if item.URL == "" {
			continue
		}
		results = append(results, fusedsearch.RawResult{
			Title:       item.Title,
			URL:         item.URL,
			Description: item.Description,
			Domain:      resultDomain(item),
			Type:        "web",
		})
	}
	return results, nil, nil
}

// countryCode resolves a country name or code to the Brave country parameter
func countryCode(country string) string {
	if country == "" {
		return ""
	}
	if code, ok := countryCodes[strings.ToLower(strings.TrimSpace(country))]; ok {
		return code
	}
	if len(country) == 2 {
		return strings.ToUpper(country)
	}
	return ""
}

// resultDomain prefers the hostname Brave already extracted, falling back to
// parsing the result URL
func resultDomain(item WebResult) string {
	if item.MetaURL != nil && item.MetaURL.Hostname != "" {
		return item.MetaURL.Hostname
	}
	if u, err := url.Parse(item.URL); err == nil {
		return u.Hostname()
	}
	return ""
}
