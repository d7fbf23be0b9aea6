package dataforseo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pbeaumont/mcp-fused-search/internal/creds"
	"github.com/pbeaumont/mcp-fused-search/internal/tools/fusedsearch"
	"github.com/sirupsen/logrus"
)

// Adapter implements the fused search privileged source against the
// DataForSEO live Google organic SERP API
type Adapter struct {
	mu     sync.Mutex
	client *Client
	login  string
}

// NewAdapter creates a DataForSEO source adapter. The API client is built
// lazily from the credential supplied on each search.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the source name
func (a *Adapter) Name() string {
	return fusedsearch.SourceDataForSEO
}

func (a *Adapter) clientFor(cred creds.Credential) *Client {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil || a.login != cred.Login {
		a.client = NewClient(cred.Login, cred.Password)
		a.login = cred.Login
	}
	return a.client
}

// Search runs a live SERP task and maps its items. The reported task cost is
// returned alongside the results so the caller can surface it in stats.
func (a *Adapter) Search(ctx context.Context, logger *logrus.Logger, cred creds.Credential, q fusedsearch.Query) ([]fusedsearch.RawResult, *float64, error) {
	task := SerpRequest{
		Keyword:      q.Text,
		LocationName: q.Country,
		LanguageCode: q.Language,
		Depth:        q.Count,
	}

	response, err := a.clientFor(cred).OrganicLive(ctx, logger, task)
	if err != nil {
		return nil, nil, fmt.Errorf("dataforseo SERP search failed: %w", err)
	}

	cost := response.Tasks[0].Cost
	results := mapItems(response.Tasks[0], q.Count)
	return results, &cost, nil
}

// mapItems flattens a task's SERP items into raw results, dropping items
// without a URL and capping at the requested count
func mapItems(task SerpTask, count int) []fusedsearch.RawResult {
	var results []fusedsearch.RawResult
	for _, page := range task.Result {
		for _, item := range page.Items {
			// non-link SERP element or malformed item, dropped silently
			if item.URL == "" {
				continue
			}
			results = append(results, fusedsearch.RawResult{
				Title:       item.Title,
				URL:         item.URL,
				Description: item.Description,
				Domain:      item.Domain,
				Type:        item.Type,
			})
			if count > 0 && len(results) >= count {
				return results
			}
		}
	}
	return results
}
