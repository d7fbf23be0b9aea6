package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DataForSEOAPIBaseURL is the base URL for the DataForSEO API
	DataForSEOAPIBaseURL = "https://api.dataforseo.com/v3"

	// UserAgent for API requests
	UserAgent = "mcp-fused-search/1.0"

	// DefaultTimeout for HTTP requests
	DefaultTimeout = 30 * time.Second

	// statusOK is the DataForSEO application-level success code, carried in
	// the body independently of the HTTP status
	statusOK = 20000

	// requestsPerSecond keeps live SERP calls well inside the API limits
	requestsPerSecond = 2
)

// Client handles HTTP requests to the DataForSEO API using basic auth
type Client struct {
	login      string
	password   string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new DataForSEO API client
func NewClient(login, password string) *Client {
	return &Client{
		login:    login,
		password: password,
		baseURL:  DataForSEOAPIBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// OrganicLive runs a live Google organic SERP task and returns the parsed
// response. DataForSEO wraps every call in a task envelope; this unwraps the
// transport and envelope errors but leaves item mapping to the adapter.
func (c *Client) OrganicLive(ctx context.Context, logger *logrus.Logger, task SerpRequest) (*SerpResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	payload, err := json.Marshal([]SerpRequest{task})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}

	endpoint := c.baseURL + "/serp/google/organic/live/advanced"
	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"keyword":  task.Keyword,
	}).Debug("Making DataForSEO API request")

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"status":      resp.Status,
		}).Error("DataForSEO API request failed")

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("authentication failed: invalid DataForSEO login or password")
		case http.StatusPaymentRequired:
			return nil, fmt.Errorf("insufficient DataForSEO account balance")
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("rate limit exceeded: please wait before making more requests")
		default:
			return nil, fmt.Errorf("dataforseo API request failed with status %d", resp.StatusCode)
		}
	}

	var response SerpResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse SERP response: %w", err)
	}

	if response.StatusCode != statusOK {
		return nil, fmt.Errorf("dataforseo API error (%d): %s", response.StatusCode, response.StatusMessage)
	}
	if len(response.Tasks) == 0 {
		return nil, fmt.Errorf("dataforseo API returned no tasks")
	}
	if task := response.Tasks[0]; task.StatusCode != statusOK {
		return nil, fmt.Errorf("dataforseo task error (%d): %s", task.StatusCode, task.StatusMessage)
	}

	logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"response_size": len(body),
		"cost":          response.Cost,
	}).Debug("DataForSEO API request successful")

	return &response, nil
}
