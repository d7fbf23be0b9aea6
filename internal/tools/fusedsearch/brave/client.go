package brave

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// BraveAPIBaseURL is the base URL for Brave Search API
	BraveAPIBaseURL = "https://api.search.brave.com/res/v1"

	// UserAgent for API requests
	UserAgent = "mcp-fused-search/1.0"

	// DefaultTimeout for HTTP requests
	DefaultTimeout = 30 * time.Second

	// requestsPerSecond matches the Brave API free tier limit
	requestsPerSecond = 1
)

// Client handles HTTP requests to the Brave Search API
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new Brave API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: BraveAPIBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// makeRequest performs an HTTP request to the Brave API
func (c *Client) makeRequest(ctx context.Context, logger *logrus.Logger, endpoint string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	// Build URL with parameters
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	query := reqURL.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	reqURL.RawQuery = query.Encode()

	logger.WithFields(logrus.Fields{
		"url":      reqURL.String(),
		"endpoint": endpoint,
	}).Debug("Making Brave API request")

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("X-Subscription-Token", c.apiKey)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("Failed to close response body")
		}
	}()

	// Handle gzip decompression if needed
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() {
			if closeErr := gzipReader.Close(); closeErr != nil {
				logger.WithError(closeErr).Warn("Failed to close gzip reader")
			}
		}()
		reader = gzipReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"status":      resp.Status,
		}).Error("Brave API request failed")

		// Try to parse error response
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Message != "" {
			return nil, fmt.Errorf("brave API error (%d): %s", resp.StatusCode, errorResp.Message)
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("authentication failed: invalid API key")
		case http.StatusForbidden:
			return nil, fmt.Errorf("access forbidden: check your API key and subscription plan")
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("rate limit exceeded: please wait before making more requests")
		case http.StatusInternalServerError:
			return nil, fmt.Errorf("brave API internal server error: please try again later")
		default:
			return nil, fmt.Errorf("brave API request failed with status %d", resp.StatusCode)
		}
	}

	logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"response_size": len(body),
	}).Debug("Brave API request successful")

	return body, nil
}

// WebSearch performs a web search using the Brave API
func (c *Client) WebSearch(ctx context.Context, logger *logrus.Logger, query string, count int, country, searchLang, freshness string) (*WebSearchResponse, error) {
	params := map[string]string{
		"q":     query,
		"count": fmt.Sprintf("%d", count),
	}
	if country != "" {
		params["country"] = country
	}
	if searchLang != "" {
		params["search_lang"] = searchLang
	}
	if freshness != "" {
		params["freshness"] = freshness
	}

	body, err := c.makeRequest(ctx, logger, "/web/search", params)
	if err != nil {
		return nil, err
	}

	var response WebSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse web search response: %w", err)
	}

	return &response, nil
}
