package unified

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pbeaumont/mcp-fused-search/internal/tools/fusedsearch"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestFusedSearchTool_Definition(t *testing.T) {
	tool := NewFusedSearchTool()
	def := tool.Definition()

	if def.Name != "fused_search" {
		t.Errorf("expected tool name 'fused_search', got %q", def.Name)
	}
}

func TestParseQuery_Defaults(t *testing.T) {
	query, err := parseQuery(map[string]interface{}{"query": "timber"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if query.Text != "timber" {
		t.Errorf("expected query text 'timber', got %q", query.Text)
	}
	if query.Count != 10 {
		t.Errorf("expected default count 10, got %d", query.Count)
	}
	if query.Country != "France" {
		t.Errorf("expected default country France, got %q", query.Country)
	}
	if query.Language != "fr" {
		t.Errorf("expected default language fr, got %q", query.Language)
	}
	if query.Freshness != "" {
		t.Errorf("expected empty freshness, got %q", query.Freshness)
	}
}

func TestParseQuery_Validation(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing query", map[string]interface{}{}},
		{"empty query", map[string]interface{}{"query": ""}},
		{"query wrong type", map[string]interface{}{"query": 42}},
		{"count too low", map[string]interface{}{"query": "q", "count": float64(0)}},
		{"count too high", map[string]interface{}{"query": "q", "count": float64(51)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseQuery(tt.args); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestParseQuery_Overrides(t *testing.T) {
	query, err := parseQuery(map[string]interface{}{
		"query":     "q",
		"count":     float64(25),
		"country":   "Germany",
		"language":  "de",
		"freshness": "pw",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if query.Count != 25 || query.Country != "Germany" || query.Language != "de" || query.Freshness != "pw" {
		t.Errorf("overrides not applied: %+v", query)
	}
}

func TestExecute_MissingQuery(t *testing.T) {
	tool := NewFusedSearchTool()

	_, err := tool.Execute(context.Background(), testLogger(), nil, map[string]interface{}{})
	if err == nil {
		t.Error("expected error for missing query")
	}
}

func TestExecute_BothSourcesSkipped(t *testing.T) {
	// with no credentials configured both sources are skipped and the call
	// still succeeds with empty, error-free output
	t.Setenv("DATAFORSEO_LOGIN", "")
	t.Setenv("DATAFORSEO_PASSWORD", "")
	t.Setenv("BRAVE_API_KEY", "")

	tool := NewFusedSearchTool()
	result, err := tool.Execute(context.Background(), testLogger(), nil, map[string]interface{}{
		"query": "tropical wood suppliers",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	textContent, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatal("expected text content")
	}

	var call fusedsearch.CallResult
	if err := json.Unmarshal([]byte(textContent.Text), &call); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}

	if call.Query != "tropical wood suppliers" {
		t.Errorf("unexpected query echo: %q", call.Query)
	}
	if len(call.Results) != 0 {
		t.Errorf("expected no results, got %d", len(call.Results))
	}
	if call.Errors != nil {
		t.Errorf("skipped sources must not produce errors, got %v", call.Errors)
	}
	if call.Stats.DataForSEOCount != 0 || call.Stats.BraveCount != 0 {
		t.Errorf("expected zero counts, got %+v", call.Stats)
	}
}
