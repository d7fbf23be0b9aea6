package dataforseo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pbeaumont/mcp-fused-search/internal/creds"
	"github.com/pbeaumont/mcp-fused-search/internal/tools/fusedsearch"
	"github.com/sirupsen/logrus"
)

const serpFixture = `{
	"status_code": 20000,
	"status_message": "Ok.",
	"cost": 0.0125,
	"tasks_count": 1,
	"tasks": [
		{
			"status_code": 20000,
			"status_message": "Ok.",
			"cost": 0.0125,
			"result": [
				{
					"keyword": "timber",
					"type": "organic",
					"items_count": 3,
					"items": [
						{
							"type": "organic",
							"rank_group": 1,
							"rank_absolute": 1,
							"title": "Timber supplier",
							"url": "https://example.com/timber",
							"description": "We sell timber",
							"domain": "example.com"
						},
						{
							"type": "people_also_ask",
							"rank_absolute": 2
						},
						{
							"type": "featured_snippet",
							"rank_group": 2,
							"rank_absolute": 3,
							"title": "Wood guide",
							"url": "https://guide.org/wood",
							"domain": "guide.org"
						}
					]
				}
			]
		}
	]
}`

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter := NewAdapter()
	adapter.client = NewClient("user", "pass")
	adapter.client.baseURL = server.URL
	adapter.login = "user"
	return adapter
}

func TestAdapter_Name(t *testing.T) {
	if NewAdapter().Name() != fusedsearch.SourceDataForSEO {
		t.Errorf("unexpected adapter name %q", NewAdapter().Name())
	}
}

func TestAdapter_Search(t *testing.T) {
	var gotPath string
	var gotTasks []SerpRequest
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		login, password, ok := r.BasicAuth()
		if !ok || login != "user" || password != "pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotTasks)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(serpFixture))
	})

	results, cost, err := adapter.Search(context.Background(), testLogger(), creds.Credential{Login: "user", Password: "pass"},
		fusedsearch.Query{Text: "timber", Count: 10, Country: "France", Language: "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/serp/google/organic/live/advanced" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if len(gotTasks) != 1 {
		t.Fatalf("expected one posted task, got %d", len(gotTasks))
	}
	task := gotTasks[0]
	if task.Keyword != "timber" || task.LocationName != "France" || task.LanguageCode != "fr" || task.Depth != 10 {
		t.Errorf("unexpected task payload: %+v", task)
	}

	if cost == nil || *cost != 0.0125 {
		t.Errorf("expected cost 0.0125, got %v", cost)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results (URL-less item dropped), got %d", len(results))
	}
	if results[0].Type != "organic" || results[1].Type != "featured_snippet" {
		t.Errorf("item types not preserved: %q, %q", results[0].Type, results[1].Type)
	}
	if results[0].Domain != "example.com" {
		t.Errorf("unexpected domain %q", results[0].Domain)
	}
}

func TestAdapter_SearchTaskError(t *testing.T) {
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"status_code": 20000,
			"status_message": "Ok.",
			"tasks": [{"status_code": 40501, "status_message": "Invalid Field."}]
		}`))
	})

	_, _, err := adapter.Search(context.Background(), testLogger(), creds.Credential{Login: "user", Password: "pass"},
		fusedsearch.Query{Text: "q", Count: 5})
	if err == nil {
		t.Fatal("expected task-level error")
	}
	if !strings.Contains(err.Error(), "40501") {
		t.Errorf("expected task status in error, got %q", err.Error())
	}
}

func TestAdapter_SearchAuthError(t *testing.T) {
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := adapter.Search(context.Background(), testLogger(), creds.Credential{Login: "user", Password: "wrong"},
		fusedsearch.Query{Text: "q", Count: 5})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "login or password") {
		t.Errorf("expected auth failure message, got %q", err.Error())
	}
}

func TestMapItems_CapsAtCount(t *testing.T) {
	task := SerpTask{
		Result: []SerpResult{{
			Items: []SerpItem{
				{Type: "organic", URL: "https://a.com/1"},
				{Type: "organic", URL: "https://a.com/2"},
				{Type: "organic", URL: "https://a.com/3"},
			},
		}},
	}

	results := mapItems(task, 2)
	if len(results) != 2 {
		t.Errorf("expected mapping capped at 2, got %d", len(results))
	}

	all := mapItems(task, 0)
	if len(all) != 3 {
		t.Errorf("expected no cap for count 0, got %d", len(all))
	}
}
