package unified

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pbeaumont/mcp-fused-search/internal/creds"
	"github.com/pbeaumont/mcp-fused-search/internal/registry"
	"github.com/pbeaumont/mcp-fused-search/internal/tools"
	"github.com/pbeaumont/mcp-fused-search/internal/tools/fusedsearch"
	"github.com/pbeaumont/mcp-fused-search/internal/tools/fusedsearch/brave"
	"github.com/pbeaumont/mcp-fused-search/internal/tools/fusedsearch/dataforseo"
	"github.com/sirupsen/logrus"
)

const (
	defaultCount    = 10
	maxCount        = 50
	defaultCountry  = "France"
	defaultLanguage = "fr"
)

// FusedSearchTool queries DataForSEO and Brave concurrently and returns one
// deduplicated, ranked result list. A provider without configured
// credentials is skipped cleanly; a provider that errors is reported without
// failing the call.
type FusedSearchTool struct {
	orchestrator *fusedsearch.Orchestrator
}

func init() {
	registry.Register(NewFusedSearchTool())
}

// NewFusedSearchTool wires the orchestrator with both source adapters and
// the default credential resolver
func NewFusedSearchTool() *FusedSearchTool {
	return &FusedSearchTool{
		orchestrator: fusedsearch.NewOrchestrator(
			creds.NewEnvResolver(),
			dataforseo.NewAdapter(),
			brave.NewAdapter(),
		),
	}
}

// Definition returns the tool's definition for MCP registration
func (t *FusedSearchTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"fused_search",
		mcp.WithDescription(`Search the web through DataForSEO (Google SERP) and Brave simultaneously and get one deduplicated, ranked result list.

Results found by both providers are merged (found_by lists the providers), with DataForSEO's snippet and ranking taking priority. A provider without configured credentials is silently skipped, so the tool works with either one or both of DATAFORSEO_LOGIN/DATAFORSEO_PASSWORD and BRAVE_API_KEY set.`),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query term"),
		),
		mcp.WithNumber("count",
			mcp.Description(fmt.Sprintf("Number of results per provider (1-%d)", maxCount)),
			mcp.DefaultNumber(defaultCount),
		),
		mcp.WithString("country",
			mcp.Description("Country to localise results for (name or 2-letter code)"),
			mcp.DefaultString(defaultCountry),
		),
		mcp.WithString("language",
			mcp.Description("Language code for the search (e.g. 'fr', 'en', 'de')"),
			mcp.DefaultString(defaultLanguage),
		),
		mcp.WithString("freshness",
			mcp.Description("Time filter for Brave results (pd/pw/pm/py or YYYY-MM-DDtoYYYY-MM-DD)"),
		),
	)
}

// Execute executes the fused search tool
func (t *FusedSearchTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	query, err := parseQuery(args)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"query":    query.Text,
		"count":    query.Count,
		"country":  query.Country,
		"language": query.Language,
	}).Info("Executing fused search")

	result, err := t.orchestrator.Run(ctx, logger, query)
	if err != nil {
		return nil, fmt.Errorf("fused search failed: %w", err)
	}

	return fusedsearch.NewToolResultJSON(result)
}

// parseQuery validates the raw tool arguments and applies defaults
func parseQuery(args map[string]interface{}) (fusedsearch.Query, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return fusedsearch.Query{}, fmt.Errorf("missing or invalid required parameter: query")
	}

	count := defaultCount
	if countRaw, ok := args["count"].(float64); ok {
		count = int(countRaw)
		if count < 1 || count > maxCount {
			return fusedsearch.Query{}, fmt.Errorf("count must be between 1 and %d, got %d", maxCount, count)
		}
	}

	country := defaultCountry
	if countryRaw, ok := args["country"].(string); ok && countryRaw != "" {
		country = countryRaw
	}

	language := defaultLanguage
	if languageRaw, ok := args["language"].(string); ok && languageRaw != "" {
		language = languageRaw
	}

	freshness := ""
	if freshnessRaw, ok := args["freshness"].(string); ok {
		freshness = freshnessRaw
	}

	return fusedsearch.Query{
		Text:      query,
		Count:     count,
		Country:   country,
		Language:  language,
		Freshness: freshness,
	}, nil
}

// ProvideExtendedInfo provides detailed usage information for the fused search tool
func (t *FusedSearchTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		Examples: []tools.ToolExample{
			{
				Description: "Basic fused search with defaults",
				Arguments: map[string]interface{}{
					"query": "tropical wood suppliers",
				},
				ExpectedResult: "Up to 10 deduplicated results per provider, ranked with DataForSEO's order first; stats show per-provider counts and overlap",
			},
			{
				Description: "English search localised to the United States",
				Arguments: map[string]interface{}{
					"query":    "sustainable packaging manufacturers",
					"country":  "United States",
					"language": "en",
					"count":    20,
				},
				ExpectedResult: "Up to 20 results per provider localised for the US market",
			},
			{
				Description: "Recent results only (Brave freshness filter)",
				Arguments: map[string]interface{}{
					"query":     "EU timber regulation",
					"freshness": "pm",
				},
				ExpectedResult: "Brave contributes only pages discovered in the past month; DataForSEO results are unaffected",
			},
		},
		CommonPatterns: []string{
			"Check stats.common to see how much the two providers agree; high overlap suggests stable, authoritative results",
			"found_by tells you which provider(s) returned each result; single-provider results can surface long-tail pages",
			"Configure only one provider if you prefer: the other is skipped without error noise",
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "stats shows 0 results for one provider and no errors entry",
				Solution: "That provider has no credentials configured and was skipped. Set DATAFORSEO_LOGIN/DATAFORSEO_PASSWORD or BRAVE_API_KEY (environment or .env file).",
			},
			{
				Problem:  "errors contains a dataforseo or brave entry",
				Solution: "That provider was queried and failed (bad credentials, rate limit, timeout). Results from the other provider are still returned.",
			},
			{
				Problem:  "dataforseo_cost is missing from stats",
				Solution: "The cost is only reported when DataForSEO was queried successfully; it is omitted (not zero) otherwise.",
			},
		},
		ParameterDetails: map[string]string{
			"count":     "Per-provider result budget, 1-50. Brave caps at 20 results per request; DataForSEO honours the full range.",
			"country":   "Accepts a country name ('France', 'Germany') or a 2-letter code. Maps to DataForSEO's location_name and Brave's country parameter.",
			"freshness": "Brave only. pd/pw/pm/py for past day/week/month/year, or a custom YYYY-MM-DDtoYYYY-MM-DD range.",
		},
		WhenToUse:    "Use fused search when you want broader coverage than a single provider: overlapping results are deduplicated and attributed, unique results from either provider are kept.",
		WhenNotToUse: "Avoid when you need provider-specific result types (images, news, local) or strict single-provider semantics.",
	}
}
