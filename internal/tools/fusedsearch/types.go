package fusedsearch

// Source names as they appear in found_by, stats and errors
const (
	SourceDataForSEO = "dataforseo"
	SourceBrave      = "brave"
)

// sourcePriority is the order sources appear in found_by (privileged first)
var sourcePriority = []string{SourceDataForSEO, SourceBrave}

// RawResult is a single result as returned by a source adapter, before
// deduplication. Adapters must not produce results with an empty URL.
type RawResult struct {
	Title       string
	URL         string
	Description string
	Domain      string
	Type        string
}

// OutcomeStatus distinguishes how a source call resolved
type OutcomeStatus int

const (
	// OutcomeSuccess means the source was queried and returned results
	OutcomeSuccess OutcomeStatus = iota
	// OutcomeFailure means the source was queried and errored
	OutcomeFailure
	// OutcomeSkipped means the source was never queried (no credentials).
	// Skipped is not an error and never appears in the errors map.
	OutcomeSkipped
)

// SourceOutcome is the resolved state of one source for one call.
// Exactly one outcome exists per source per call.
type SourceOutcome struct {
	Status  OutcomeStatus
	Results []RawResult
	Cost    *float64
	Err     string
}

// SuccessOutcome wraps an ordered result list. Cost may be nil when the
// provider does not report one.
func SuccessOutcome(results []RawResult, cost *float64) SourceOutcome {
	return SourceOutcome{Status: OutcomeSuccess, Results: results, Cost: cost}
}

// FailureOutcome captures a per-source error. The message is bounded before
// it is surfaced to the caller.
func FailureOutcome(message string) SourceOutcome {
	if len(message) > maxErrorLength {
		message = message[:maxErrorLength]
	}
	return SourceOutcome{Status: OutcomeFailure, Err: message}
}

// SkippedOutcome marks a source that was never dispatched
func SkippedOutcome() SourceOutcome {
	return SourceOutcome{Status: OutcomeSkipped}
}

// contributed returns the raw results this outcome feeds into the pipeline.
// Failure and Skipped outcomes contribute nothing.
func (o SourceOutcome) contributed() []RawResult {
	if o.Status != OutcomeSuccess {
		return nil
	}
	return o.Results
}

// MergedRecord is one deduplicated result with source attribution. Records
// are mutable while the fusion engine folds results in and frozen once
// positions are assigned.
type MergedRecord struct {
	Position    int      `json:"position"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Domain      string   `json:"domain,omitempty"`
	Type        string   `json:"type"`
	FoundBy     []string `json:"found_by"`

	sources map[string]struct{}
}

// overwrite applies the privileged source's fields. Privileged data wins
// whenever it is present; empty fields never clobber existing values.
func (r *MergedRecord) overwrite(raw RawResult) {
	if raw.Title != "" {
		r.Title = raw.Title
	}
	if raw.URL != "" {
		r.URL = raw.URL
	}
	if raw.Description != "" {
		r.Description = raw.Description
	}
	if raw.Domain != "" {
		r.Domain = raw.Domain
	}
	if raw.Type != "" {
		r.Type = raw.Type
	}
}

// fillGaps applies a non-privileged source's fields only where the record
// has none. The URL is left alone: it stays as contributed by the
// highest-priority source that saw the page.
func (r *MergedRecord) fillGaps(raw RawResult) {
	if r.Title == "" {
		r.Title = raw.Title
	}
	if r.Description == "" {
		r.Description = raw.Description
	}
	if r.Domain == "" {
		r.Domain = raw.Domain
	}
	if r.Type == "" {
		r.Type = raw.Type
	}
}

// finaliseFoundBy materialises the sources set into found_by, privileged
// source first
func (r *MergedRecord) finaliseFoundBy() {
	r.FoundBy = make([]string, 0, len(r.sources))
	for _, name := range sourcePriority {
		if _, ok := r.sources[name]; ok {
			r.FoundBy = append(r.FoundBy, name)
		}
	}
}

// Stats summarises one fused search call
type Stats struct {
	DataForSEOCount int `json:"dataforseo_count"`
	BraveCount      int `json:"brave_count"`
	TotalUnique     int `json:"total_unique"`
	Common          int `json:"common"`
	// DataForSEOCost is nil when unknown or not applicable, which is
	// distinct from a free (0.0) query
	DataForSEOCost *float64 `json:"dataforseo_cost,omitempty"`
}

// CallResult is the full response for one fused search call
type CallResult struct {
	Query   string            `json:"query"`
	Results []*MergedRecord   `json:"results"`
	Stats   Stats             `json:"stats"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Query carries the caller's search parameters to both source adapters
type Query struct {
	Text      string
	Count     int
	Country   string
	Language  string
	Freshness string
}
