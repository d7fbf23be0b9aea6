package fusedsearch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pbeaumont/mcp-fused-search/internal/creds"
	"github.com/sirupsen/logrus"
)

const (
	// defaultSourceTimeout bounds each source call independently; one slow
	// source never blocks or cancels the other
	defaultSourceTimeout = 15 * time.Second

	// maxErrorLength bounds per-source failure messages before they are
	// surfaced to the caller
	maxErrorLength = 300
)

// SourceAdapter is implemented once per provider. Search returns the
// provider's ordered results plus the reported cost, if any. The adapter is
// only invoked when the resolver produced a credential for it.
type SourceAdapter interface {
	Name() string
	Search(ctx context.Context, logger *logrus.Logger, cred creds.Credential, q Query) ([]RawResult, *float64, error)
}

// Orchestrator runs both source queries concurrently and drives the fusion
// pipeline over whatever they returned
type Orchestrator struct {
	resolver  creds.Resolver
	primary   SourceAdapter
	secondary SourceAdapter
	timeout   time.Duration
}

// NewOrchestrator wires the resolver and the two adapters. The primary
// adapter is the privileged source for merging and ordering.
func NewOrchestrator(resolver creds.Resolver, primary, secondary SourceAdapter) *Orchestrator {
	return &Orchestrator{
		resolver:  resolver,
		primary:   primary,
		secondary: secondary,
		timeout:   defaultSourceTimeout,
	}
}

// Run executes one fused search call. Per-source failures are local: the
// call always reaches a response unless the query is empty or the caller's
// context was cancelled. Cancellation never yields partial results.
func (o *Orchestrator) Run(ctx context.Context, logger *logrus.Logger, q Query) (*CallResult, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return nil, fmt.Errorf("missing or invalid required parameter: query")
	}

	var primary, secondary SourceOutcome
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		primary = o.dispatch(ctx, logger, o.primary, q)
	}()
	go func() {
		defer wg.Done()
		secondary = o.dispatch(ctx, logger, o.secondary, q)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search cancelled: %w", err)
	}

	merged := fuse(primary, secondary)
	ordered := orderRecords(merged, primary, secondary)

	result := &CallResult{
		Query:   q.Text,
		Results: ordered,
		Stats:   computeStats(primary, secondary, ordered),
	}

	errs := make(map[string]string)
	if primary.Status == OutcomeFailure {
		errs[o.primary.Name()] = primary.Err
	}
	if secondary.Status == OutcomeFailure {
		errs[o.secondary.Name()] = secondary.Err
	}
	if len(errs) > 0 {
		result.Errors = errs
	}

	return result, nil
}

// dispatch resolves one source to its outcome. A missing credential skips
// the source without dispatching; a transport error becomes a Failure for
// this source only.
func (o *Orchestrator) dispatch(ctx context.Context, logger *logrus.Logger, adapter SourceAdapter, q Query) SourceOutcome {
	cred, ok := o.resolver.Lookup(adapter.Name())
	if !ok {
		logger.WithField("source", adapter.Name()).Debug("No credentials configured, skipping source")
		return SkippedOutcome()
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	results, cost, err := adapter.Search(callCtx, logger, cred, q)
	if err != nil {
		logger.WithError(err).WithField("source", adapter.Name()).Warn("Source search failed")
		return FailureOutcome(err.Error())
	}

	logger.WithFields(logrus.Fields{
		"source": adapter.Name(),
		"count":  len(results),
	}).Debug("Source search succeeded")
	return SuccessOutcome(results, cost)
}
