package agents

import (
	"context"
	"sync"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/store"
)

// Result is the outcome of one lookup in a hydration batch. Exactly one
// of Agent and Err is set.
type Result struct {
	ID    string
	Agent *store.AgentCard
	Err   error
}

// Hydrate resolves the identifiers into full records, issuing all lookups
// concurrently. The returned slice matches the input order one-to-one and
// records per-id failures instead of aborting the batch; the caller
// decides what to do with partial results.
func Hydrate(ctx context.Context, lookup Lookup, ids []string) []Result {
	results := make([]Result, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			agent, err := lookup.GetAgent(ctx, id)
			results[i] = Result{ID: id, Agent: agent, Err: err}
		}(i, id)
	}
	wg.Wait()

	return results
}

// Successes filters a hydration batch down to the records that resolved,
// preserving their relative input order.
func Successes(results []Result) []store.AgentCard {
	cards := make([]store.AgentCard, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Agent != nil {
			cards = append(cards, *r.Agent)
		}
	}
	return cards
}
