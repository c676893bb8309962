package worker

import (
	"context"
	"sync"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/oracle"
)

// EnrichOutcome pairs one ticket's enrichment with the error, if any, that
// forced it onto the fallback triple.
type EnrichOutcome struct {
	Enrichment domain.Enrichment
	Err        error
}

// EnrichBatch fans the tickets out to the pool and fans results back in by
// index: position i of the returned slice always corresponds to tickets[i],
// regardless of completion order. One call's failure never affects another;
// failed calls carry the fallback enrichment.
func EnrichBatch(ctx context.Context, pool *Pool, analyzer oracle.Analyzer, tickets []domain.Ticket) []EnrichOutcome {
	results := make([]EnrichOutcome, len(tickets))

	var wg sync.WaitGroup
	for i := range tickets {
		i := i
		ticket := tickets[i]
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			enrichment, err := analyzer.Enrich(ctx, ticket.Title, ticket.Content, ticket.CreatedAt)
			results[i] = EnrichOutcome{Enrichment: enrichment, Err: err}
		})
	}
	wg.Wait()

	return results
}
