package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// jitterAnalyzer completes calls after a random delay so completion order
// diverges from submission order.
type jitterAnalyzer struct {
	rng   *rand.Rand
	rngMu sync.Mutex
	fail  map[string]bool
}

func (j *jitterAnalyzer) Enrich(ctx context.Context, title, content, createdAt string) (domain.Enrichment, error) {
	j.rngMu.Lock()
	delay := time.Duration(j.rng.Intn(20)) * time.Millisecond
	j.rngMu.Unlock()
	time.Sleep(delay)

	if j.fail[title] {
		return domain.Enrichment{
			Summary:  "Could not summarize",
			Priority: domain.TicketPriorityLow,
			Urgency:  domain.UrgencyFallback,
		}, errors.New("simulated oracle failure")
	}
	return domain.Enrichment{
		Summary:  "summary of " + title,
		Priority: domain.TicketPriorityMedium,
		Urgency:  3,
	}, nil
}

func (j *jitterAnalyzer) Sentiment(ctx context.Context, text string) (float64, error) {
	return 5, nil
}

func TestEnrichBatchPreservesInputOrder(t *testing.T) {
	pool := NewPool(4)
	defer pool.Shutdown()

	tickets := make([]domain.Ticket, 32)
	for i := range tickets {
		tickets[i] = domain.Ticket{
			TicketNumber: fmt.Sprintf("TCK-%d", i),
			Title:        fmt.Sprintf("ticket-%d", i),
			Content:      "content",
		}
	}

	analyzer := &jitterAnalyzer{rng: rand.New(rand.NewSource(42))}
	outcomes := EnrichBatch(context.Background(), pool, analyzer, tickets)

	if len(outcomes) != len(tickets) {
		t.Fatalf("expected %d outcomes, got %d", len(tickets), len(outcomes))
	}
	for i, outcome := range outcomes {
		want := fmt.Sprintf("summary of ticket-%d", i)
		if outcome.Enrichment.Summary != want {
			t.Errorf("position %d: got %q, want %q", i, outcome.Enrichment.Summary, want)
		}
	}
}

func TestEnrichBatchIsolatesFailures(t *testing.T) {
	pool := NewPool(2)
	defer pool.Shutdown()

	tickets := []domain.Ticket{
		{TicketNumber: "TCK-0", Title: "fine", Content: "c"},
		{TicketNumber: "TCK-1", Title: "doomed", Content: "c"},
		{TicketNumber: "TCK-2", Title: "also fine", Content: "c"},
	}
	analyzer := &jitterAnalyzer{
		rng:  rand.New(rand.NewSource(7)),
		fail: map[string]bool{"doomed": true},
	}

	outcomes := EnrichBatch(context.Background(), pool, analyzer, tickets)

	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Errorf("healthy calls should not carry errors")
	}
	if outcomes[1].Err == nil {
		t.Fatalf("failed call should carry its error")
	}
	if outcomes[1].Enrichment.Urgency != domain.UrgencyFallback {
		t.Errorf("failed call should carry fallback urgency, got %d", outcomes[1].Enrichment.Urgency)
	}
	if !strings.Contains(outcomes[1].Enrichment.Summary, "Could not summarize") {
		t.Errorf("failed call should carry fallback summary, got %q", outcomes[1].Enrichment.Summary)
	}
}

func TestEnrichBatchEmptyInput(t *testing.T) {
	pool := NewPool(2)
	defer pool.Shutdown()

	outcomes := EnrichBatch(context.Background(), pool, &jitterAnalyzer{rng: rand.New(rand.NewSource(1))}, nil)
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewPool(3)

	var mu sync.Mutex
	seen := 0
	for i := 0; i < 10; i++ {
		pool.Submit(func() {
			mu.Lock()
			seen++
			mu.Unlock()
		})
	}
	pool.Shutdown()

	if seen != 10 {
		t.Fatalf("expected 10 tasks run, got %d", seen)
	}
}
