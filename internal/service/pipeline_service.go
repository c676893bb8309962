package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/oracle"
	"github.com/spec-kit/ticket-prioritizer/internal/source"
	"github.com/spec-kit/ticket-prioritizer/internal/worker"
	apperrors "github.com/spec-kit/ticket-prioritizer/pkg/util"
)

// RecordFetcher retrieves raw client data; satisfied by source.Fetcher.
type RecordFetcher interface {
	Fetch(ctx context.Context, cnbID string) (*source.ClientData, error)
}

// PipelineService drives the enrichment and ranking pipeline.
type PipelineService struct {
	fetcher    RecordFetcher
	analyzer   oracle.Analyzer
	pool       *worker.Pool
	sentiment  *SentimentAggregator
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PipelineDependencies bundles collaborators for the pipeline service.
type PipelineDependencies struct {
	Fetcher    RecordFetcher
	Analyzer   oracle.Analyzer
	Pool       *worker.Pool
	Sentiment  *SentimentAggregator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PrioritizeInput is the validated request payload.
type PrioritizeInput struct {
	CNBIDs     []string
	NewTickets []NewTicketInput
}

// NewPipelineService constructs the service.
func NewPipelineService(deps PipelineDependencies) *PipelineService {
	return &PipelineService{
		fetcher:    deps.Fetcher,
		analyzer:   deps.Analyzer,
		pool:       deps.Pool,
		sentiment:  deps.Sentiment,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Prioritize runs fetch, normalize, enrich, score and sort for every client
// identifier and returns client blocks ordered for emission. A client whose
// fetch or parse fails is skipped entirely; only an empty cnb_ids list fails
// the request.
func (s *PipelineService) Prioritize(ctx context.Context, input PrioritizeInput) ([]domain.ClientBlock, error) {
	if len(input.CNBIDs) == 0 {
		return nil, apperrors.NewValidationError("send a list of CNB IDs in 'cnb_ids'", nil)
	}

	multiClient := len(input.CNBIDs) > 1
	newByClient := GroupNewTickets(input.NewTickets)

	blocks := make([]domain.ClientBlock, 0, len(input.CNBIDs))
	skipped := 0
	for _, cnbID := range input.CNBIDs {
		data, err := s.fetcher.Fetch(ctx, cnbID)
		if err != nil {
			skipped++
			s.logger.Warn("skipping client, fetch failed",
				zap.String("cnb_id", cnbID),
				zap.Error(err))
			events.Emit(ctx, s.dispatcher, events.EventClientSkipped, cnbID, events.ClientSkippedPayload{
				Reason: err.Error(),
			})
			continue
		}

		tickets := NormalizeFetched(cnbID, data.ClientName, data.Records)
		tickets = AppendNew(tickets, cnbID, data.ClientName, newByClient[cnbID])

		s.enrich(ctx, cnbID, tickets)

		score := 0
		if multiClient {
			score = s.sentiment.Score(ctx, cnbID, tickets)
		}

		SortTickets(tickets)

		blocks = append(blocks, domain.ClientBlock{
			ClientID:       cnbID,
			ClientName:     data.ClientName,
			SentimentScore: score,
			Tickets:        tickets,
		})
	}

	if multiClient {
		SortClients(blocks)
	}

	emitted := 0
	for _, block := range blocks {
		emitted += len(block.Tickets)
	}
	events.Emit(ctx, s.dispatcher, events.EventPipelineCompleted, "", events.PipelineCompletedPayload{
		ClientsRequested: len(input.CNBIDs),
		ClientsSkipped:   skipped,
		TicketsEmitted:   emitted,
	})

	return blocks, nil
}

// enrich runs the coordinator over the client's tickets and merges results
// back positionally. A ticket's own declared priority wins when it is already
// a recognized tier; the oracle's suggestion is only a fallback.
func (s *PipelineService) enrich(ctx context.Context, cnbID string, tickets []domain.Ticket) {
	outcomes := worker.EnrichBatch(ctx, s.pool, s.analyzer, tickets)
	for i := range tickets {
		ticket := &tickets[i]
		outcome := outcomes[i]

		ticket.Summary = outcome.Enrichment.Summary
		ticket.Urgency = outcome.Enrichment.Urgency
		if !domain.ValidPriority(ticket.Priority) {
			ticket.Priority = outcome.Enrichment.Priority
		}

		if outcome.Err != nil {
			events.Emit(ctx, s.dispatcher, events.EventEnrichmentFallback, cnbID, events.EnrichmentFallbackPayload{
				TicketNumber: ticket.TicketNumber,
				Reason:       outcome.Err.Error(),
			})
		}
	}
}
