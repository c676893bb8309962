package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/oracle"
)

// SentimentAggregator batches a client's tickets under a word budget and
// averages per-chunk oracle scores into one client-level score.
type SentimentAggregator struct {
	analyzer   oracle.Analyzer
	wordBudget int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSentimentAggregator constructs the aggregator.
func NewSentimentAggregator(analyzer oracle.Analyzer, wordBudget int, dispatcher events.Dispatcher, logger *zap.Logger) *SentimentAggregator {
	if wordBudget <= 0 {
		wordBudget = 3000
	}
	return &SentimentAggregator{
		analyzer:   analyzer,
		wordBudget: wordBudget,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Score returns the rounded mean of per-chunk sentiment scores, clamped to
// [0,10]. Any chunk failure invalidates the whole client's score: a partial
// average is not a meaningful signal, so the client scores 0 instead.
func (s *SentimentAggregator) Score(ctx context.Context, cnbID string, tickets []domain.Ticket) int {
	if len(tickets) == 0 {
		return 0
	}

	chunks := ChunkTickets(tickets, s.wordBudget)
	total := 0.0
	for i, chunk := range chunks {
		score, err := s.analyzer.Sentiment(ctx, combineChunk(chunk))
		if err != nil {
			s.logger.Warn("sentiment aggregation failed",
				zap.String("cnb_id", cnbID),
				zap.Int("chunk", i),
				zap.Error(err))
			events.Emit(ctx, s.dispatcher, events.EventSentimentFailed, cnbID, events.SentimentFailedPayload{
				Chunk:  i,
				Reason: err.Error(),
			})
			return 0
		}
		total += score
	}

	mean := total / float64(len(chunks))
	return clampScore(int(math.Round(mean)))
}

// ChunkTickets partitions tickets into contiguous chunks whose combined
// title+content word count stays within budget. A single ticket larger than
// the budget forms a chunk of its own.
func ChunkTickets(tickets []domain.Ticket, wordBudget int) [][]domain.Ticket {
	var chunks [][]domain.Ticket
	var current []domain.Ticket
	currentWords := 0

	for _, ticket := range tickets {
		words := wordCount(ticket)
		if len(current) > 0 && currentWords+words > wordBudget {
			chunks = append(chunks, current)
			current = nil
			currentWords = 0
		}
		current = append(current, ticket)
		currentWords += words
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

func wordCount(t domain.Ticket) int {
	return len(strings.Fields(t.Title)) + len(strings.Fields(t.Content))
}

func combineChunk(tickets []domain.Ticket) string {
	parts := make([]string, 0, len(tickets))
	for _, t := range tickets {
		parts = append(parts, fmt.Sprintf("Title: %s\nContent: %s", t.Title, t.Content))
	}
	return strings.Join(parts, "\n")
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
