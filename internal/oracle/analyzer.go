package oracle

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/config"
	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/observability"
)

// FallbackSummary replaces the summary when the oracle call fails outright.
const FallbackSummary = "Could not summarize"

// Analyzer is the capability interface for the text-analysis oracle.
// Enrich never fails hard: on error the returned Enrichment is the fallback
// triple and the error only describes the cause for observability.
type Analyzer interface {
	Enrich(ctx context.Context, title, content, createdAt string) (domain.Enrichment, error)
	Sentiment(ctx context.Context, text string) (float64, error)
}

// LLMAnalyzer implements Analyzer against a chat-completions API.
type LLMAnalyzer struct {
	client      ChatClient
	model       string
	temperature float64
	maxTokens   int
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// NewLLMAnalyzer constructs the analyzer.
func NewLLMAnalyzer(client ChatClient, cfg config.OracleConfig, logger *zap.Logger, metrics *observability.Metrics) *LLMAnalyzer {
	return &LLMAnalyzer{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
		metrics:     metrics,
	}
}

// Enrich asks the oracle for a one-line summary, a suggested priority and an
// urgency level for a single ticket.
func (a *LLMAnalyzer) Enrich(ctx context.Context, title, content, createdAt string) (domain.Enrichment, error) {
	reply, err := a.complete(ctx, enrichmentPrompt(title, content, createdAt))
	if err != nil {
		a.logger.Warn("oracle enrichment failed",
			zap.String("title", title),
			zap.Error(err))
		a.metrics.RecordOracleCall("enrichment", "fallback")
		return FallbackEnrichment(), err
	}
	a.metrics.RecordOracleCall("enrichment", "ok")
	return ParseEnrichment(reply), nil
}

// Sentiment asks the oracle for a single relationship score in [0,10] for the
// combined text of one chunk of tickets.
func (a *LLMAnalyzer) Sentiment(ctx context.Context, text string) (float64, error) {
	reply, err := a.complete(ctx, sentimentPrompt(text))
	if err != nil {
		a.metrics.RecordOracleCall("sentiment", "fallback")
		return 0, err
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		a.metrics.RecordOracleCall("sentiment", "fallback")
		return 0, fmt.Errorf("oracle: non-numeric sentiment %q: %w", strings.TrimSpace(reply), err)
	}
	a.metrics.RecordOracleCall("sentiment", "ok")
	return score, nil
}

func (a *LLMAnalyzer) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.ChatCompletion(ctx, ChatCompletionRequest{
		Model:       a.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("oracle: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func enrichmentPrompt(title, content, createdAt string) string {
	return fmt.Sprintf(`You are a smart support ticket analyzer.

Given this support ticket, do the following:
1. Summarize the ticket in 1 short line.
2. Determine the correct priority from (Urgent, High, Medium, Low) based on the title, content, and customer urgency.
3. Determine urgency level from 1 to 5 (1 = most urgent, 5 = least), based on the content and created datetime.

Respond exactly in this format:
Summary: <your one-line summary>
Priority: <Urgent/High/Medium/Low>
Urgency: <1-5>

Title: %s
Created At: %s
Content: %s
`, title, createdAt, content)
}

func sentimentPrompt(text string) string {
	return fmt.Sprintf(`You are a relationship evaluator. Based on this client's complete ticket content, assign a relationship sentiment score between 0 to 10.

Tickets:
%s

Respond with only a number between 0 and 10.`, text)
}
