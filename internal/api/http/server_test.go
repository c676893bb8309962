package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/api/http/handlers"
	"github.com/spec-kit/ticket-prioritizer/internal/config"
	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/observability"
	"github.com/spec-kit/ticket-prioritizer/internal/service"
	"github.com/spec-kit/ticket-prioritizer/internal/source"
	"github.com/spec-kit/ticket-prioritizer/internal/worker"
)

type stubFetcher struct {
	data map[string]*source.ClientData
}

func (s *stubFetcher) Fetch(ctx context.Context, cnbID string) (*source.ClientData, error) {
	if data, ok := s.data[cnbID]; ok {
		return data, nil
	}
	return nil, errors.New("unknown client")
}

type stubAnalyzer struct {
	sentiments map[string]float64
}

func (s *stubAnalyzer) Enrich(ctx context.Context, title, content, createdAt string) (domain.Enrichment, error) {
	return domain.Enrichment{Summary: "summary of " + title, Priority: domain.TicketPriorityMedium, Urgency: 3}, nil
}

func (s *stubAnalyzer) Sentiment(ctx context.Context, text string) (float64, error) {
	for marker, score := range s.sentiments {
		if strings.Contains(text, marker) {
			return score, nil
		}
	}
	return 5, nil
}

func newTestApp(t *testing.T, fetcher service.RecordFetcher, analyzer *stubAnalyzer) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := worker.NewPool(2)
	t.Cleanup(pool.Shutdown)

	pipeline := service.NewPipelineService(service.PipelineDependencies{
		Fetcher:    fetcher,
		Analyzer:   analyzer,
		Pool:       pool,
		Sentiment:  service.NewSentimentAggregator(analyzer, 3000, dispatcher, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler("test", "dev", config.OracleConfig{APIKey: "key"}),
		Prioritize: handlers.NewPrioritizeHandler(pipeline),
		Metrics:    metrics.Handler(),
	})
	return app
}

func TestPrioritizeRejectsMissingCNBIDs(t *testing.T) {
	app := newTestApp(t, &stubFetcher{}, &stubAnalyzer{})

	req := httptest.NewRequest("POST", "/prioritize", strings.NewReader(`{"new_tickets":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Error.Code != "VALIDATION_FAILED" {
		t.Errorf("unexpected error code: %q", payload.Error.Code)
	}
}

func TestPrioritizeSingleClientOmitsInternalFields(t *testing.T) {
	fetcher := &stubFetcher{data: map[string]*source.ClientData{
		"C1": {ClientName: "Acme", Records: []source.Record{
			{TicketNumber: "TCK-1", Title: "Broken search", Content: "secret internals", Priority: "High", CreatedAt: "2024-05-01 10:00:00"},
		}},
	}}
	app := newTestApp(t, fetcher, &stubAnalyzer{})

	req := httptest.NewRequest("POST", "/prioritize", strings.NewReader(`{"cnb_ids":["C1"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var tickets []map[string]any
	if err := json.Unmarshal(body, &tickets); err != nil {
		t.Fatalf("response should be a flat array: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}

	ticket := tickets[0]
	if ticket["ticket_number"] != "TCK-1" || ticket["client_name"] != "Acme" {
		t.Errorf("unexpected ticket: %v", ticket)
	}
	for _, hidden := range []string{"content", "urgency", "created_at", "sentiment_score"} {
		if _, present := ticket[hidden]; present {
			t.Errorf("%s must not appear in single-client output", hidden)
		}
	}
}

func TestPrioritizeMultiClientAttachesSentimentAndOrders(t *testing.T) {
	fetcher := &stubFetcher{data: map[string]*source.ClientData{
		"A": {ClientName: "Alpha", Records: []source.Record{
			{TicketNumber: "A-1", Title: "a", Content: "alpha things", Priority: "Low"},
		}},
		"B": {ClientName: "Beta", Records: []source.Record{
			{TicketNumber: "B-1", Title: "b", Content: "beta things", Priority: "Low"},
		}},
	}}
	analyzer := &stubAnalyzer{sentiments: map[string]float64{"alpha things": 8, "beta things": 3}}
	app := newTestApp(t, fetcher, analyzer)

	req := httptest.NewRequest("POST", "/prioritize", strings.NewReader(`{"cnb_ids":["B","A"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	var tickets []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	if tickets[0]["client_id"] != "A" {
		t.Errorf("higher-sentiment client should come first, got %v", tickets[0]["client_id"])
	}
	if tickets[0]["sentiment_score"] != float64(8) {
		t.Errorf("unexpected sentiment on first ticket: %v", tickets[0]["sentiment_score"])
	}
	if tickets[1]["sentiment_score"] != float64(3) {
		t.Errorf("unexpected sentiment on second ticket: %v", tickets[1]["sentiment_score"])
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	app := newTestApp(t, &stubFetcher{}, &stubAnalyzer{})

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("app.Test %s: %v", path, err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
