package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventClientSkipped      EventType = "client_skipped"
	EventEnrichmentFallback EventType = "enrichment_fallback"
	EventSentimentFailed    EventType = "sentiment_failed"
	EventPipelineCompleted  EventType = "pipeline_completed"
)

// Event represents an observability event emitted by the pipeline.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ClientID  string      `json:"client_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ClientSkippedPayload payload.
type ClientSkippedPayload struct {
	Reason string `json:"reason"`
}

// EnrichmentFallbackPayload payload.
type EnrichmentFallbackPayload struct {
	TicketNumber string `json:"ticket_number"`
	Reason       string `json:"reason"`
}

// SentimentFailedPayload payload.
type SentimentFailedPayload struct {
	Chunk  int    `json:"chunk"`
	Reason string `json:"reason"`
}

// PipelineCompletedPayload payload.
type PipelineCompletedPayload struct {
	ClientsRequested int `json:"clients_requested"`
	ClientsSkipped   int `json:"clients_skipped"`
	TicketsEmitted   int `json:"tickets_emitted"`
}
