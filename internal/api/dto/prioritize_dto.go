package dto

import "github.com/spec-kit/ticket-prioritizer/internal/domain"

// PrioritizeRequest payload.
type PrioritizeRequest struct {
	CNBIDs     []string         `json:"cnb_ids"`
	NewTickets []NewTicketInput `json:"new_tickets"`
}

// NewTicketInput is one caller-submitted ticket.
type NewTicketInput struct {
	ClientID     string `json:"client_id"`
	TicketNumber string `json:"ticket_number"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
	Priority     string `json:"priority"`
}

// RankedTicket is the emitted ticket shape. Content and urgency are internal
// signals and never leave the pipeline; sentiment_score appears only on
// multi-client requests.
type RankedTicket struct {
	TicketNumber   string                `json:"ticket_number"`
	ClientID       string                `json:"client_id"`
	ClientName     string                `json:"client_name"`
	Title          string                `json:"title"`
	Summary        string                `json:"summary"`
	Priority       domain.TicketPriority `json:"priority"`
	SentimentScore *int                  `json:"sentiment_score,omitempty"`
}
