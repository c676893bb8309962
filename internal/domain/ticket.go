package domain

import (
	"strings"
	"time"
)

// TicketPriority enumerates the recognized priority tiers.
type TicketPriority string

const (
	TicketPriorityUrgent TicketPriority = "Urgent"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityLow    TicketPriority = "Low"
)

// UrgencyFallback is assigned when the oracle fails to produce a valid
// urgency level. It sorts after every valid 1-5 value.
const UrgencyFallback = 6

// CreatedAtLayout is the timestamp format used by the external record source.
const CreatedAtLayout = "2006-01-02 15:04:05"

// priorityRanks orders tiers for sorting; unrecognized values rank last.
var priorityRanks = map[TicketPriority]int{
	TicketPriorityUrgent: 0,
	TicketPriorityHigh:   1,
	TicketPriorityMedium: 2,
	TicketPriorityLow:    3,
}

// PriorityRank returns the sort rank for a priority tier, 4 for anything
// outside the enumeration.
func PriorityRank(p TicketPriority) int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}
	return 4
}

// ValidPriority reports whether p is one of the four recognized tiers.
func ValidPriority(p TicketPriority) bool {
	_, ok := priorityRanks[p]
	return ok
}

// NormalizePriority title-cases a raw priority string so "URGENT" and
// "urgent" both map to "Urgent". The result may still be outside the
// enumeration; callers check with ValidPriority.
func NormalizePriority(raw string) TicketPriority {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return TicketPriority(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
}

// Ticket is a single support request flowing through the enrichment pipeline.
// Content and Urgency are internal-only and stripped before emission.
type Ticket struct {
	TicketNumber string
	ClientID     string
	ClientName   string
	Title        string
	Content      string
	CreatedAt    string
	Priority     TicketPriority
	Urgency      int
	Summary      string
}

// CreatedAtTime parses the source timestamp. Empty or unparsable values map
// to the zero time, which sorts before any valid timestamp within a tier.
// Known anomaly kept for compatibility with the upstream consumer.
func (t Ticket) CreatedAtTime() time.Time {
	ts, err := time.Parse(CreatedAtLayout, t.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// ClientBlock groups one client's enriched tickets with its sentiment score
// for the duration of a single request.
type ClientBlock struct {
	ClientID       string
	ClientName     string
	SentimentScore int
	Tickets        []Ticket
}

// Enrichment is the oracle's verdict for a single ticket.
type Enrichment struct {
	Summary  string
	Priority TicketPriority
	Urgency  int
}
