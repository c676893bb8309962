package service

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/source"
)

// NewTicketInput is a caller-submitted ticket as it arrives in the request.
type NewTicketInput struct {
	ClientID     string
	TicketNumber string
	Title        string
	Content      string
	CreatedAt    string
	Priority     string
}

// NormalizeFetched converts raw source records into staging tickets. Records
// missing a ticket number or content are dropped silently. A record with no
// declared priority is trusted at Low, matching the upstream source contract.
func NormalizeFetched(cnbID, clientName string, records []source.Record) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(records))
	for _, rec := range records {
		if rec.TicketNumber == "" || rec.Content == "" {
			continue
		}
		priority := domain.TicketPriority(rec.Priority)
		if rec.Priority == "" {
			priority = domain.TicketPriorityLow
		}
		tickets = append(tickets, domain.Ticket{
			TicketNumber: rec.TicketNumber,
			ClientID:     cnbID,
			ClientName:   clientName,
			Title:        rec.Title,
			Content:      rec.Content,
			CreatedAt:    rec.CreatedAt,
			Priority:     priority,
		})
	}
	return tickets
}

// AppendNew appends caller-submitted tickets after the fetched ones in input
// order. Tickets without a number get a synthetic NEW-<n>, n being the
// 1-based position among the client's caller-submitted tickets. Declared
// priorities are title-cased; values outside the enumeration stay as-is and
// fall back to the oracle's suggestion during merge.
func AppendNew(tickets []domain.Ticket, cnbID, clientName string, inputs []NewTicketInput) []domain.Ticket {
	for n, input := range inputs {
		number := strings.TrimSpace(input.TicketNumber)
		if number == "" {
			number = fmt.Sprintf("NEW-%d", n+1)
		}
		tickets = append(tickets, domain.Ticket{
			TicketNumber: number,
			ClientID:     cnbID,
			ClientName:   clientName,
			Title:        input.Title,
			Content:      input.Content,
			CreatedAt:    input.CreatedAt,
			Priority:     domain.NormalizePriority(input.Priority),
		})
	}
	return tickets
}

// GroupNewTickets buckets caller-submitted tickets by client id, preserving
// input order. Entries without a client id are ignored.
func GroupNewTickets(inputs []NewTicketInput) map[string][]NewTicketInput {
	grouped := make(map[string][]NewTicketInput)
	for _, input := range inputs {
		if input.ClientID == "" {
			continue
		}
		grouped[input.ClientID] = append(grouped[input.ClientID], input)
	}
	return grouped
}
