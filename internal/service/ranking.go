package service

import (
	"sort"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// SortTickets orders one client's tickets ascending by priority rank, then
// urgency, then parsed creation time. The sort is stable so equal keys keep
// their input order. Tickets with an empty or unparsable timestamp carry the
// zero time and therefore sort first within their tier; see
// Ticket.CreatedAtTime for why that stands.
func SortTickets(tickets []domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		ri, rj := domain.PriorityRank(tickets[i].Priority), domain.PriorityRank(tickets[j].Priority)
		if ri != rj {
			return ri < rj
		}
		if tickets[i].Urgency != tickets[j].Urgency {
			return tickets[i].Urgency < tickets[j].Urgency
		}
		return tickets[i].CreatedAtTime().Before(tickets[j].CreatedAtTime())
	})
}

// SortClients orders client blocks by sentiment score descending, stable.
func SortClients(blocks []domain.ClientBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].SentimentScore > blocks[j].SentimentScore
	})
}
