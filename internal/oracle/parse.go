package oracle

import (
	"strconv"
	"strings"

	"github.com/spec-kit/ticket-prioritizer/internal/domain"
)

// FallbackEnrichment is returned whole when the oracle call itself fails.
func FallbackEnrichment() domain.Enrichment {
	return domain.Enrichment{
		Summary:  FallbackSummary,
		Priority: domain.TicketPriorityLow,
		Urgency:  domain.UrgencyFallback,
	}
}

// ParseEnrichment extracts the three labeled lines from an oracle reply.
// Labels are matched case-insensitively; missing or malformed fields keep
// their defaults (summary "N/A", priority Low, urgency fallback sentinel).
func ParseEnrichment(output string) domain.Enrichment {
	enrichment := domain.Enrichment{
		Summary:  "N/A",
		Priority: domain.TicketPriorityLow,
		Urgency:  domain.UrgencyFallback,
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "summary:"):
			enrichment.Summary = labelValue(line)
		case strings.HasPrefix(lower, "priority:"):
			candidate := domain.NormalizePriority(labelValue(line))
			if domain.ValidPriority(candidate) {
				enrichment.Priority = candidate
			}
		case strings.HasPrefix(lower, "urgency:"):
			level, err := strconv.Atoi(labelValue(line))
			if err == nil && level >= 1 && level <= 5 {
				enrichment.Urgency = level
			}
		}
	}

	return enrichment
}

func labelValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}
