package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-prioritizer/internal/api/dto"
	"github.com/spec-kit/ticket-prioritizer/internal/domain"
	"github.com/spec-kit/ticket-prioritizer/internal/service"
	apperrors "github.com/spec-kit/ticket-prioritizer/pkg/util"
)

// PrioritizeHandler serves the ticket ranking endpoint.
type PrioritizeHandler struct {
	service *service.PipelineService
}

// NewPrioritizeHandler constructs handler.
func NewPrioritizeHandler(pipelineService *service.PipelineService) *PrioritizeHandler {
	return &PrioritizeHandler{service: pipelineService}
}

// Prioritize POST /prioritize.
func (h *PrioritizeHandler) Prioritize(c *fiber.Ctx) error {
	var req dto.PrioritizeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.PrioritizeInput{
		CNBIDs:     req.CNBIDs,
		NewTickets: make([]service.NewTicketInput, 0, len(req.NewTickets)),
	}
	for _, nt := range req.NewTickets {
		input.NewTickets = append(input.NewTickets, service.NewTicketInput{
			ClientID:     nt.ClientID,
			TicketNumber: nt.TicketNumber,
			Title:        nt.Title,
			Content:      nt.Content,
			CreatedAt:    nt.CreatedAt,
			Priority:     nt.Priority,
		})
	}

	blocks, err := h.service.Prioritize(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.JSON(flattenBlocks(blocks, len(req.CNBIDs) > 1))
}

// flattenBlocks turns ordered client blocks into the flat emitted list,
// stripping internal-only fields and attaching the sentiment score per ticket
// only for multi-client requests.
func flattenBlocks(blocks []domain.ClientBlock, multiClient bool) []dto.RankedTicket {
	ranked := make([]dto.RankedTicket, 0)
	for _, block := range blocks {
		for _, ticket := range block.Tickets {
			out := dto.RankedTicket{
				TicketNumber: ticket.TicketNumber,
				ClientID:     ticket.ClientID,
				ClientName:   ticket.ClientName,
				Title:        ticket.Title,
				Summary:      ticket.Summary,
				Priority:     ticket.Priority,
			}
			if multiClient {
				score := block.SentimentScore
				out.SentimentScore = &score
			}
			ranked = append(ranked, out)
		}
	}
	return ranked
}
