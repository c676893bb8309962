package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-prioritizer/internal/config"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	oracle      config.OracleConfig
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, oracle config.OracleConfig) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, oracle: oracle}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness. The oracle is a paid remote API, so
// readiness only checks that it is configured rather than calling it.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	depStatus := fiber.Map{}
	ready := true

	if h.oracle.APIKey == "" {
		depStatus["oracle"] = "missing API key"
		ready = false
	} else {
		depStatus["oracle"] = "configured"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
