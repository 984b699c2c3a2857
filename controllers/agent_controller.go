package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/lead_management_backend/middleware"
	"github.com/HSouheill/lead_management_backend/models"
)

type AgentService interface {
	Create(ctx context.Context, req models.CreateAgentRequest) (*models.SalesAgent, error)
	List(ctx context.Context) ([]models.SalesAgent, error)
	Delete(ctx context.Context, id string) (*models.SalesAgent, error)
}

// Every agent creation failure, duplicates included, is answered with 404.
var agentCreateStatus = statusMap{
	validation: map[string]int{"": http.StatusNotFound},
	notFound:   http.StatusNotFound,
	conflict:   http.StatusNotFound,
}

type AgentController struct {
	service AgentService
	metrics *middleware.Metrics
}

func NewAgentController(service AgentService, metrics *middleware.Metrics) *AgentController {
	return &AgentController{service: service, metrics: metrics}
}

// CreateAgent handles POST /agents
func (ac *AgentController) CreateAgent(c echo.Context) error {
	var req models.CreateAgentRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	agent, err := ac.service.Create(c.Request().Context(), req)
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			ac.metrics.Rejected("agent", reason)
		}
		return respondError(c, err, agentCreateStatus, "Failed to create agent.")
	}

	ac.metrics.Created("agent")
	return c.JSON(http.StatusCreated, agent)
}

// GetAgents handles GET /agents. A non-empty list is answered with 201.
func (ac *AgentController) GetAgents(c echo.Context) error {
	agents, err := ac.service.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, statusMap{}, "Failed to fetch agents.")
	}
	if len(agents) == 0 {
		return errorJSON(c, http.StatusNotFound, "No agents found.")
	}
	return c.JSON(http.StatusCreated, agents)
}

// DeleteAgent handles DELETE /agents/:agentId
func (ac *AgentController) DeleteAgent(c echo.Context) error {
	agent, err := ac.service.Delete(c.Request().Context(), c.Param("agentId"))
	if err != nil {
		return respondError(c, err, statusMap{}, "Failed to delete agent.")
	}

	ac.metrics.Deleted("agent")
	return c.JSON(http.StatusOK, agent)
}
