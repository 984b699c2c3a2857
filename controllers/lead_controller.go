package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/lead_management_backend/middleware"
	"github.com/HSouheill/lead_management_backend/models"
)

type LeadService interface {
	Create(ctx context.Context, req models.CreateLeadRequest) (*models.Lead, error)
	List(ctx context.Context, f models.LeadFilter) ([]models.LeadView, error)
	Get(ctx context.Context, id string) (*models.LeadView, error)
	Update(ctx context.Context, id string, req models.UpdateLeadRequest) (*models.Lead, error)
	Delete(ctx context.Context, id string) (*models.Lead, error)
	LastWeekClosed(ctx context.Context) ([]models.Lead, error)
}

// Missing name or source is answered with 404, every later rule with 400.
var leadCreateStatus = statusMap{
	validation: map[string]int{
		"name":   http.StatusNotFound,
		"source": http.StatusNotFound,
	},
}

type LeadController struct {
	service LeadService
	metrics *middleware.Metrics
}

func NewLeadController(service LeadService, metrics *middleware.Metrics) *LeadController {
	return &LeadController{service: service, metrics: metrics}
}

// CreateLead handles POST /leads
func (lc *LeadController) CreateLead(c echo.Context) error {
	var req models.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	lead, err := lc.service.Create(c.Request().Context(), req)
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			lc.metrics.Rejected("lead", reason)
		}
		return respondError(c, err, leadCreateStatus, "Failed to create lead.")
	}

	lc.metrics.Created("lead")
	return c.JSON(http.StatusCreated, lead)
}

// GetLeads handles GET /leads?salesAgent=&status=&source=&priority=
func (lc *LeadController) GetLeads(c echo.Context) error {
	filter := models.LeadFilter{
		SalesAgent: c.QueryParam("salesAgent"),
		Status:     c.QueryParam("status"),
		Source:     c.QueryParam("source"),
		Priority:   c.QueryParam("priority"),
	}

	leads, err := lc.service.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, statusMap{}, "Failed to fetch leads.")
	}
	if len(leads) == 0 {
		return errorJSON(c, http.StatusNotFound, "No leads found.")
	}
	return c.JSON(http.StatusCreated, leads)
}

// GetLead handles GET /leads/:leadId
func (lc *LeadController) GetLead(c echo.Context) error {
	lead, err := lc.service.Get(c.Request().Context(), c.Param("leadId"))
	if err != nil {
		return respondError(c, err, statusMap{}, "Failed to fetch lead.")
	}
	return c.JSON(http.StatusOK, lead)
}

// UpdateLead handles POST /leads/:leadId with a partial body.
func (lc *LeadController) UpdateLead(c echo.Context) error {
	var req models.UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	lead, err := lc.service.Update(c.Request().Context(), c.Param("leadId"), req)
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			lc.metrics.Rejected("lead_update", reason)
		}
		return respondError(c, err, statusMap{}, "Failed to update lead.")
	}
	return c.JSON(http.StatusOK, lead)
}

// DeleteLead handles DELETE /leads/:leadId
func (lc *LeadController) DeleteLead(c echo.Context) error {
	lead, err := lc.service.Delete(c.Request().Context(), c.Param("leadId"))
	if err != nil {
		return respondError(c, err, statusMap{}, "Failed to delete lead.")
	}

	lc.metrics.Deleted("lead")
	return c.JSON(http.StatusOK, lead)
}

// GetLastWeekReport handles GET /report/last-week. An empty week is a 200
// with an empty array.
func (lc *LeadController) GetLastWeekReport(c echo.Context) error {
	leads, err := lc.service.LastWeekClosed(c.Request().Context())
	if err != nil {
		return respondError(c, err, statusMap{}, "Failed to fetch leads.")
	}
	return c.JSON(http.StatusOK, leads)
}
