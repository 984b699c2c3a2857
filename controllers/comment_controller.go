package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/lead_management_backend/middleware"
	"github.com/HSouheill/lead_management_backend/models"
)

type CommentService interface {
	Create(ctx context.Context, leadID string, req models.CreateCommentRequest) (*models.Comment, error)
	ListForLead(ctx context.Context, leadID string) ([]models.CommentView, error)
}

var commentCreateStatus = statusMap{
	validation: map[string]int{"": http.StatusNotFound},
}

type CommentController struct {
	service CommentService
	metrics *middleware.Metrics
}

func NewCommentController(service CommentService, metrics *middleware.Metrics) *CommentController {
	return &CommentController{service: service, metrics: metrics}
}

// CreateComment handles POST /leads/:leadId/comments
func (cc *CommentController) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	comment, err := cc.service.Create(c.Request().Context(), c.Param("leadId"), req)
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			cc.metrics.Rejected("comment", reason)
		}
		return respondError(c, err, commentCreateStatus, "Failed to create comment.")
	}

	cc.metrics.Created("comment")
	return c.JSON(http.StatusOK, comment)
}

// GetComments handles GET /leads/:leadId/comments
func (cc *CommentController) GetComments(c echo.Context) error {
	comments, err := cc.service.ListForLead(c.Request().Context(), c.Param("leadId"))
	if err != nil {
		return respondError(c, err, statusMap{}, "Failed to fetch comments.")
	}
	if len(comments) == 0 {
		return errorJSON(c, http.StatusNotFound, "No comments found.")
	}
	return c.JSON(http.StatusOK, comments)
}
