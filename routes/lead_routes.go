package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/lead_management_backend/controllers"
)

// RegisterLeadRoutes sets up the lead routes. POST on a single lead is the
// partial update.
func RegisterLeadRoutes(e *echo.Echo, leadController *controllers.LeadController) {
	leads := e.Group("/leads")

	leads.POST("", leadController.CreateLead)
	leads.GET("", leadController.GetLeads)
	leads.GET("/:leadId", leadController.GetLead)
	leads.POST("/:leadId", leadController.UpdateLead)
	leads.DELETE("/:leadId", leadController.DeleteLead)
}

func RegisterCommentRoutes(e *echo.Echo, commentController *controllers.CommentController) {
	comments := e.Group("/leads/:leadId/comments")

	comments.POST("", commentController.CreateComment)
	comments.GET("", commentController.GetComments)
}

func RegisterReportRoutes(e *echo.Echo, leadController *controllers.LeadController) {
	e.GET("/report/last-week", leadController.GetLastWeekReport)
}
