package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/lead_management_backend/controllers"
	"github.com/HSouheill/lead_management_backend/middleware"
)

// Controllers groups the handlers SetupRoutes mounts.
type Controllers struct {
	Health  *controllers.HealthController
	Agent   *controllers.AgentController
	Lead    *controllers.LeadController
	Comment *controllers.CommentController
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, ctrl Controllers, metrics *middleware.Metrics) {
	e.Match([]string{"GET", "HEAD"}, "/", ctrl.Health.Root)
	e.Match([]string{"GET", "HEAD"}, "/health", ctrl.Health.Health)
	if metrics != nil {
		e.GET("/metrics", metrics.Handler())
	}

	RegisterAgentRoutes(e, ctrl.Agent)
	RegisterLeadRoutes(e, ctrl.Lead)
	RegisterCommentRoutes(e, ctrl.Comment)
	RegisterReportRoutes(e, ctrl.Lead)
}
