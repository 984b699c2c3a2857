package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/lead_management_backend/controllers"
)

// RegisterAgentRoutes sets up the sales agent routes
func RegisterAgentRoutes(e *echo.Echo, agentController *controllers.AgentController) {
	agents := e.Group("/agents")

	agents.POST("", agentController.CreateAgent)
	agents.GET("", agentController.GetAgents)
	agents.DELETE("/:agentId", agentController.DeleteAgent)
}
