package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agenda-app/agenda-api/controllers"
	"github.com/agenda-app/agenda-api/middleware"
)

// SetupAIRoutes configures the mock AI endpoints
func SetupAIRoutes(app *fiber.App) {
	ai := app.Group("/api/ai", middleware.Protected())
	ai.Get("/suggestions", controllers.GetAISuggestions)
	ai.Post("/recommend-time", controllers.RecommendTime)
	ai.Get("/productivity-analysis", controllers.GetProductivityAnalysis)
	ai.Post("/smart-schedule", controllers.SmartSchedule)
}
