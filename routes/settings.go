package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agenda-app/agenda-api/controllers"
	"github.com/agenda-app/agenda-api/middleware"
)

// SetupSettingsRoutes exposes /api/settings as a front-end alias for the
// user settings handlers.
func SetupSettingsRoutes(app *fiber.App) {
	settings := app.Group("/api/settings", middleware.Protected())
	settings.Get("/", controllers.GetSettings)
	settings.Put("/", controllers.UpdateSettings)
}
