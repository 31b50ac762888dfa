package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agenda-app/agenda-api/controllers"
	"github.com/agenda-app/agenda-api/middleware"
)

// SetupUserRoutes configures all user profile related routes
func SetupUserRoutes(app *fiber.App) {
	user := app.Group("/api/users", middleware.Protected())
	user.Get("/profile", controllers.GetProfile)
	user.Put("/profile", controllers.UpdateProfile)
	user.Post("/profile/picture", controllers.UpdateProfilePicture)
	user.Get("/settings", controllers.GetSettings)
	user.Put("/settings", controllers.UpdateSettings)
	user.Delete("/account", controllers.DeleteAccount)
}
