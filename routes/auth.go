package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agenda-app/agenda-api/controllers"
	"github.com/agenda-app/agenda-api/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetMe)
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
}
