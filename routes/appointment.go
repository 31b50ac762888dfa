package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agenda-app/agenda-api/controllers"
	"github.com/agenda-app/agenda-api/middleware"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/api/appointments", middleware.Protected())
	appointment.Get("/", controllers.GetAppointments)
	appointment.Get("/analytics/stats", controllers.GetAnalytics)
	appointment.Get("/:id", controllers.GetAppointment)
	appointment.Post("/", controllers.CreateAppointment)
	appointment.Put("/:id", controllers.UpdateAppointment)
	appointment.Delete("/:id", controllers.DeleteAppointment)
}
