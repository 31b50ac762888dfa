package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appcron "github.com/agenda-app/agenda-api/cron"
	"github.com/agenda-app/agenda-api/db"
	"github.com/agenda-app/agenda-api/redis"
	"github.com/agenda-app/agenda-api/routes"
	"github.com/agenda-app/agenda-api/ws"
)

var startTime = time.Now()

func main() {
	db.Init()
	db.Migrate()
	redis.InitRedis()

	app := fiber.New(fiber.Config{
		AppName: "agenda-api",
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnv("CORS_ORIGIN", "*"),
	}))
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		Expiration: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/ws"
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(startTime).Seconds(),
		})
	})

	routes.SetupAuthRoutes(app)
	routes.SetupUserRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupSettingsRoutes(app)
	routes.SetupAIRoutes(app)
	ws.SetupWebSocket(app)

	// Unknown routes fall through to here
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})

	appcron.StartCronJobs()

	port := getEnv("PORT", "5000")
	log.Printf("🚀 Server running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
