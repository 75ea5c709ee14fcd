package handlers

import (
	"inventory/internal/app"
	"inventory/internal/logger"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	log := logger.New("handlers").File("health_handler")

	router.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"message":     "success",
			"status":      "ok",
			"version":     app.Config.GeneralVersion,
			"environment": app.Config.Environment,
			"database":    "ok",
			"cache":       "disabled",
			"clients":     app.Websocket.ClientCount(),
		}

		sqlDB, err := app.Database.SQL.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Context())
		}
		if err != nil {
			log.Function("health").Er("database ping failed", err)
			status["status"] = "degraded"
			status["database"] = "unavailable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}

		if app.Config.CacheEnabled() {
			status["cache"] = "ok"
		}

		return c.JSON(status)
	})
}
