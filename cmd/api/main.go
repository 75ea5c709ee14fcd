package main

import (
	"fmt"
	"inventory/internal/app"
	"inventory/internal/handlers"
	"inventory/internal/logger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init(os.Getenv("ENVIRONMENT"))
	log := logger.New("main").Function("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to initialize app", err)
		os.Exit(1)
	}

	server := fiber.New(fiber.Config{
		AppName:      "inventory " + application.Config.GeneralVersion,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	})
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: application.Config.CorsAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID",
	}))
	server.Use(fiberLogger.New(fiberLogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		_ = application.Close()
		os.Exit(1)
	}

	go func() {
		addr := fmt.Sprintf(":%d", application.Config.ServerPort)
		log.Info("Starting server", "addr", addr, "environment", application.Config.Environment)
		if err := server.Listen(addr); err != nil {
			log.Er("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Er("failed to shut down server", err)
	}
	if err := application.Close(); err != nil {
		log.Er("failed to close app", err)
	}
}
