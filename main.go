// main.go - teammatch API server
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"teammatch/config"
	"teammatch/database"
	"teammatch/handlers"
	"teammatch/handlers/admin"
	"teammatch/middleware"
	"teammatch/services"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()
	cfg.SetupLogging()

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("FATAL: invalid configuration")
	}

	if err := database.InitDB(cfg); err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.CloseDB()

	middleware.InitAuth(cfg)
	handlers.InitHandlers(database.GetDB(), cfg.IsProduction())

	auditWorker := services.NewAuditWorker(database.GetDB(), cfg.AuditInterval)
	auditWorker.Start()
	defer auditWorker.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency}) ${locals:requestid}\n",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
	}))

	var limiters *middleware.Limiters
	stopCleanup := make(chan struct{})
	if cfg.RateLimitEnabled {
		limiters = middleware.NewLimiters(cfg)
		limiters.StartCleanup(stopCleanup)
	}

	handlers.RegisterRoutes(app, limiters)
	admin.RegisterRoutes(app, auditWorker)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down...")
		close(stopCleanup)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Shutdown failed")
		}
	}()

	log.WithFields(log.Fields{
		"port":           cfg.Port,
		"env":            cfg.AppEnv,
		"driver":         cfg.DBDriver,
		"rate_limit":     cfg.RateLimitEnabled,
		"audit_interval": cfg.AuditInterval.String(),
	}).Info("🚀 HTTP server starting")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start HTTP server")
	}
}
