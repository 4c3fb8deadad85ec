package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/biosecret/portfolio-api/auth"
	"github.com/biosecret/portfolio-api/config"
	"github.com/biosecret/portfolio-api/database"
	"github.com/biosecret/portfolio-api/handlers"
	"github.com/biosecret/portfolio-api/middleware"
	"github.com/biosecret/portfolio-api/notify"
	"github.com/biosecret/portfolio-api/reminders"
	"github.com/biosecret/portfolio-api/router"
)

const shutdownTimeout = 10 * time.Second

// NewApp builds the Fiber application with middleware and routes
func NewApp(cfg config.Config, h *handlers.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "portfolio-api",
		ErrorHandler: jsonErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// recover from panics and log every request
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
	}))

	var limiter *middleware.RateLimiter
	if cfg.AuthRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.AuthRateLimit)
	}
	router.SetupRoutes(app, h, limiter)

	config.AddSwaggerRoutes(app)

	return app
}

// jsonErrorHandler renders errors that escape handlers (unknown routes, panics) as JSON
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// SetupAndRunApp opens the store, starts the reminder scheduler and serves HTTP
// until SIGINT or SIGTERM.
func SetupAndRunApp(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.StoreDriver, cfg.StoreSource())
	if err != nil {
		return err
	}
	defer store.Close()

	hub := notify.NewHub()
	defer hub.Close()
	notifiers := notify.Multi{hub}

	if cfg.MQTTURL != "" {
		publisher, err := notify.ConnectMQTT(cfg.MQTTURL, cfg.MQTTClientID)
		if err != nil {
			return err
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
	}

	scheduler := reminders.NewScheduler(store, notifiers, cfg.ReminderInterval, cfg.ReminderLead)
	go scheduler.Run(ctx)

	authService := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL)
	app := NewApp(cfg, handlers.New(store, authService, hub))

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		// end open event streams so shutdown does not wait for them
		hub.Close()
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}
