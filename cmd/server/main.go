package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"socialpost-ai/internal/adapters/web"
	"socialpost-ai/internal/app"
	"socialpost-ai/internal/config"
	"socialpost-ai/pkg/log"
	"socialpost-ai/pkg/log/transporters"
)

const platformsWatchInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "socialpost-ai: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, cfgErr := config.Load()

	logger := log.New(log.LevelOr(cfg.LogLevel, log.Info), transporters.NewStdout())
	log.SetDefault(logger)
	defer logger.Close()

	if cfgErr != nil {
		log.GlobalWarn("invalid configuration values, using defaults", "error", cfgErr)
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PlatformsConfig != "" {
		go application.Platforms.Watch(ctx, platformsWatchInterval)
	}
	go application.SweepCache(ctx, cfg.CacheSweepInterval)

	handlers := web.NewHandlers(application.Generator, application.Platforms)
	rateLimiter := web.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	go rateLimiter.Cleanup(ctx, time.Minute)

	fiberApp := fiber.New(fiber.Config{
		AppName:               "SocialPost AI",
		DisableStartupMessage: true,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New(web.RequestIDConfig()))
	fiberApp.Use(web.RequestIDToContextMiddleware())
	fiberApp.Use(web.RequestLoggerMiddleware())

	web.SetupRoutes(fiberApp, handlers, rateLimiter)

	go func() {
		<-ctx.Done()
		log.GlobalInfo("shutting down")
		if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.GlobalError("shutdown failed", "error", err)
		}
	}()

	log.GlobalInfo("starting server", "port", cfg.Port, "model", cfg.LLMModel, "providers", cfg.SearchProviders)
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
