package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/milelog/internal/adapters/http"
	"github.com/samirrijal/milelog/internal/adapters/mapbox"
	"github.com/samirrijal/milelog/internal/adapters/valkey"
	"github.com/samirrijal/milelog/internal/core/ports"
	"github.com/samirrijal/milelog/internal/core/usecases"
	"github.com/samirrijal/milelog/internal/core/viewport"
	"github.com/samirrijal/milelog/internal/pkg/config"
	"github.com/samirrijal/milelog/internal/pkg/logging"
	"github.com/samirrijal/milelog/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("milelog-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}
	logging.Setup(logLevel, logFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	var cache *valkey.Cache
	var cacheSvc ports.CacheService
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, caching disabled", "error", err)
			cache = nil
		} else {
			defer cache.Close()
			cacheSvc = cache
		}
	}

	// Map provider
	encoder := mapbox.NewStaticURLEncoder(cfg.Mapbox)
	if !encoder.Configured() {
		slog.Error("mapbox access token is not configured; route map requests will fail",
			"env", "MILELOG_MAPBOX_ACCESS_TOKEN")
	}
	client := mapbox.NewClient(cfg.Mapbox.Timeout(), cfg.Mapbox.MaxRetries)
	geocoder := mapbox.NewGeocoder(client, cfg.Mapbox)

	// Use cases
	builder := viewport.NewBuilder(cfg.Map.Fitter())
	routeMapSvc := usecases.NewRouteMapService(builder, cfg.Map.Geometry(), encoder, client, cacheSvc)
	placeSvc := usecases.NewPlaceService(geocoder, cacheSvc)

	deps := &http.Dependencies{
		RouteMaps:       routeMapSvc,
		Places:          placeSvc,
		Cache:           cache,
		TokenConfigured: encoder.Configured(),
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024, // GraphQL queries only
		AppName:      "Milelog API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
