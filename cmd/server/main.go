// ============================================================================
// MAIN.GO - APPLICATION ENTRY POINT
// ============================================================================
// Startup flow, top to bottom:
//
//   config -> logger -> postgres pool -> redis -> repositories -> geoip
//   resolver -> pdf renderer -> service -> handler -> routes -> middleware
//   -> http server -> graceful shutdown
//
// Dependencies are wired manually. No DI container: every edge of the
// dependency graph is visible right here.
// ============================================================================

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdrielTeles97/pdf-tracker/internal/config"
	"github.com/AdrielTeles97/pdf-tracker/internal/geoip"
	httpHandler "github.com/AdrielTeles97/pdf-tracker/internal/handler/http"
	"github.com/AdrielTeles97/pdf-tracker/internal/pdf"
	"github.com/AdrielTeles97/pdf-tracker/internal/repository/postgres"
	redisRepo "github.com/AdrielTeles97/pdf-tracker/internal/repository/redis"
	"github.com/AdrielTeles97/pdf-tracker/internal/service"
	"github.com/AdrielTeles97/pdf-tracker/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// ========================================================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================================================
	// Configuration comes from environment variables (12-factor app principle)
	// so the same binary runs in dev, staging, and production.
	// ========================================================================
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// ========================================================================
	// STEP 2: INITIALIZE STRUCTURED LOGGER
	// ========================================================================
	appLogger := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	appLogger.Info("Starting PDF Tracker",
		"environment", cfg.App.Environment,
		"port", cfg.Server.Port,
		"track_mode", cfg.App.TrackResponse,
	)

	// ========================================================================
	// STEP 3: INITIALIZE DATABASE CONNECTION POOL
	// ========================================================================
	// pgxpool keeps a warm pool of connections; creating one per query
	// would add 50-100ms of handshake latency to every request.
	// ========================================================================
	ctx := context.Background()
	db, err := postgres.InitDB(
		ctx,
		cfg.Database.DatabaseDSN(),
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
	)
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	appLogger.Info("Database connection established")

	// ========================================================================
	// STEP 4: INITIALIZE REDIS
	// ========================================================================
	// Redis backs two caches: documents on the hot tracking path, and
	// resolved geolocations (provider quotas are tight, visitor IPs repeat).
	// ========================================================================
	redisClient, err := redisRepo.InitRedis(cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Error("Failed to connect to Redis", "error", err)
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	appLogger.Info("Redis connection established")

	cache := redisRepo.NewCache(redisClient, cfg.Redis.DocumentTTL, cfg.Redis.LocationTTL)

	// ========================================================================
	// STEP 5: DEPENDENCY INJECTION - BUILD THE DEPENDENCY GRAPH
	// ========================================================================
	// DEPENDENCY FLOW:
	// Database Pool -> Repositories -> Service -> Handler
	// ========================================================================

	// Repositories (Data Access Layer)
	docRepo := postgres.NewDocumentRepository(db)
	logRepo := postgres.NewAccessLogRepository(db)

	// Geolocation resolver: primary provider with fallback, results
	// cached in Redis. Every lookup is bounded by cfg.GeoIP.Timeout.
	resolver := geoip.NewResolver(
		appLogger.WithComponent("geoip").Logger,
		cache,
		geoip.NewIPAPICoProvider(cfg.GeoIP.Timeout, ""),
		geoip.NewIPAPIProvider(cfg.GeoIP.Timeout, ""),
	)

	// PDF renderer: documents are rendered fresh on every download
	renderer := pdf.NewRenderer(pdf.Layout(cfg.App.PDFLayout))

	// Service (Business Logic Layer)
	trackingService := service.NewTrackingService(
		docRepo,
		logRepo,
		cache,
		resolver,
		appLogger.WithComponent("service").Logger,
	)

	// HTTP handler (Presentation Layer)
	handler := httpHandler.NewHandler(
		trackingService,
		renderer,
		appLogger.WithComponent("http").Logger,
		cfg.App.BaseURL,
		cfg.App.TrackResponse,
	)

	// ========================================================================
	// STEP 6: SET UP ROUTES AND MIDDLEWARE
	// ========================================================================
	// EXECUTION ORDER (outside-in):
	// Request -> Recovery -> Logging -> RequestID -> Metrics -> CORS -> Handler
	//
	// Recovery sits outermost so a panic anywhere below still produces a
	// 500 instead of killing the process.
	// ========================================================================
	var metricsHandler http.Handler
	if cfg.App.EnableMetrics {
		metricsHandler = promhttp.Handler()
	}
	mux := handler.Routes(metricsHandler)

	finalHandler := httpHandler.Chain(
		httpHandler.RecoveryMiddleware(appLogger.Logger),
		httpHandler.LoggingMiddleware(appLogger.Logger),
		httpHandler.RequestIDMiddleware,
		httpHandler.MetricsMiddleware,
		httpHandler.CORSMiddleware,
	)(mux)

	// ========================================================================
	// STEP 7: CREATE AND START HTTP SERVER
	// ========================================================================
	// Timeouts keep slow clients from tying up connections indefinitely.
	// ========================================================================
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// ListenAndServe blocks, so it runs in a goroutine while main
	// continues to the shutdown handling below
	go func() {
		appLogger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", "error", err)
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// ========================================================================
	// STEP 8: GRACEFUL SHUTDOWN
	// ========================================================================
	// On SIGINT/SIGTERM: stop accepting new requests, give in-flight
	// requests 30 seconds to finish, then close pools and exit.
	// ========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited gracefully")
}
