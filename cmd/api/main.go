package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/kilimo_api/internal/cache"
	"github.com/GTDGit/kilimo_api/internal/config"
	"github.com/GTDGit/kilimo_api/internal/database"
	"github.com/GTDGit/kilimo_api/internal/feed"
	"github.com/GTDGit/kilimo_api/internal/handler"
	"github.com/GTDGit/kilimo_api/internal/middleware"
	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/repository"
	"github.com/GTDGit/kilimo_api/internal/retry"
	"github.com/GTDGit/kilimo_api/internal/service"
	"github.com/GTDGit/kilimo_api/internal/sse"
	"github.com/GTDGit/kilimo_api/internal/worker"
	"github.com/GTDGit/kilimo_api/pkg/kilimo"
)

// Export requests allowed per client IP per minute.
const exportRequestsPerMinute = 10

// main is the application entrypoint for the Kilimo market prices API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	decimal.MarshalJSONWithoutQuotes = true
	log.Info().Str("env", cfg.Env).Str("data_source", cfg.DataSource).Msg("starting kilimo api")

	// 3. Market data source
	provider, closeProvider, err := buildProvider(cfg)
	if err != nil {
		log.Error().Err(err).Msg("data source initialization failed")
		fmt.Fprintf(os.Stderr, "data source initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer closeProvider()
	log.Info().Str("provider", provider.Name()).Msg("market data source ready")

	// 4. Settings storage: Redis, or process memory when Redis is unreachable
	var kv service.KeyValueStore
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable - settings will not survive a restart")
		kv = cache.NewMemoryStore()
	} else {
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")
		kv = redisClient
	}

	// 5. Initialize services
	marketSvc := service.NewMarketService(provider)
	exportSvc := service.NewExportService(marketSvc, cfg.Market.ExportBaseURL)
	settings := service.NewSettingsStore(kv)

	// 6. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loadCtx, loadCancel := context.WithTimeout(ctx, 5*time.Second)
	persisted, _ := settings.LoadPersisted(loadCtx)
	loadCancel()

	// 7. Feeds and event stream
	hub := sse.NewHub()
	var notifier sse.FeedNotifier = sse.NewHubNotifier(hub)

	home := feed.NewHomeFeed(marketSvc, persisted.SelectedCounty)
	prices := feed.NewPricesFeed(marketSvc, models.FilterCriteria{})
	home.OnChange(func(s feed.Snapshot[string, *feed.HomeData]) {
		notifier.NotifyFeedChanged(s.Feed, string(s.State), s.Seq, s)
	})
	prices.OnChange(func(s feed.Snapshot[models.FilterCriteria, *models.PriceList]) {
		notifier.NotifyFeedChanged(s.Feed, string(s.State), s.Seq, s)
	})
	settings.Subscribe(func(s models.CountySettings) {
		notifier.NotifySettingsChanged(s)
		home.SelectCounty(s.SelectedCounty)
		go home.Refresh(ctx)
	})

	// 8. Start workers
	go worker.NewPollWorker(home, cfg.Worker.PollInterval).Start(ctx)
	go worker.NewPollWorker(prices, cfg.Worker.PollInterval).Start(ctx)

	exportLimiter := middleware.NewIPRateLimiter(exportRequestsPerMinute, time.Minute)
	go exportLimiter.Cleanup(ctx.Done())

	// 9. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(marketSvc),
		Market:   handler.NewMarketHandler(marketSvc, exportSvc, settings),
		Settings: handler.NewSettingsHandler(settings),
		Feed:     handler.NewFeedHandler(home, prices),
		SSE:      handler.NewSSEHandler(hub, home, prices),
	}

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, exportLimiter)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers and in-flight feed refreshes
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Market   *handler.MarketHandler
	Settings *handler.SettingsHandler
	Feed     *handler.FeedHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, exportLimiter *middleware.IPRateLimiter) {
	v1 := router.Group("/v1")

	v1.GET("/health", handlers.Health.GetHealth)

	// Market data
	v1.GET("/market-prices", handlers.Market.ListPrices)
	v1.GET("/commodities", handlers.Market.ListCommodities)
	v1.GET("/markets", handlers.Market.ListMarkets)
	v1.GET("/market-highlights", handlers.Market.GetHighlights)
	v1.GET("/top-selling", handlers.Market.GetTopSelling)
	v1.GET("/counties", handlers.Market.ListCounties)

	// Export
	v1.GET("/export-url", handlers.Market.GetExportURL)
	v1.GET("/export", exportLimiter.Handle(), handlers.Market.Export)

	// Settings
	v1.GET("/settings", handlers.Settings.GetSettings)
	v1.PUT("/settings", handlers.Settings.UpdateSettings)

	// Feeds
	feeds := v1.Group("/feeds")
	{
		feeds.GET("/home", handlers.Feed.GetHome)
		feeds.POST("/home/retry", handlers.Feed.RetryHome)
		feeds.GET("/prices", handlers.Feed.GetPrices)
		feeds.PUT("/prices/filters", handlers.Feed.SetFilters)
		feeds.PUT("/prices/page", handlers.Feed.SetPage)
		feeds.POST("/prices/retry", handlers.Feed.RetryPrices)
	}

	v1.GET("/stream", handlers.SSE.Stream)
}

// buildProvider selects the market data source named by DATA_SOURCE. The
// returned func releases its resources.
func buildProvider(cfg *config.Config) (service.MarketDataProvider, func(), error) {
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		db, err := database.Connect(&cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := database.Migrate(db.DB, "file://migrations"); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		log.Info().Msg("migrations completed successfully")
		repo := repository.NewMarketPriceRepository(db)
		return service.NewPostgresProvider(repo, cfg.Market.HighlightsSize, cfg.Market.TopSellingLimit),
			func() { db.Close() }, nil

	case config.DataSourceKilimo:
		client := kilimo.NewClient(cfg.Kilimo.BaseURL, cfg.Kilimo.Timeout)
		policy := retry.DefaultPolicy
		policy.MaxRetries = cfg.Kilimo.MaxRetries
		policy.Timeout = cfg.Kilimo.Timeout
		return service.NewKilimoProvider(client, policy, cfg.Market.HighlightsSize, cfg.Market.TopSellingLimit), func() {}, nil

	default:
		return service.NewMockProvider(service.DefaultDataset(), cfg.Market.HighlightsSize, cfg.Market.TopSellingLimit),
			func() {}, nil
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
