package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodmaster/internal/api"
	"foodmaster/internal/config"
	"foodmaster/internal/database"
	"foodmaster/internal/events"
	"foodmaster/internal/insights"
	"foodmaster/internal/insights/providers"
	"foodmaster/internal/logging"
	"foodmaster/internal/monitoring"
	"foodmaster/internal/shop"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	addr        = flag.String("addr", "", "API server address (overrides config)")
	metricsAddr = flag.String("metrics-addr", "", "Metrics server address (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Errorw("server stopped", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run wires the service and blocks until shutdown. Deferred cleanup runs on
// every return path.
func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// storage
	store, err := initializeStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	defer store.Close()
	logger.Infow("store opened", "driver", cfg.Store.Driver)

	monitor := monitoring.NewMonitor()

	// events
	hub := api.NewHub(logger)
	publisher := events.Multi{hub}
	if cfg.Events.AMQPURL != "" {
		broker, err := events.NewRabbitMQPublisher(events.RabbitMQConfig{
			URL:      cfg.Events.AMQPURL,
			Exchange: cfg.Events.Exchange,
		})
		if err != nil {
			logger.Warnw("failed to connect to RabbitMQ, events stay local", "error", err)
		} else {
			defer broker.Close()
			publisher = append(publisher, broker)
			logger.Info("connected to RabbitMQ")
		}
	}

	// shop
	s := shop.New(store, shop.Config{
		MenuKey:   cfg.Store.MenuKey,
		OrdersKey: cfg.Store.OrdersKey,
	}, logger)
	s.SetPublisher(publisher)
	s.SetRecorder(monitor)
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("failed to load shop: %w", err)
	}
	if degraded := s.Degraded(); len(degraded) > 0 {
		logger.Warnw("started with reset collections", "keys", degraded)
	}

	// reports
	summarizer := initializeSummarizer(ctx, cfg, logger)
	requester := insights.NewRequester(summarizer, cfg.LLM.Timeout, logger)
	requester.SetObserver(monitor)
	tracker := insights.NewTracker(requester, func(state insights.State) {
		if err := publisher.Publish(context.Background(), events.New(events.InsightsCompleted, state)); err != nil {
			logger.Warnw("failed to publish event", "type", events.InsightsCompleted, "error", err)
		}
	})

	shopAPI := api.NewShopAPI(api.Deps{
		Shop:    s,
		Tracker: tracker,
		Hub:     hub,
		Events:  publisher,
		Monitor: monitor,
		Logger:  logger,
	})

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg.Metrics, monitor, logger)
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: shopAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down servers")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		hub.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("API server shutdown error", "error", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Errorw("metrics server shutdown error", "error", err)
			}
		}

		cancel()
	}()

	logger.Infow("starting API server", "addr", cfg.Addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("API server error", "error", err)
		hub.Close()
		if metricsServer != nil {
			_ = metricsServer.Close()
		}
		return fmt.Errorf("API server: %w", err)
	}

	<-ctx.Done()
	waitForReport(tracker, 5*time.Second)
	return nil
}

func initializeStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	openCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	defer cancel()

	return database.Open(openCtx, database.Config{
		Driver:   cfg.Store.Driver,
		DSN:      cfg.Store.DSN,
		Database: cfg.Store.Database,
		Timeout:  cfg.Store.Timeout,
	})
}

// initializeSummarizer never fails: without a usable provider every
// report request ends with the failure message.
func initializeSummarizer(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) insights.Summarizer {
	summarizer, err := providers.New(ctx, providers.Config{
		Provider:        providers.ProviderType(cfg.LLM.Provider),
		Model:           cfg.LLM.Model,
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		AzureEndpoint:   cfg.LLM.AzureEndpoint,
		AzureDeployment: cfg.LLM.AzureDeployment,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
	})
	if err != nil {
		logger.Warnw("report model unavailable", "provider", cfg.LLM.Provider, "error", err)
		return providers.Unconfigured{Err: err}
	}

	model := cfg.LLM.Model
	if model == "" {
		model = providers.DefaultModelFor(providers.ProviderType(cfg.LLM.Provider))
	}
	logger.Infow("report model ready", "provider", cfg.LLM.Provider, "model", model)
	return summarizer
}

func startMetricsServer(cfg config.MetricsConfig, monitor *monitoring.Monitor, logger *zap.SugaredLogger) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.GET(cfg.Path, gin.WrapH(monitor.Handler()))

	metricsServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: metricsRouter,
	}

	go func() {
		logger.Infow("starting metrics server", "addr", cfg.Addr, "path", cfg.Path)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("metrics server error", "error", err)
		}
	}()

	return metricsServer
}

func waitForReport(tracker *insights.Tracker, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		tracker.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		fmt.Fprintln(os.Stderr, "report request still running at exit")
	}
}
