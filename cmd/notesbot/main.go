package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notewell/notesbot/internal/analytics"
	analyticsstore "github.com/notewell/notesbot/internal/analytics/aggregator"
	"github.com/notewell/notesbot/internal/analytics/collector"
	"github.com/notewell/notesbot/internal/bot/cache"
	"github.com/notewell/notesbot/internal/bot/consumer"
	"github.com/notewell/notesbot/internal/bot/delivery"
	"github.com/notewell/notesbot/internal/bot/handler"
	"github.com/notewell/notesbot/internal/summarize"
	"github.com/notewell/notesbot/internal/summarize/postag"
	"github.com/notewell/notesbot/pkg/config"
	"github.com/notewell/notesbot/pkg/health"
	"github.com/notewell/notesbot/pkg/kafka"
	"github.com/notewell/notesbot/pkg/logger"
	"github.com/notewell/notesbot/pkg/metrics"
	"github.com/notewell/notesbot/pkg/middleware"
	"github.com/notewell/notesbot/pkg/postgres"
	pkgredis "github.com/notewell/notesbot/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting notesbot", "port", cfg.Server.Port, "default_top_k", cfg.Summarizer.DefaultTopK)

	// The tagging model is the one resource that must be present; a load
	// failure is fatal at startup, never retried per call.
	tagger, err := postag.NewProseTagger()
	if err != nil {
		slog.Error("failed to initialize tagger", "error", err)
		os.Exit(1)
	}
	pipeline := summarize.New(tagger)
	slog.Info("tagging model loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	var summaryCache *cache.SummaryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, summary caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		summaryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("summary cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	analyticsProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
	defer analyticsProducer.Close()
	onDrop := func() {}
	if m != nil {
		onDrop = m.AnalyticsDroppedEvents.Inc
	}
	coll := analytics.NewCollector(analyticsProducer, cfg.Analytics.BufferSize, onDrop)
	coll.Start(ctx)
	defer coll.Close()

	batch := collector.NewBatchCollector(analyticsProducer, cfg.Analytics.BatchSize, cfg.Analytics.FlushInterval)
	batch.Start(ctx)
	defer batch.Close()
	slog.Info("analytics collectors started", "topic", cfg.Kafka.Topics.AnalyticsEvents)

	agg := analytics.NewAggregator()
	analyticsConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents, analytics.HandleEvent(agg))
	analyticsH := analytics.NewHandler(agg)

	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, snapshot persistence disabled", "error", err)
		db = nil
	} else {
		defer db.Close()
		store := analyticsstore.NewStore(db, m)
		store.StartPeriodicSave(ctx, agg, cfg.Analytics.SnapshotInterval)
	}

	summariesProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.Summaries)
	defer summariesProducer.Close()
	sink := delivery.NewKafkaSink(summariesProducer)
	if m != nil {
		go func() {
			ticker := time.NewTicker(5 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					m.DeliveryBreakerState.Set(float64(sink.BreakerState()))
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	messageHandler := consumer.HandleMessage(pipeline, sink, batch, m, cfg.Summarizer.DefaultTopK)
	messageConsumer := consumer.New(kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.ChatMessages, messageHandler))

	checker := health.NewChecker()
	checker.Register("tagger", func(ctx context.Context) health.ComponentHealth {
		if _, err := tagger.Tag("health check"); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if db == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := db.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(pipeline, summaryCache, coll, m, cfg.Summarizer)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/summarize", h.Summarize)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/analytics", analyticsH.Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return messageConsumer.Start(gctx)
	})
	g.Go(func() error {
		return agg.Start(gctx, analyticsConsumer)
	})
	g.Go(func() error {
		slog.Info("notesbot listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("service error", "error", err)
		os.Exit(1)
	}
	slog.Info("notesbot stopped")
}
