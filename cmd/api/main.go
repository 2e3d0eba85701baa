package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tavolohq/resto-trace-backend/api/controllers"
	"github.com/tavolohq/resto-trace-backend/api/routes"
	"github.com/tavolohq/resto-trace-backend/internal/tracing"
	"github.com/tavolohq/resto-trace-backend/pkg/bigquery"
	"github.com/tavolohq/resto-trace-backend/pkg/config"
	"github.com/tavolohq/resto-trace-backend/pkg/db"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
	"github.com/tavolohq/resto-trace-backend/pkg/metrics"
	"github.com/tavolohq/resto-trace-backend/pkg/migrate"
	"github.com/tavolohq/resto-trace-backend/pkg/pubsub"
	"github.com/tavolohq/resto-trace-backend/pkg/redis"
)

const shutdownGrace = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	repo := tracing.NewRepository(dbClient.DB())
	pingers := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	sinks := []tracing.Sink{}
	if cfg.Trace.SinkStore {
		sinks = append(sinks, tracing.NewStoreSink(repo))
	}
	if cfg.Trace.SinkConsole {
		sinks = append(sinks, tracing.NewConsoleSink(logg))
	}
	if cfg.Trace.SinkFile {
		sinks = append(sinks, tracing.NewFileSink(cfg.Trace.FilePath))
	}
	if cfg.Trace.SinkRedis {
		sinks = append(sinks, tracing.NewRedisSink(redisClient, cfg.Trace.RedisChannel))
	}
	if cfg.Trace.SinkPubSub {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		pingers["pubsub"] = pubsubClient
		sinks = append(sinks, tracing.NewPubSubSink(pubsubClient.TracePublisher()))
	}
	if cfg.Trace.SinkBigQuery {
		bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap bigquery", err)
			os.Exit(1)
		}
		defer func() {
			if err := bqClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing bigquery", err)
			}
		}()
		pingers["bigquery"] = bqClient
		sinks = append(sinks, tracing.NewBigQuerySink(bqClient))
	}

	eventLogger, err := tracing.NewEventLogger(tracing.EventLoggerParams{
		Logger:      logg,
		Metrics:     metrics.NewSinkMetrics(prometheus.DefaultRegisterer),
		Sinks:       sinks,
		QueueSize:   cfg.Trace.QueueSize,
		SinkTimeout: cfg.Trace.SinkTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create event logger", err)
		os.Exit(1)
	}

	tracker, err := tracing.NewTracker(tracing.TrackerParams{
		Logger: logg,
		Events: eventLogger,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tracker", err)
		os.Exit(1)
	}

	tracingService, err := tracing.NewService(tracing.ServiceParams{
		Repo:   repo,
		Views:  redisClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tracing service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
		"sinks":    len(sinks),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:  cfg,
			Logger:  logg,
			Tracing: tracingService,
			Tracker: tracker,
			Pingers: pingers,
		}),
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down http server", err)
		}
	}

	if err := eventLogger.Close(); err != nil {
		logg.Error(ctx, "error draining event sinks", err)
	}
	logg.Info(ctx, "api server shutting down gracefully")
}
