// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal casefile
// packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/events"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/metrics"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/pipeline"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/rules"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/service"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/platform/config"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/platform/httpserver"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/platform/kafka"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/platform/logger"
	platformredis "github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/platform/redis"

	memorystore "github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata/store/memory"
	postgresstore "github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata/store/postgres"
	redisstore "github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata/store/redis"
	httptransport "github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	// Reference-data stores. Redis fronts Postgres when both are
	// configured; with neither, an empty in-memory store keeps local runs
	// working (every code lookup reports not-found).
	var lookups []refdata.Lookup

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		store, err := redisstore.New(redisClient.Client)
		if err != nil {
			return err
		}
		lookups = append(lookups, store)
	}

	var db *sql.DB
	if cfg.Postgres.URL != "" {
		db, err = sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		store, err := postgresstore.New(db)
		if err != nil {
			return err
		}
		lookups = append(lookups, store)
	}

	if len(lookups) == 0 {
		log.Warn("no reference-data store configured, using empty in-memory store")
		lookups = append(lookups, memorystore.New())
	}
	lookup := refdata.Instrumented(refdata.NewChain(lookups...), m)

	// Rule engine.
	registry := rules.NewRegistry()
	provider, err := rules.LoadProvider(cfg.RulesPath, registry)
	if err != nil {
		return err
	}
	executor, err := rules.NewExecutor(lookup)
	if err != nil {
		return err
	}
	pipe, err := pipeline.New(provider, executor)
	if err != nil {
		return err
	}

	// Outcome event sink. Without brokers events stay in memory, which
	// suits local development.
	var sink events.Sink
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
		sink, err = events.NewKafkaSink(producer, events.Topics{
			Defendant: cfg.Kafka.DefendantTopic,
			Case:      cfg.Kafka.CaseTopic,
			Material:  cfg.Kafka.MaterialTopic,
		}, events.WithLogger(log))
		if err != nil {
			return err
		}
	} else {
		log.Warn("no kafka brokers configured, outcome events will not be published")
		sink = events.NewMemorySink()
	}

	svc, err := service.New(pipe, sink,
		service.WithMetrics(m),
		service.WithLogger(log),
	)
	if err != nil {
		return err
	}

	handler := httptransport.NewHandler(svc, log)
	router := httptransport.NewRouter(func(r *http.Request) error {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				return err
			}
		}
		if db != nil {
			return db.PingContext(r.Context())
		}
		return nil
	}, handler)

	srv := httpserver.New(cfg.Addr, router)
	metricsSrv := httpserver.New(cfg.MetricsAddr, promhttp.Handler())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting casefile server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting metrics server", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return metricsSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
