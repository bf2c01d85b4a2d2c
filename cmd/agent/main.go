// Package main is the entry point of the educational tutoring agent.
//
// The agent answers student questions from a canned knowledge catalog with
// difficulty fallback, remembers each session's recent questions, tracks
// per-student progress and achievements, records progress in a hash-chained
// audit ledger, and exposes everything over a REST API alongside an
// agent-to-agent message endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eduagent-hub/edu-tutor-agent/config"
	"github.com/eduagent-hub/edu-tutor-agent/internal/application/command"
	"github.com/eduagent-hub/edu-tutor-agent/internal/application/eventhandler"
	"github.com/eduagent-hub/edu-tutor-agent/internal/application/query"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/history"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/knowledge"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/progress"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/external/resources"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/hub"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/ledger"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/messaging"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/persistence/memory"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/persistence/postgres"
	redisstore "github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/persistence/redis"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/scheduler"
	httpapi "github.com/eduagent-hub/edu-tutor-agent/internal/interface/http"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Observability.LogLevel))

	log.Info("starting edu-tutor-agent",
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
		logger.String("agent_address", cfg.App.AgentAddress))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────
	// Persistence
	// ─────────────────────────────────────────────────────────────────────

	healthChecks := make(map[string]httpapi.Pinger)

	var sessionStore history.Store
	var cache *redisstore.Cache
	if cfg.Redis.Disabled {
		log.Warn("redis disabled, session history is in-memory only")
		sessionStore = memory.NewSessionStore()
	} else {
		redisCfg := redisstore.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err = redisstore.NewCache(redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cache.Close()
		sessionStore = redisstore.NewSessionStore(cache)
		healthChecks["redis"] = cache.Ping
	}

	var progressRepo progress.Repository
	if cfg.Database.Disabled {
		log.Warn("postgres disabled, student progress is in-memory only")
		progressRepo = memory.NewProgressRepository()
	} else {
		pgCfg := postgres.DefaultConfig()
		pgCfg.Host = cfg.Database.Host
		pgCfg.Port = cfg.Database.Port
		pgCfg.Database = cfg.Database.Name
		pgCfg.User = cfg.Database.User
		pgCfg.Password = cfg.Database.Password
		pgCfg.SSLMode = cfg.Database.SSLMode
		pgCfg.MaxConns = cfg.Database.MaxConns
		pgCfg.MinConns = cfg.Database.MinConns
		pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
		pgCfg.ConnectTimeout = cfg.Database.ConnectTimeout

		conn, err := postgres.NewConnection(ctx, pgCfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer conn.Close()
		if err := postgres.Migrate(ctx, conn); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		progressRepo = postgres.NewProgressRepository(conn)
		healthChecks["postgres"] = conn.Ping
	}

	// ─────────────────────────────────────────────────────────────────────
	// Domain + application
	// ─────────────────────────────────────────────────────────────────────

	catalog := knowledge.DefaultCatalog()
	resolver := knowledge.NewResolver(catalog)
	sessions := history.NewManager(sessionStore,
		history.WithCapacity(cfg.Tutor.HistoryCapacity),
		history.WithSummaryLength(cfg.Tutor.SummaryLength))

	bus := messaging.NewBus(messaging.DefaultConfig(log))
	defer bus.Close()

	audit := ledger.New()
	if cfg.Features.EnableLedger {
		if err := bus.Subscribe(shared.EventProgressRecorded,
			eventhandler.NewOnProgressRecorded(audit, log).Handle); err != nil {
			return fmt.Errorf("subscribe ledger handler: %w", err)
		}
	}
	if err := bus.Subscribe(shared.EventQuestionAsked,
		eventhandler.NewOnQuestionAsked(progressRepo, bus, log).Handle); err != nil {
		return fmt.Errorf("subscribe progress handler: %w", err)
	}

	var enricher command.ResourceEnricher
	if cfg.Features.EnableResourceEnrichment {
		wikiCfg := resources.DefaultWikipediaConfig()
		wikiCfg.BaseURL = cfg.Resources.WikipediaBaseURL
		wikiCfg.Timeout = cfg.Resources.RequestTimeout

		quizCfg := resources.DefaultQuizConfig()
		quizCfg.BaseURL = cfg.Resources.QuizBaseURL
		quizCfg.APIKey = cfg.Resources.QuizAPIKey
		quizCfg.Timeout = cfg.Resources.RequestTimeout

		var resourceCache resources.Cache
		if cache != nil {
			resourceCache = cache
		}
		enricher = resources.NewAggregator(
			resources.NewWikipediaClient(wikiCfg),
			resources.NewQuizClient(quizCfg),
			resourceCache, bus, log,
			resources.WithCacheTTL(cfg.Resources.CacheTTL))
	}

	askHandler := command.NewAskQuestionHandler(resolver, sessions, bus, enricher, log)

	// ─────────────────────────────────────────────────────────────────────
	// Agent network
	// ─────────────────────────────────────────────────────────────────────

	registry := hub.NewRegistry(cfg.Tutor.AgentTTL, bus, log)
	comm := hub.NewCommunicator(cfg.App.AgentAddress, log)
	if cfg.Features.EnableHub {
		comm.RegisterTutorHandlers(resolver, catalog, registry)
	} else {
		log.Warn("hub disabled, agent messages will be rejected")
	}

	// ─────────────────────────────────────────────────────────────────────
	// Background jobs
	// ─────────────────────────────────────────────────────────────────────

	if cfg.Features.EnableScheduler {
		jobs := scheduler.New(scheduler.Config{
			StatusSpec: cfg.Scheduler.StatusSpec,
			SweepSpec:  cfg.Scheduler.SweepSpec,
		}, sessions, registry, progressRepo, audit, log)
		if err := jobs.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer jobs.Stop()
	}

	// ─────────────────────────────────────────────────────────────────────
	// HTTP server
	// ─────────────────────────────────────────────────────────────────────

	httpCfg := httpapi.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpapi.NewServer(httpCfg, httpapi.Dependencies{
		AskQuestion:  askHandler,
		GetHistory:   query.NewGetHistoryHandler(sessions),
		GetProgress:  query.NewGetProgressHandler(progressRepo),
		ListCatalog:  query.NewListCatalogHandler(catalog),
		Registry:     registry,
		Communicator: comm,
		Ledger:       audit,
		Agent: httpapi.AgentInfo{
			Address:      cfg.App.AgentAddress,
			Name:         cfg.App.Name,
			Version:      cfg.App.Version,
			Capabilities: []string{"tutoring", "progress-tracking", "resource-aggregation"},
		},
		HealthChecks: healthChecks,
		Logger:       log,
	})

	errCh := server.StartAsync()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", logger.Err(err))
	}

	log.Info("edu-tutor-agent stopped")
	return nil
}
