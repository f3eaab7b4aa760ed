package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/ecoreciclaje/collection-core/internal/config"
	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	"github.com/ecoreciclaje/collection-core/internal/domain/request"
	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
	"github.com/ecoreciclaje/collection-core/internal/domain/user"
	"github.com/ecoreciclaje/collection-core/internal/events"
	"github.com/ecoreciclaje/collection-core/internal/infrastructure/account/introspect"
	"github.com/ecoreciclaje/collection-core/internal/infrastructure/notifier/webhook"
	repocache "github.com/ecoreciclaje/collection-core/internal/infrastructure/repository/cache"
	"github.com/ecoreciclaje/collection-core/internal/infrastructure/repository/memory"
	"github.com/ecoreciclaje/collection-core/internal/infrastructure/repository/postgres"
	"github.com/ecoreciclaje/collection-core/internal/interfaces/httpapi"
	"github.com/ecoreciclaje/collection-core/internal/notify"
	"github.com/ecoreciclaje/collection-core/internal/platform/cache"
	idgen "github.com/ecoreciclaje/collection-core/internal/platform/id"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
	"github.com/ecoreciclaje/collection-core/internal/platform/resilience"
	"github.com/ecoreciclaje/collection-core/internal/usecase"
	"github.com/ecoreciclaje/collection-core/internal/validation"
)

// Application bundles the long-lived pieces main has to start and stop.
type Application struct {
	Server     *http.Server
	Dispatcher *notify.Dispatcher
	DB         *sqlx.DB
}

// New wires repositories, services and the HTTP surface. Without a
// DB_URL the service runs on seeded in-memory repositories, which keeps
// local development and tests free of external dependencies.
func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db           *sqlx.DB
		requestRepo  request.Repository
		userRepo     user.Repository
		scheduleRepo schedule.Repository
		configRepo   points.ConfigRepository
		ledgerRepo   points.LedgerRepository
	)

	if strings.TrimSpace(cfg.DBURL) != "" {
		opened, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		db = opened
		if err := postgres.BootstrapSeed(context.Background(), db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap seed: %w", err)
		}
		requestRepo = postgres.NewRequestRepository(db)
		userRepo = postgres.NewUserRepository(db)
		scheduleRepo = postgres.NewScheduleRepository(db)
		configRepo = postgres.NewPointsConfigRepository(db)
		ledgerRepo = postgres.NewLedgerRepository(db)
		logger.Info("storage configured", "driver", "postgres", "database", dbNameFromURL(cfg.DBURL))
	} else {
		requestRepo = memory.NewRequestRepository()
		userRepo = memory.NewUserRepository(memory.SeedUsers())
		scheduleRepo = memory.NewScheduleRepository(memory.SeedSchedules())
		configRepo = memory.NewPointsConfigRepository(memory.SeedPointsConfigs())
		ledgerRepo = memory.NewLedgerRepository()
		logger.Info("storage configured", "driver", "memory")
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		scheduleRepo = repocache.NewScheduleRepository(scheduleRepo, store)
		userRepo = repocache.NewUserRepository(userRepo, store)
		configRepo = repocache.NewPointsConfigRepository(configRepo, store)
	}

	bus := events.NewBus(logger)
	idGen := idgen.NewRandomGenerator()

	policy := validation.DefaultPolicy()
	policy.WindowStartHour = cfg.RequestWindowStartHour
	policy.WindowEndHour = cfg.RequestWindowEndHour
	policy.MinLead = cfg.RequestMinLead
	policy.MaxDailyRequests = cfg.RequestDailyLimit

	scheduleSvc := usecase.NewScheduleService(scheduleRepo, bus, idGen, logger)
	requestSvc := usecase.NewRequestService(requestRepo, userRepo, scheduleSvc, configRepo, ledgerRepo, bus, policy, idGen, logger)
	pointsSvc := usecase.NewPointsService(configRepo, ledgerRepo, bus, idGen, logger)

	var base notify.Sender
	if cfg.NotifyEnabled {
		base = webhook.NewClient(webhook.Config{
			URL:     cfg.NotifyWebhookURL,
			Token:   cfg.NotifyWebhookToken,
			Timeout: cfg.NotifyTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.NotifyCircuitEnabled,
				FailureThreshold: cfg.NotifyCircuitFailureCount,
				OpenTimeout:      cfg.NotifyCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.NotifyCircuitHalfOpenMaxReq,
			},
		}, logger)
	} else {
		base = notify.NewLogSender(logger)
	}

	retryCfg := notify.DefaultRetryConfig()
	retryCfg.MaxRetries = cfg.NotifyMaxRetries
	sender := notify.Pipeline(base,
		notify.WithValidation(),
		notify.WithRetry(retryCfg),
		notify.WithDedupe(cache.NewStore(cfg.NotifyDedupeTTL)),
		notify.WithLogging(logger),
	)

	dispatcher, err := notify.NewDispatcher(cfg.NotifyWorkers, sender, logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("build notification dispatcher: %w", err)
	}

	observer := notify.NewEventObserver(dispatcher, userRepo, idGen)
	for _, eventType := range observer.Subscriptions() {
		bus.Subscribe(eventType, observer)
	}

	verifier := introspect.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthIntrospectPath,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthCircuitEnabled,
			FailureThreshold: cfg.AuthCircuitFailureCount,
			OpenTimeout:      cfg.AuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthCircuitHalfOpenMaxReq,
		},
		cfg.AuthCacheTTL,
		logger,
	)

	handler := httpapi.NewHandler(requestSvc, scheduleSvc, pointsSvc, bus, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		dispatcher.Close()
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Application{Server: server, Dispatcher: dispatcher, DB: db}, nil
}

// Close releases everything New acquired, in reverse order.
func (a *Application) Close() {
	if a == nil {
		return
	}
	if a.Dispatcher != nil {
		a.Dispatcher.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
