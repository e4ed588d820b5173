package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/josh-kwaku/bakery-pos/internal/balance"
	"github.com/josh-kwaku/bakery-pos/internal/catalog"
	"github.com/josh-kwaku/bakery-pos/internal/config"
	"github.com/josh-kwaku/bakery-pos/internal/customer"
	"github.com/josh-kwaku/bakery-pos/internal/entry"
	"github.com/josh-kwaku/bakery-pos/internal/events"
	"github.com/josh-kwaku/bakery-pos/internal/handler"
	"github.com/josh-kwaku/bakery-pos/internal/ledger"
	"github.com/josh-kwaku/bakery-pos/internal/middleware"
	"github.com/josh-kwaku/bakery-pos/internal/repository"
	"github.com/josh-kwaku/bakery-pos/internal/reversal"
	"github.com/josh-kwaku/bakery-pos/internal/service/pos"
	"github.com/josh-kwaku/bakery-pos/migrations"
)

type app struct {
	handler http.Handler
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// newApp wires the till from cfg. Redis, Kafka and the journal are only
// connected when configured.
func newApp(ctx context.Context, cfg *config.Config, runner balance.Runner, logger *slog.Logger) (*app, error) {
	a := &app{}

	if err := ledger.EnsureFile(cfg.LedgerPath); err != nil {
		return nil, fmt.Errorf("newApp: %w", err)
	}
	if err := customer.EnsureFile(cfg.CustomersPath); err != nil {
		return nil, fmt.Errorf("newApp: %w", err)
	}

	cat, err := catalog.Load(cfg.AccountsPath)
	if err != nil {
		return nil, fmt.Errorf("newApp: %w", err)
	}

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	directory := customer.NewDirectory(cfg.CustomersPath, logger)
	if all, err := directory.All(); err == nil {
		for _, w := range customer.Collisions(all) {
			logger.Warn("customer directory", "warning", w)
		}
	}

	var locker ledger.Locker
	if cfg.RedisAddr != "" {
		rdb, err := ledger.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("newApp: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		locker = ledger.NewRedisLocker(rdb, cfg.LedgerLockKey, cfg.LedgerLockTTL, cfg.LedgerLockWait)
		logger.Info("ledger lock enabled", "redis", cfg.RedisAddr, "key", cfg.LedgerLockKey)
	}
	sink := ledger.NewFileSink(cfg.LedgerPath, locker, logger)

	balances := balance.NewClient(runner, cfg.HledgerBin, cfg.LedgerPath, cfg.HledgerTimeout, cat, logger)

	var publisher interface {
		Publish(ctx context.Context, ev events.EntryPosted) error
		Close() error
	} = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("entry events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	a.closers = append(a.closers, publisher.Close)

	db, err := openJournal(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("newApp: %w", err)
	}

	builder := entry.NewBuilder(cat, directory, now)
	engine := reversal.NewEngine(cat.Labels.Reversal)

	var svc *pos.Service
	var health *handler.HealthHandler
	if db != nil {
		a.closers = append(a.closers, db.Close)
		svc = pos.NewService(builder, engine, sink, balances, directory, repository.NewJournalRepository(db), publisher, now)
		health = handler.NewHealthHandler(cfg.LedgerPath, db)
	} else {
		svc = pos.NewService(builder, engine, sink, balances, directory, nil, publisher, now)
		health = handler.NewHealthHandler(cfg.LedgerPath, nil)
	}

	mux := newRouter(
		handler.NewPOSHandler(svc, cat),
		handler.NewCustomerHandler(svc),
		handler.NewEntryHandler(svc),
		health,
		handler.ServeStatic(cfg.StaticDir),
	)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
		TrustProxy:        cfg.RateLimitTrustProxy,
	})
	a.handler = middleware.RequestID(middleware.Logging(middleware.Recovery(limiter.Middleware(mux))))

	return a, nil
}

func newRouter(
	posHandler *handler.POSHandler,
	customerHandler *handler.CustomerHandler,
	entryHandler *handler.EntryHandler,
	healthHandler *handler.HealthHandler,
	static http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /", posHandler.Handle)
	mux.HandleFunc("POST /api", posHandler.Handle)
	mux.HandleFunc("GET /clientes", customerHandler.List)
	mux.HandleFunc("GET /asientos", entryHandler.Recent)
	mux.HandleFunc("GET /api/asientos", entryHandler.Recent)
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.Handle("GET /", static)

	return mux
}

// openJournal returns nil when the journal is disabled.
func openJournal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repository.DB, error) {
	switch cfg.JournalDriver {
	case config.JournalSQLite:
		return repository.OpenSQLite(ctx, cfg.JournalDSN)
	case config.JournalPostgres:
		db, err := connectPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		applied, err := repository.Migrate(ctx, db, migrations.FS)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("openJournal: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("journal migrations applied", "versions", applied)
		}
		return db, nil
	default:
		logger.Info("journal disabled")
		return nil, nil
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repository.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	}

	var err error
	for i := range 30 {
		var db *repository.DB
		if db, err = repository.NewPostgresDB(ctx, cfg.JournalDSN, pool); err == nil {
			return db, nil
		}
		logger.Info("waiting for database", "attempt", i+1)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connectPostgres: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}
	return nil, fmt.Errorf("connectPostgres: gave up after 30 attempts: %w", err)
}
