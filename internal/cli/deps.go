package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"iqscalar-assessment-service/internal/app"
	"iqscalar-assessment-service/internal/bank"
	"iqscalar-assessment-service/internal/config"
	"iqscalar-assessment-service/internal/domain"
	"iqscalar-assessment-service/internal/infra/memory"
	pgstore "iqscalar-assessment-service/internal/infra/postgres"
	redisstore "iqscalar-assessment-service/internal/infra/redis"
	"iqscalar-assessment-service/internal/infra/sqlite"
	"iqscalar-assessment-service/internal/storage"
	transport "iqscalar-assessment-service/internal/transport/http"
)

type bankRepository interface {
	app.BankRepository
	transport.BankInvalidator
}

// deps holds the wired infrastructure shared by the start and daily commands.
type deps struct {
	banks    bankRepository
	store    storage.Store
	locker   storage.Locker
	attempts app.AttemptRepository

	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func buildDeps(ctx context.Context, cfg config.Config, logger *slog.Logger) (*deps, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
	}

	fetchTimeout := config.TTLDuration(cfg.Bank.FetchTimeout, config.DefaultFetchTimeout)
	client := &http.Client{Timeout: fetchTimeout}
	testSource, err := bankSource(cfg.Bank.TestSource, pool, client)
	if err != nil {
		d.Close()
		return nil, err
	}
	practiceSource, err := bankSource(cfg.Bank.PracticeSource, pool, client)
	if err != nil {
		d.Close()
		return nil, err
	}
	catalog := bank.NewCatalog(
		bank.NewLoader(domain.BankTest, testSource, fetchTimeout, logger),
		bank.NewLoader(domain.BankPractice, practiceSource, fetchTimeout, logger),
	)

	bankTTL := config.TTLDuration(cfg.Bank.TTL, config.DefaultBankTTL)
	attemptTTL := config.TTLDuration(cfg.Test.AttemptTTL, config.DefaultAttemptTTL)
	bankCache := "memory"
	if redisClient != nil {
		bankCache = "redis"
		d.banks = redisstore.NewBankRepository(redisClient, catalog, bankTTL)
		d.attempts = redisstore.NewAttemptStore(redisClient, attemptTTL)
	} else {
		d.banks = memory.NewBankRepository(catalog, bankTTL)
		d.attempts = memory.NewAttemptStore(attemptTTL)
	}

	// memory and sqlite stores are local to one process, so an in-process lock suffices.
	d.locker = storage.NewLocalLocker()
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		d.store = redisstore.NewKVStore(redisClient)
		d.locker = redisstore.NewLocker(redisClient, redisstore.DefaultLockLease)
	case config.DriverPostgres:
		d.store = pgstore.NewKVStore(pool)
		d.locker = pgstore.NewLocker(pool, pgstore.DefaultLockLease)
	case config.DriverSQLite:
		kv, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = kv.Close() })
		d.store = kv
	default:
		d.store = memory.NewKVStore()
	}

	logger.Info("infrastructure ready",
		"storage", cfg.Storage.Driver,
		"locker", fmt.Sprintf("%T", d.locker),
		"bank_cache", bankCache,
		"test_source", sourceName(testSource),
		"practice_source", sourceName(practiceSource))
	return d, nil
}

// bankSource resolves a configured source: an http(s) URL, postgres:<name>, or a file path.
// An empty location yields no source, which serves the built-in fallback bank.
func bankSource(location string, pool *pgxpool.Pool, client *http.Client) (bank.Source, error) {
	switch {
	case location == "":
		return nil, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return bank.NewHTTPSource(location, client), nil
	case strings.HasPrefix(location, "postgres:"):
		if pool == nil {
			return nil, fmt.Errorf("bank source %q needs postgres.url", location)
		}
		return pgstore.NewBankSource(pool, strings.TrimPrefix(location, "postgres:")), nil
	default:
		return bank.NewFileSource(location), nil
	}
}

func sourceName(s bank.Source) string {
	if s == nil {
		return "fallback"
	}
	return s.String()
}
