package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	JournalSQLite   = "sqlite"
	JournalPostgres = "postgres"
	JournalNone     = "none"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8077"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
	Timezone string `env:"TIMEZONE" envDefault:"Local"`

	LedgerPath    string `env:"LEDGER_PATH" envDefault:"panaderia.ledger"`
	CustomersPath string `env:"CUSTOMERS_PATH" envDefault:"clientes.csv"`
	AccountsPath  string `env:"ACCOUNTS_PATH"`
	StaticDir     string `env:"STATIC_DIR"`

	HledgerBin     string        `env:"HLEDGER_BIN" envDefault:"hledger"`
	HledgerTimeout time.Duration `env:"HLEDGER_TIMEOUT" envDefault:"10s"`

	JournalDriver string `env:"JOURNAL_DRIVER" envDefault:"sqlite"`
	JournalDSN    string `env:"JOURNAL_DSN" envDefault:"pos.db"`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"1m"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	LedgerLockKey  string        `env:"LEDGER_LOCK_KEY" envDefault:"lock:ledger"`
	LedgerLockTTL  time.Duration `env:"LEDGER_LOCK_TTL" envDefault:"5s"`
	LedgerLockWait time.Duration `env:"LEDGER_LOCK_WAIT" envDefault:"3s"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"pos.entries"`

	RateLimitRPS        float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst      int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	RateLimitTrustProxy bool    `env:"RATE_LIMIT_TRUST_PROXY" envDefault:"false"`
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config.Load: %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.JournalDriver {
	case JournalSQLite, JournalPostgres:
		if c.JournalDSN == "" {
			errs = append(errs, fmt.Errorf("JOURNAL_DSN is required for JOURNAL_DRIVER=%s", c.JournalDriver))
		}
	case JournalNone:
	default:
		errs = append(errs, fmt.Errorf("JOURNAL_DRIVER %q is not one of sqlite, postgres, none", c.JournalDriver))
	}
	if c.HledgerTimeout <= 0 {
		errs = append(errs, errors.New("HLEDGER_TIMEOUT must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

// Location is the zone entry dates and times are written in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
