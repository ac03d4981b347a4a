package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers for per-user records.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	DefaultTestQuestions     = 15
	DefaultPracticeQuestions = 10
	DefaultTimeLimit         = 30 * time.Minute
	DefaultDailySalt         = "iqscalar_daily_"
	DefaultHistoryLimit      = 50
	DefaultFetchTimeout      = 10 * time.Second
	DefaultBankTTL           = 10 * time.Minute
	DefaultAttemptTTL        = 2 * time.Hour
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Storage struct {
		Driver string `yaml:"driver"`
	} `yaml:"storage"`
	Bank struct {
		TestSource     string `yaml:"test_source"`
		PracticeSource string `yaml:"practice_source"`
		FetchTimeout   string `yaml:"fetch_timeout"`
		TTL            string `yaml:"ttl"`
	} `yaml:"bank"`
	Test struct {
		QuestionCount int    `yaml:"question_count"`
		TimeLimit     string `yaml:"time_limit"`
		AttemptTTL    string `yaml:"attempt_ttl"`
	} `yaml:"test"`
	Practice struct {
		QuestionCount int `yaml:"question_count"`
	} `yaml:"practice"`
	Daily struct {
		Salt string `yaml:"salt"`
	} `yaml:"daily"`
	History struct {
		Limit int `yaml:"limit"`
	} `yaml:"history"`
}

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
		if c.Redis.Addr != "" {
			c.Storage.Driver = DriverRedis
		}
	}
	if c.Test.QuestionCount == 0 {
		c.Test.QuestionCount = DefaultTestQuestions
	}
	if c.Practice.QuestionCount == 0 {
		c.Practice.QuestionCount = DefaultPracticeQuestions
	}
	if c.Daily.Salt == "" {
		c.Daily.Salt = DefaultDailySalt
	}
	if c.History.Limit == 0 {
		c.History.Limit = DefaultHistoryLimit
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.driver redis requires redis.addr"))
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.driver sqlite requires sqlite.path"))
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("storage.driver postgres requires postgres.url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.Test.QuestionCount <= 0 {
		errs = append(errs, fmt.Errorf("test.question_count must be positive, got %d", c.Test.QuestionCount))
	}
	if c.Practice.QuestionCount <= 0 {
		errs = append(errs, fmt.Errorf("practice.question_count must be positive, got %d", c.Practice.QuestionCount))
	}
	if c.History.Limit <= 0 {
		errs = append(errs, fmt.Errorf("history.limit must be positive, got %d", c.History.Limit))
	}
	return errors.Join(errs...)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
