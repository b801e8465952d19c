package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers accepted by storage.driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Server struct {
		Port           string `yaml:"port"`
		AllowedOrigin  string `yaml:"allowedOrigin"`
		ReadTimeout    string `yaml:"readTimeout"`
		WriteTimeout   string `yaml:"writeTimeout"`
		RequestTimeout string `yaml:"requestTimeout"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
	} `yaml:"storage"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
		PoolSize uint64 `yaml:"poolSize"`
	} `yaml:"mongo"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Quiz struct {
		TTL      string `yaml:"ttl"`
		SeedFile string `yaml:"seedFile"`
	} `yaml:"quiz"`
	Submissions struct {
		MaxPossibleScore float64 `yaml:"maxPossibleScore"`
		RecomputeScores  bool    `yaml:"recomputeScores"`
	} `yaml:"submissions"`
	Pagination struct {
		DefaultLimit int `yaml:"defaultLimit"`
		MaxLimit     int `yaml:"maxLimit"`
	} `yaml:"pagination"`
	RabbitMQ struct {
		URI      string `yaml:"uri"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
}

// Default returns the configuration used when no file or env sets a value.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "5000"
	cfg.Server.AllowedOrigin = "http://localhost:5173"
	cfg.Server.ReadTimeout = "15s"
	cfg.Server.WriteTimeout = "15s"
	cfg.Server.RequestTimeout = "10s"
	cfg.Storage.Driver = DriverMemory
	cfg.Mongo.Database = "Quiz-AI"
	cfg.Quiz.TTL = "10m"
	cfg.Submissions.MaxPossibleScore = 125
	cfg.Pagination.DefaultLimit = 10
	cfg.Pagination.MaxLimit = 100
	cfg.RabbitMQ.Exchange = "quiz.submissions"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("config %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment when one exists.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
}

// ApplyEnv overrides cfg from the process environment.
func ApplyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&cfg.Server.Port, "PORT")
	override(&cfg.Server.AllowedOrigin, "ALLOWED_ORIGIN")
	override(&cfg.Storage.Driver, "STORAGE_DRIVER")
	override(&cfg.Postgres.URL, "POSTGRES_URL")
	override(&cfg.Mongo.URI, "MONGO_URI")
	override(&cfg.Mongo.Database, "MONGO_DATABASE")
	override(&cfg.Redis.Addr, "REDIS_ADDR")
	override(&cfg.RabbitMQ.URI, "RABBITMQ_URI")
	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)
}

// Validate checks that the selected storage driver has what it needs.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return errors.New("storage driver postgres requires postgres.url")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("storage driver mongo requires mongo.uri")
		}
	default:
		return errors.New("unknown storage driver " + c.Storage.Driver)
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return errors.New("pagination.maxLimit must not be below pagination.defaultLimit")
	}
	return nil
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
