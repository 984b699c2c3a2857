package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Port           string        `env:"PORT" env-default:"3000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" env-default:"10s"`

	StoreDriver string `env:"STORE_DRIVER" env-default:"mongo"`
	MongoURI    string `env:"MONGO_URI,MONGODB_URI"`
	DBName      string `env:"DB_NAME" env-default:"lead_management"`

	RedisAddr           string        `env:"REDIS_ADDR"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	RedisDB             int           `env:"REDIS_DB" env-default:"0"`
	EmailReservationTTL time.Duration `env:"EMAIL_RESERVATION_TTL" env-default:"10s"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
	RateLimitRPS       float64  `env:"RATE_LIMIT_RPS" env-default:"10"`
	RateLimitBurst     int      `env:"RATE_LIMIT_BURST" env-default:"20"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads the .env file when present and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=%s", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
