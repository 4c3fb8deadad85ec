package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port      string        `env:"PORT" envDefault:"4000"`
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"file"`
	DataDir       string `env:"DATA_DIR" envDefault:"data"`
	PostgreSQLURI string `env:"POSTGRESQL_URI"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"portfolio.db"`

	CORSOrigins   string `env:"CORS_ORIGINS" envDefault:"*"`
	AuthRateLimit int    `env:"AUTH_RATE_LIMIT" envDefault:"20"` // requests per minute per IP, 0 disables

	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"1m"`
	ReminderLead     time.Duration `env:"REMINDER_LEAD" envDefault:"10m"`

	MQTTURL      string `env:"MQTT_URL"`
	MQTTClientID string `env:"MQTT_CLIENT_ID" envDefault:"portfolio-api"`
}

// StoreSource returns the directory, DSN or path for the configured store driver.
func (c Config) StoreSource() string {
	switch c.StoreDriver {
	case "postgres":
		return c.PostgreSQLURI
	case "sqlite":
		return c.SQLitePath
	default:
		return c.DataDir
	}
}

// LoadENV loads variables from .env files into the process environment.
// A missing file is not an error; variables already set are never overridden.
func LoadENV(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads .env and parses the environment into a Config.
func Load() (Config, error) {
	if err := LoadENV(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be positive")
	}
	if cfg.ReminderInterval <= 0 {
		return Config{}, errors.New("REMINDER_INTERVAL must be positive")
	}
	return cfg, nil
}
