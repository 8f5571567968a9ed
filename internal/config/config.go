package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// DBDriver is postgres in production; sqlite serves local development.
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBPath     string `env:"DB_PATH" envDefault:"sairahut.db"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"sairahut"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	SessionSecret  string        `env:"SESSION_SECRET" envDefault:"super-secret-key-change-me"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SecureCookie   bool          `env:"SECURE_COOKIE" envDefault:"false"`
	IdentityAPIKey string        `env:"IDENTITY_API_KEY" envDefault:"identity-api-key-change-me"`
	// bcrypt hash of the key sent in X-Admin-Key by the cron scheduler and operators.
	AdminKeyHash string `env:"ADMIN_KEY_HASH"`

	EmailDomain    string `env:"EMAIL_DOMAIN" envDefault:"it.kmitl.ac.th"`
	DepartmentCode string `env:"DEPARTMENT_CODE" envDefault:"07"`
	EventTimezone  string `env:"EVENT_TIMEZONE" envDefault:"Asia/Bangkok"`

	RegistryURL            string `env:"REGISTRY_URL" envDefault:"https://api.airtable.com/v0"`
	RegistryBase           string `env:"REGISTRY_BASE"`
	RegistryToken          string `env:"REGISTRY_TOKEN"`
	RegistryFreshmanTable  string `env:"REGISTRY_FRESHMAN_TABLE" envDefault:"Freshmen"`
	RegistrySophomoreTable string `env:"REGISTRY_SOPHOMORE_TABLE" envDefault:"Sophomores"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedeemLimit   int           `env:"REDEEM_LIMIT" envDefault:"10"`
	RedeemWindow  time.Duration `env:"REDEEM_WINDOW" envDefault:"1m"`

	// ResinScheduler runs the daily fan-out in process instead of waiting for /api/cron/resin.
	ResinScheduler     bool          `env:"RESIN_SCHEDULER" envDefault:"false"`
	ResinCheckInterval time.Duration `env:"RESIN_CHECK_INTERVAL" envDefault:"1m"`

	ServerPort  string   `env:"SERVER_PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Location resolves EventTimezone; resin days roll over at midnight in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.EventTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.EventTimezone, err)
	}
	return loc, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
