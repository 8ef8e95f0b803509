package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DBPostgres = "postgres"
	DBMongo    = "mongo"
	DBMemory   = "memory"
)

type Config struct {
	DBType         string        `envconfig:"DB_TYPE" default:"postgres"`
	PostgresURL    string        `envconfig:"POSTGRES_URL"`
	MongoURL       string        `envconfig:"MONGO_URL"`
	MongoDatabase  string        `envconfig:"MONGO_DATABASE" default:"lorryledger"`
	RedisURL       string        `envconfig:"REDIS_URL"`
	MigrationsPath string        `envconfig:"MIGRATIONS_PATH" default:"file://db/migrations"`
	Port           string        `envconfig:"PORT" default:"8080"`
	PageSize       int           `envconfig:"PAGE_SIZE" default:"50"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case DBPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL must be set when DB_TYPE=%s", DBPostgres)
		}
	case DBMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("MONGO_URL must be set when DB_TYPE=%s", DBMongo)
		}
	case DBMemory:
	default:
		return fmt.Errorf("DB_TYPE %q not supported", c.DBType)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}
