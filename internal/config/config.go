package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort int `env:"BANKING_HTTP_PORT"`

	DBConfig struct {
		Host     string `env:"BANKING_DB_HOST"`
		Port     int    `env:"BANKING_DB_PORT"`
		User     string `env:"BANKING_DB_USER"`
		Password string `env:"BANKING_DB_PASSWORD"`
		Name     string `env:"BANKING_DB_NAME"`
		SSLMode  string `env:"BANKING_DB_SSLMODE"`
	}

	JWTSecret string        `env:"BANKING_JWT_SECRET"`
	TokenTTL  time.Duration `env:"BANKING_TOKEN_TTL"`

	KafkaBrokerURL           string `env:"KAFKA_BROKER_URL"`
	KafkaTransferEventsTopic string `env:"KAFKA_TRANSFER_EVENTS_TOPIC"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL"`
	OutboxPollTimeout  time.Duration `env:"OUTBOX_POLL_TIMEOUT"`

	MigrationsPath string `env:"BANKING_MIGRATIONS_PATH"`
	SeedDemoData   bool   `env:"BANKING_SEED_DEMO_DATA"`
}

func LoadConfig() (*Config, error) {
	// A .env file is optional; deployments usually set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.HTTPPort = getEnvAsInt("BANKING_HTTP_PORT", 8080)

	cfg.DBConfig.Host = getEnvOrDefault("BANKING_DB_HOST", "localhost")
	cfg.DBConfig.Port = getEnvAsInt("BANKING_DB_PORT", 5432)
	cfg.DBConfig.User = getEnvOrDefault("BANKING_DB_USER", "user")
	cfg.DBConfig.Password = getEnvOrDefault("BANKING_DB_PASSWORD", "password")
	cfg.DBConfig.Name = getEnvOrDefault("BANKING_DB_NAME", "banking_db")
	cfg.DBConfig.SSLMode = getEnvOrDefault("BANKING_DB_SSLMODE", "disable")

	cfg.JWTSecret = getEnvOrDefault("BANKING_JWT_SECRET", "devsecret")
	cfg.TokenTTL = getEnvAsDuration("BANKING_TOKEN_TTL", 2*time.Hour)

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaTransferEventsTopic = getEnvOrDefault("KAFKA_TRANSFER_EVENTS_TOPIC", "transfer_events")

	cfg.OutboxPollInterval = getEnvAsDuration("OUTBOX_POLL_INTERVAL", 1*time.Second)
	cfg.OutboxPollTimeout = getEnvAsDuration("OUTBOX_POLL_TIMEOUT", 500*time.Millisecond)

	cfg.MigrationsPath = getEnvOrDefault("BANKING_MIGRATIONS_PATH", "migrations")
	cfg.SeedDemoData = getEnvAsBool("BANKING_SEED_DEMO_DATA", true)

	return cfg, nil
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBConfig.User, c.DBConfig.Password, c.DBConfig.Host, c.DBConfig.Port, c.DBConfig.Name, c.DBConfig.SSLMode)
}

func (c *Config) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokerURL, ",")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnvOrDefault(key, strconv.FormatBool(defaultValue))
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
