package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Storage  string
	Postgres PostgresConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Hold     HoldConfig
	Fare     FareConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	// Addr empty disables redis: no cache, no limiter, no idempotency.
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type AMQPConfig struct {
	// URL empty disables the notification sink.
	URL string
}

type HoldConfig struct {
	MinTTL        time.Duration
	MaxTTL        time.Duration
	SweepInterval time.Duration
}

type FareConfig struct {
	PerHopCents int64
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	storage := os.Getenv("STORAGE")
	if storage == "" {
		storage = StoragePostgres
	}
	if storage != StorageMemory && storage != StoragePostgres {
		return nil, fmt.Errorf("%s: invalid STORAGE %q", op, storage)
	}

	var postgresCfg PostgresConfig
	if storage == StoragePostgres {
		postgresHost := os.Getenv("POSTGRES_HOST")
		if postgresHost == "" {
			postgresHost = "localhost"
		}

		postgresPortStr := os.Getenv("POSTGRES_PORT")
		if postgresPortStr == "" {
			postgresPortStr = "5432"
		}

		postgresPort, err := strconv.Atoi(postgresPortStr)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
		}

		postgresUser := os.Getenv("POSTGRES_USER")
		if postgresUser == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
		}

		postgresPassword := os.Getenv("POSTGRES_PASSWORD")
		if postgresPassword == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
		}

		postgresDB := os.Getenv("POSTGRES_DB")
		if postgresDB == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
		}

		postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
		if postgresSSLMode == "" {
			postgresSSLMode = "disable"
		}

		postgresCfg = PostgresConfig{
			User:     postgresUser,
			Password: postgresPassword,
			Name:     postgresDB,
			Host:     postgresHost,
			Port:     postgresPort,
			SSLMode:  postgresSSLMode,
		}
	}

	redisCfg := RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	amqpCfg := AMQPConfig{
		URL: os.Getenv("AMQP_URL"),
	}

	holdCfg := HoldConfig{
		MinTTL:        15 * time.Second,
		MaxTTL:        15 * time.Minute,
		SweepInterval: 5 * time.Second,
	}

	if v := os.Getenv("HOLD_MIN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid HOLD_MIN_TTL: %w", op, err)
		}
		holdCfg.MinTTL = d
	}

	if v := os.Getenv("HOLD_MAX_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid HOLD_MAX_TTL: %w", op, err)
		}
		holdCfg.MaxTTL = d
	}

	if v := os.Getenv("HOLD_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid HOLD_SWEEP_INTERVAL: %w", op, err)
		}
		holdCfg.SweepInterval = d
	}

	fareCfg := FareConfig{PerHopCents: 12500}
	if v := os.Getenv("FARE_PER_HOP_CENTS"); v != "" {
		cents, err := strconv.ParseInt(v, 10, 64)
		if err != nil || cents <= 0 {
			return nil, fmt.Errorf("%s: invalid FARE_PER_HOP_CENTS %q", op, v)
		}
		fareCfg.PerHopCents = cents
	}

	return &Config{
		Server:   serverCfg,
		Storage:  storage,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		AMQP:     amqpCfg,
		Hold:     holdCfg,
		Fare:     fareCfg,
	}, nil
}
