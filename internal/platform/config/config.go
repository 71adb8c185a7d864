package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	dErrors "kennitala/pkg/domain-errors"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	MaxBatchSize   int
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

const (
	defaultAddr           = ":8080"
	defaultEnvironment    = "dev"
	defaultLogLevel       = "info"
	defaultMaxBatchSize   = 100
	defaultRequestTimeout = 30 * time.Second
	defaultMaxBodyBytes   = 1 << 20
)

// LoadDotEnv loads .env and then .env.local from the working directory when
// they exist. Variables already set in the process environment win.
func LoadDotEnv() error {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:           getEnv("KENNITALA_ADDR", defaultAddr),
		Environment:    getEnv("KENNITALA_ENV", defaultEnvironment),
		LogLevel:       getEnv("LOG_LEVEL", defaultLogLevel),
		MaxBatchSize:   defaultMaxBatchSize,
		RequestTimeout: defaultRequestTimeout,
		MaxBodyBytes:   defaultMaxBodyBytes,
	}

	if v := os.Getenv("MAX_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Server{}, dErrors.New(dErrors.CodeValidation, "MAX_BATCH_SIZE must be a positive integer")
		}
		cfg.MaxBatchSize = n
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Server{}, dErrors.New(dErrors.CodeValidation, "REQUEST_TIMEOUT must be a positive duration")
		}
		cfg.RequestTimeout = d
	}

	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return Server{}, dErrors.New(dErrors.CodeValidation, "MAX_BODY_BYTES must be a positive integer")
		}
		cfg.MaxBodyBytes = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
