package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr        string
	CPFHeader       string
	Env             string
	LogLevel        string
	KafkaBrokers    []string
	KafkaTopic      string
	ShutdownTimeout time.Duration

	// DotEnvLoaded reports whether a .env file was found.
	DotEnvLoaded bool
}

func Load() Config {
	loaded := godotenv.Load() == nil

	return Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":3333"),
		CPFHeader:       getEnv("CPF_HEADER", "cpf"),
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "account_events"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DotEnvLoaded:    loaded,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
