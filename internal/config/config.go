package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	NatsURL       string
	NatsToken     string
	DatabaseURL   string
	DirectoryPath string
	LogLevel      string
	SlackBotToken string
	APIToken      string
	CallTimeout   time.Duration
	Timezone      string
}

func Load() Config {
	return Config{
		Port:          envInt("TALLY_PORT", 8760),
		NatsURL:       envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:     envStr("NATS_TOKEN", ""),
		DatabaseURL:   envStr("DATABASE_URL", ""),
		DirectoryPath: envStr("TALLY_DIRECTORY", ""),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		SlackBotToken: envStr("SLACK_BOT_TOKEN", ""),
		APIToken:      envStr("TALLY_API_TOKEN", ""),
		CallTimeout:   envDuration("TALLY_CALL_TIMEOUT", 15*time.Second),
		Timezone:      envStr("TALLY_TIMEZONE", "Local"),
	}
}

// Location resolves Timezone, falling back to the host's zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
