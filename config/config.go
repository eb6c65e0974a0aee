// Package config loads process configuration from the environment,
// optionally seeded from a .env file. The relay binds to a plain
// address; TLS is the reverse proxy's job, so host and path here are
// deployment choices, not protocol.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ListenAddr string // relay bind address
	WSPath     string // websocket endpoint path
	HealthPath string // health check path
	RelayURL   string // ws:// or wss:// URL clients dial
}

func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		WSPath:     getenv("WS_PATH", "/ws"),
		HealthPath: getenv("HEALTH_PATH", "/healthz"),
		RelayURL:   getenv("RELAY_URL", "ws://localhost:8080/ws"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
