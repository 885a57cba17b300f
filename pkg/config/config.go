package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/rozo-ai/bananary-go/pkg/types"
)

// DefaultEndpoint is the payment-gated model proxy.
const DefaultEndpoint = "https://aiproxy.rozo.ai/rozo/api/v1/chat/completions"

// Config holds the application configuration
type Config struct {
	Endpoint          string
	Model             string
	EVMPrivateKey     string
	BypassToken       string
	PreferredNetworks []types.Network
	RequestTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Endpoint:       getEnvOrDefault("BANANARY_ENDPOINT", DefaultEndpoint),
		Model:          getEnvOrDefault("BANANARY_MODEL", "google/gemini-2.5-flash-image-preview"),
		EVMPrivateKey:  os.Getenv("EVM_PRIVATE_KEY"),
		BypassToken:    os.Getenv("STELLAR_TOKEN"),
		RequestTimeout: 30 * time.Second,
	}

	if raw := os.Getenv("BANANARY_NETWORKS"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.PreferredNetworks = append(cfg.PreferredNetworks, types.Network(name))
			}
		}
	}

	if raw := os.Getenv("BANANARY_TIMEOUT_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			cfg.RequestTimeout = time.Duration(seconds) * time.Second
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
