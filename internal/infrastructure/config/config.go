package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverOracle   = "oracle"
	DBDriverMemory   = "memory"
)

type Config struct {
	ServerHost string
	ServerPort string
	LogLevel   string

	DBDriver string
	DBDSN    string

	// DefaultCurrency is the display currency used when a request does not
	// ask for a specific one.
	DefaultCurrency string

	CoinGeckoAPIKey   string
	QuoteCacheTTL     time.Duration
	QuoteWarmInterval time.Duration

	// AuthTokens maps opaque bearer tokens to user ids ("tok1:alice,tok2:bob").
	AuthTokens map[string]string
}

func Load() (*Config, error) {
	driver := getEnvOrDefault("DB_DRIVER", DBDriverPostgres)
	dsn := os.Getenv("DB_DSN")
	if driver != DBDriverMemory && dsn == "" {
		return nil, fmt.Errorf("DB_DSN environment variable is required for the %s driver", driver)
	}

	cacheTTL, err := time.ParseDuration(getEnvOrDefault("QUOTE_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTE_CACHE_TTL: %w", err)
	}

	warmInterval, err := time.ParseDuration(getEnvOrDefault("QUOTE_WARM_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTE_WARM_INTERVAL: %w", err)
	}

	tokens, err := parseAuthTokens(os.Getenv("AUTH_TOKENS"))
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("AUTH_TOKENS environment variable is required")
	}

	return &Config{
		ServerHost:        getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:        getEnvOrDefault("SERVER_PORT", "8080"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		DBDriver:          driver,
		DBDSN:             dsn,
		DefaultCurrency:   strings.ToUpper(getEnvOrDefault("DEFAULT_CURRENCY", "USD")),
		CoinGeckoAPIKey:   os.Getenv("COINGECKO_API_KEY"),
		QuoteCacheTTL:     cacheTTL,
		QuoteWarmInterval: warmInterval,
		AuthTokens:        tokens,
	}, nil
}

// parseAuthTokens parses "token:user" pairs separated by commas.
func parseAuthTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return tokens, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, user, ok := strings.Cut(pair, ":")
		if !ok || token == "" || user == "" {
			return nil, fmt.Errorf("invalid AUTH_TOKENS entry %q, want token:user", pair)
		}
		tokens[token] = user
	}
	return tokens, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
