package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", DBDriverMemory)
	t.Setenv("DB_DSN", "")
	t.Setenv("AUTH_TOKENS", "secret:alice")
	t.Setenv("SERVER_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEFAULT_CURRENCY", "")
	t.Setenv("COINGECKO_API_KEY", "")
	t.Setenv("QUOTE_CACHE_TTL", "")
	t.Setenv("QUOTE_WARM_INTERVAL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.ServerHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DBDriverMemory, cfg.DBDriver)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, 60*time.Second, cfg.QuoteCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.QuoteWarmInterval)
	assert.Equal(t, map[string]string{"secret": "alice"}, cfg.AuthTokens)
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DEFAULT_CURRENCY", "eur")
	t.Setenv("QUOTE_CACHE_TTL", "90s")
	t.Setenv("QUOTE_WARM_INTERVAL", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, 90*time.Second, cfg.QuoteCacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.QuoteWarmInterval)
}

func TestLoad_RequiresDSNForSQLDrivers(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", DBDriverPostgres)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoad_MemoryDriverNeedsNoDSN(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DBDSN)
}

func TestLoad_RequiresAuthTokens(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AUTH_TOKENS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_TOKENS")
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("QUOTE_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUOTE_CACHE_TTL")
}

func TestParseAuthTokens(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    map[string]string
		expectError bool
	}{
		{"single pair", "tok1:alice", map[string]string{"tok1": "alice"}, false},
		{"multiple pairs", "tok1:alice,tok2:bob", map[string]string{"tok1": "alice", "tok2": "bob"}, false},
		{"whitespace tolerated", " tok1:alice , tok2:bob ", map[string]string{"tok1": "alice", "tok2": "bob"}, false},
		{"empty", "", map[string]string{}, false},
		{"missing user", "tok1:", nil, true},
		{"missing separator", "tok1", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := parseAuthTokens(tc.raw)

			if tc.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tokens)
		})
	}
}
