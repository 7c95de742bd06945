package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv unsets every config variable so defaults apply regardless of
// the developer's environment. t.Setenv registers the restore; Unsetenv then
// removes the variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR",
		"MYSQL_DSN",
		"MYSQL_MAX_OPEN_CONNS",
		"MYSQL_MAX_IDLE_CONNS",
		"MYSQL_CONN_MAX_LIFETIME_MINUTES",
		"REDIS_ADDR",
		"PURCHASE_RATE_LIMIT",
		"PURCHASE_RATE_BURST",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Contains(t, cfg.MySQLDSN, "parseTime=true")
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Greater(t, cfg.PurchaseRateLimit, 0.0)
	assert.Greater(t, cfg.PurchaseRateBurst, 0)
}

func TestLoad_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MYSQL_DSN", "user:pw@tcp(db:3306)/shop?parseTime=true")
	t.Setenv("PURCHASE_RATE_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "user:pw@tcp(db:3306)/shop?parseTime=true", cfg.MySQLDSN)
	assert.Equal(t, 10.0, cfg.PurchaseRateLimit)
}
