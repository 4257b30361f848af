package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":               "www.example:8000",
		"endpoint_addr_grpc":               "www.example:9000",
		"database_dsn":                     "postgres://db",
		"secret_key":                       "my_secret_key",
		"register_token_validity_duration": "720h",
		"login_token_validity_duration":    "24h",
		"bcrypt_cost":                      11,
		"cors_origins":                     []string{"http://localhost:3000"},
		"redis_addr":                       "redis:6379",
		"auth_rate_limit":                  5,
		"auth_rate_window":                 "30s",
		"trusted_proxies":                  []string{"10.0.0.0/8"},
		"health_check_interval":            float64(2 * time.Second),
		"s3_root_user":                     "user",
		"s3_root_password":                 "password",
		"s3_bucket":                        "bucket",
		"s3_region":                        "region",
		"s3_base_endpoint":                 "base_endpoint",
		"log_level":                        "debug",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 720*time.Hour, cfg.RegisterTokenValidityDuration)
		assert.Equal(t, 24*time.Hour, cfg.LoginTokenValidityDuration)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 5, cfg.AuthRateLimit)
		assert.Equal(t, 30*time.Second, cfg.AuthRateWindow)
		assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
		assert.Equal(t, 2*time.Second, cfg.HealthCheckInterval)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"secret_key": "override"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "override", cfg.SecretKey)
		assert.Equal(t, ":5000", cfg.EndpointAddrHTTP)
		assert.Equal(t, 24*time.Hour, cfg.LoginTokenValidityDuration)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrGRPC:           "defaults:1234",
			DatabaseDSN:                "postgres://db",
			SecretKey:                  "key",
			LoginTokenValidityDuration: 2 * time.Minute,
			S3Bucket:                   "s3bucket",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.LoginTokenValidityDuration)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
