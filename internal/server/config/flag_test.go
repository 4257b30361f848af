package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:8080", "-m", "127.0.0.1:9090", "-d", "db", "-s", "secret",
			"-t", "48", "-l", "2", "-k", "12", "-o", "http://a, http://b", "-r", "redis:6379",
			"-x", "10.0.0.1, 172.16.0.0/12", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		},
			expected: &Config{
				EndpointAddrHTTP:              "127.0.0.1:8080",
				EndpointAddrGRPC:              "127.0.0.1:9090",
				DatabaseDSN:                   "db",
				SecretKey:                     "secret",
				RegisterTokenValidityDuration: 48 * time.Hour,
				LoginTokenValidityDuration:    2 * time.Hour,
				BcryptCost:                    12,
				CORSOrigins:                   []string{"http://a", "http://b"},
				RedisAddr:                     "redis:6379",
				TrustedProxies:                []string{"10.0.0.1", "172.16.0.0/12"},
				S3RootUser:                    "user",
				S3RootPassword:                "password",
				S3Bucket:                      "bucket",
				S3Region:                      "us-west-1",
				S3BaseEndpoint:                "http://endpoint",
			}},
		{name: "unrelated flags are ignored", args: []string{"cmd", "-c", "cfg.json", "-env", ".env.local", "-d", "db"},
			expected: &Config{DatabaseDSN: "db"}},
		{name: "bad int panics", args: []string{"cmd", "-k", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
	assert.Nil(t, splitList(""))
}
