package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAPIBaseURL(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		env  string
		want string
	}{
		{"missing in development falls back to localhost", "", "development", DefaultDevAPI},
		{"missing in production stays empty", "", EnvProduction, ""},
		{"http upgraded in production", "http://api.example.com", EnvProduction, "https://api.example.com"},
		{"http kept in development", "http://api.example.com", "development", "http://api.example.com"},
		{"trailing slash trimmed", "https://api.example.com/", EnvProduction, "https://api.example.com"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ResolveAPIBaseURL(c.raw, c.env))
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("API_URL", "http://api.meleva.example")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.meleva.example", cfg.API.URL)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, int64(50<<20), cfg.Media.MaxBytes)
}
