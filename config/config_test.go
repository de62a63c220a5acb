package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:8000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "accessToken", cfg.Session.CookieName)
	assert.Equal(t, time.Hour, cfg.Session.CookieTTL)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, ":8000", cfg.DevBackend.Addr)
	assert.False(t, cfg.IsDev)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("BACKEND_BASE_URL", "https://api.clinic.example/api/")
	t.Setenv("BACKEND_TIMEOUT", "30s")
	t.Setenv("SESSION_STORAGE", "redis")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "https://api.clinic.example/api", cfg.Backend.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
}

func TestDevModeDetection(t *testing.T) {
	t.Run("DEV flag", func(t *testing.T) {
		t.Setenv("DEV", "true")
		var cfg AppConfig
		require.NoError(t, env.Parse(&cfg))
		cfg.Sanitize()
		assert.True(t, cfg.IsDev)
	})

	t.Run("NODE_ENV fallback", func(t *testing.T) {
		t.Setenv("NODE_ENV", "development")
		var cfg AppConfig
		require.NoError(t, env.Parse(&cfg))
		cfg.Sanitize()
		assert.True(t, cfg.IsDev)
	})

	t.Run("production NODE_ENV stays off", func(t *testing.T) {
		t.Setenv("NODE_ENV", "production")
		var cfg AppConfig
		require.NoError(t, env.Parse(&cfg))
		cfg.Sanitize()
		assert.False(t, cfg.IsDev)
	})
}

func TestHTTPConfigSanitize(t *testing.T) {
	h := HTTPConfig{CookieDomain: " .clinic.example "}
	h.Sanitize()
	assert.Equal(t, "clinic.example", h.CookieDomain, "leading dot and whitespace stripped")
	assert.Equal(t, ":8080", h.Addr)
}

func TestHTTPConfigValidateCookieDomain(t *testing.T) {
	t.Run("empty domain is fine", func(t *testing.T) {
		h := HTTPConfig{}
		assert.NoError(t, h.Validate())
	})

	t.Run("registrable domain is fine", func(t *testing.T) {
		h := HTTPConfig{CookieDomain: "clinic.example.com"}
		assert.NoError(t, h.Validate())
	})

	t.Run("bare public suffix is rejected", func(t *testing.T) {
		for _, domain := range []string{"com", "co.uk"} {
			h := HTTPConfig{CookieDomain: domain}
			err := h.Validate()
			require.Error(t, err, domain)
			assert.Contains(t, err.Error(), "public suffix")
		}
	})
}

func TestStorageDriverUnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    StorageDriver
		wantErr bool
	}{
		{"file", StorageFile, false},
		{"redis", StorageRedis, false},
		{"postgres", StoragePostgres, false},
		{"  Redis  ", StorageRedis, false},
		{"", StorageFile, false},
		{"memcached", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d StorageDriver
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown session storage driver")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestStorageConfigValidate(t *testing.T) {
	s := StorageConfig{}
	require.NoError(t, s.Validate())
	assert.Equal(t, StorageFile, s.Driver, "zero value defaults to file")

	s.Driver = "carrier-pigeon"
	assert.Error(t, s.Validate())
}

func TestBackendSanitizeRepairsTimeout(t *testing.T) {
	b := BackendConfig{BaseURL: "http://localhost:8000/api", Timeout: -1}
	b.Sanitize()
	assert.Equal(t, 10*time.Second, b.Timeout)
}

func TestSessionSanitizeRestoresDefaults(t *testing.T) {
	s := SessionConfig{}
	s.Sanitize()
	assert.Equal(t, "accessToken", s.CookieName)
	assert.Equal(t, time.Hour, s.CookieTTL)
	assert.Equal(t, ".dentnotion/session.json", s.FilePath)
}
