package config

import (
	"strings"
	"time"
)

// BackendConfig points the gateway at the DentNotion REST backend.
type BackendConfig struct {
	// BaseURL is the backend API root, including the /api prefix.
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds every backend call unless an operation overrides it.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
}
