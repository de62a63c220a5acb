package config

import "time"

// DevBackendConfig configures the in-memory dev backend binary.
type DevBackendConfig struct {
	// Addr is the address the dev backend binds to. The default matches the
	// gateway's default BACKEND_BASE_URL.
	Addr string `env:"ADDR" envDefault:":8000"`

	// JWTSecret signs dev access tokens. Fixed default on purpose: restarts
	// keep old tokens verifiable during local work.
	JWTSecret string `env:"JWT_SECRET" envDefault:"dentnotion-dev-secret"`

	// AccessTTL bounds dev access token life.
	AccessTTL time.Duration `env:"ACCESS_TTL" envDefault:"15m"`

	// Paginated switches list responses to the {"count", "results"} envelope.
	Paginated bool `env:"PAGINATED" envDefault:"false"`
}

// Sanitize applies guardrails to dev backend configuration values.
func (d *DevBackendConfig) Sanitize() {
	if d.Addr == "" {
		d.Addr = ":8000"
	}
	if d.JWTSecret == "" {
		d.JWTSecret = "dentnotion-dev-secret"
	}
	if d.AccessTTL <= 0 {
		d.AccessTTL = 15 * time.Minute
	}
}
