package config

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for the session guard cookie.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SecureCookies marks the guard cookie Secure. Leave off for plain-HTTP
	// development.
	SecureCookies bool `env:"HTTP_SECURE_COOKIES" envDefault:"false"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.CookieDomain = strings.TrimSpace(strings.TrimPrefix(h.CookieDomain, "."))
	if h.Addr == "" {
		h.Addr = ":8080"
	}
}

// Validate rejects a cookie domain that browsers would refuse anyway: setting
// a cookie on a bare public suffix (com, co.uk, ...) is silently dropped, so
// failing startup is kinder than a cookie that never arrives.
func (h *HTTPConfig) Validate() error {
	if h.CookieDomain == "" {
		return nil
	}
	suffix, _ := publicsuffix.PublicSuffix(h.CookieDomain)
	if suffix == h.CookieDomain {
		return fmt.Errorf("cookie domain %q is a public suffix; cookies would be rejected", h.CookieDomain)
	}
	return nil
}
