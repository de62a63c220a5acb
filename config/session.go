package config

import "time"

// SessionConfig controls the session lifecycle and its guard cookie.
type SessionConfig struct {
	// CookieName is the guard cookie carrying the access token.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"accessToken"`

	// CookieTTL bounds the guard cookie lifetime.
	CookieTTL time.Duration `env:"SESSION_COOKIE_TTL" envDefault:"1h"`

	// FilePath is where the file storage driver keeps the session record.
	FilePath string `env:"SESSION_FILE_PATH" envDefault:".dentnotion/session.json"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.CookieName == "" {
		s.CookieName = "accessToken"
	}
	if s.CookieTTL <= 0 {
		s.CookieTTL = time.Hour
	}
	if s.FilePath == "" {
		s.FilePath = ".dentnotion/session.json"
	}
}
