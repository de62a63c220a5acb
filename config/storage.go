package config

import (
	"fmt"
	"strings"
)

// StorageDriver selects where the durable session record lives.
type StorageDriver string

const (
	StorageFile     StorageDriver = "file"
	StorageRedis    StorageDriver = "redis"
	StoragePostgres StorageDriver = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler so env parsing rejects
// unknown drivers at load time instead of at first use.
func (d *StorageDriver) UnmarshalText(text []byte) error {
	switch v := StorageDriver(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case StorageFile, StorageRedis, StoragePostgres:
		*d = v
		return nil
	case "":
		*d = StorageFile
		return nil
	default:
		return fmt.Errorf("unknown session storage driver %q (want file, redis or postgres)", text)
	}
}

// StorageConfig selects the session storage driver.
type StorageConfig struct {
	Driver StorageDriver `env:"SESSION_STORAGE" envDefault:"file"`
}

// Validate reports a driver value that slipped past UnmarshalText (e.g. a
// zero-value config built in code).
func (s *StorageConfig) Validate() error {
	switch s.Driver {
	case StorageFile, StorageRedis, StoragePostgres:
		return nil
	case "":
		s.Driver = StorageFile
		return nil
	default:
		return fmt.Errorf("unknown session storage driver %q", s.Driver)
	}
}
