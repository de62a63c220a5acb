package filestore

// Package filestore persists the session record as a JSON file on disk. It is
// the default storage for a single-user gateway, playing the role the web
// client's localStorage played.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/ports"
)

// Storage writes the record to a single file with owner-only permissions.
type Storage struct {
	path string
}

var _ ports.SessionStorage = (*Storage)(nil)

// New builds a Storage rooted at path. The parent directory is created on the
// first Save, not here.
func New(path string) (*Storage, error) {
	if path == "" {
		return nil, errors.New("filestore: path is required")
	}
	return &Storage{path: path}, nil
}

func (s *Storage) Load(_ context.Context) (domainsession.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domainsession.Record{}, ports.ErrNoRecord
		}
		return domainsession.Record{}, fmt.Errorf("read session file: %w", err)
	}

	var rec domainsession.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domainsession.Record{}, fmt.Errorf("decode session file: %w", err)
	}
	return rec, nil
}

func (s *Storage) Save(_ context.Context, rec domainsession.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a truncated record.
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write session record: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (s *Storage) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
