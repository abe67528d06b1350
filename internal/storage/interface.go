package storage

import (
	"errors"
	"fmt"

	"github.com/julianstephens/dailylog/internal/constants"
)

// ErrNotFound is returned when no record exists under a key.
var ErrNotFound = errors.New("record not found")

// RecordStore persists small string records under well-known keys. The session
// store is its only writer.
type RecordStore interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Records
	GetRecord(key string) (string, error)
	PutRecord(key, value string) error
	DeleteRecord(key string) error

	// Utils
	GetConfigPath() string
}

// Open returns the provider for backend. path is a file path for sqlite and
// json, a connection string for postgres, and ignored for keyring.
func Open(backend, path string) (RecordStore, error) {
	switch backend {
	case constants.BackendKeyring, "":
		return NewKeyringStore(), nil
	case constants.BackendSQLite:
		return NewSQLiteStore(path), nil
	case constants.BackendJSON:
		return NewJSONStore(path), nil
	case constants.BackendPostgres:
		if _, err := ValidateConnString(path); err != nil {
			return nil, err
		}
		return NewPostgresStore(path), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q (want keyring, sqlite, postgres or json)", backend)
	}
}
