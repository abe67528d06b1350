package storage

import (
	"errors"

	"github.com/julianstephens/dailylog/internal/keyring"
)

// KeyringStore keeps records in the OS credential store, one keyring item per key.
type KeyringStore struct{}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (s *KeyringStore) Init() error {
	return nil
}

func (s *KeyringStore) Load() error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func (s *KeyringStore) Close() error {
	return nil
}

func (s *KeyringStore) GetRecord(key string) (string, error) {
	value, err := keyring.Get(key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *KeyringStore) PutRecord(key, value string) error {
	return keyring.Set(key, value)
}

func (s *KeyringStore) DeleteRecord(key string) error {
	err := keyring.Delete(key)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *KeyringStore) GetConfigPath() string {
	return "keyring"
}
