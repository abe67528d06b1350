// Package session owns the signed-in user for the lifetime of the process and
// mirrors it into a persistent record so the next launch can resume it.
package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/logger"
	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/storage"
)

// ErrIncomplete is returned by Establish when the profile or credential is missing.
var ErrIncomplete = errors.New("session requires a username and a credential")

// Observer is called after every establish or clear with the new snapshot.
type Observer func(models.Session)

// Store is the single source of truth for the current session.
type Store struct {
	records storage.RecordStore
	key     string
	now     func() time.Time

	mu        sync.RWMutex
	current   models.Session
	observers map[int]Observer
	nextID    int
}

// New returns an anonymous store backed by records. An empty key selects the
// default record key.
func New(records storage.RecordStore, key string) *Store {
	if key == "" {
		key = constants.SessionStorageKey
	}
	return &Store{
		records:   records,
		key:       key,
		now:       time.Now,
		observers: make(map[int]Observer),
	}
}

// Restore loads the persisted record. Anything missing, unreadable or
// malformed leaves the store anonymous; Restore never fails.
func (s *Store) Restore() models.Session {
	restored := s.read()

	s.mu.Lock()
	s.current = restored
	s.mu.Unlock()

	return restored.Clone()
}

func (s *Store) read() models.Session {
	if s.records == nil {
		return models.Anonymous()
	}

	raw, err := s.records.GetRecord(s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read stored session", "backend", s.records.GetConfigPath(), "error", err)
		}
		return models.Anonymous()
	}

	var stored models.StoredSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Warn("Ignoring malformed stored session", "error", err)
		return models.Anonymous()
	}
	if stored.User == nil || stored.User.Username == "" || stored.Token == "" {
		logger.Warn("Ignoring incomplete stored session")
		return models.Anonymous()
	}

	if exp, ok := expiry(stored.Token); ok && !exp.After(s.now()) {
		logger.Info("Stored session has expired", "user", stored.User.Username, "expired_at", exp)
		if err := s.records.DeleteRecord(s.key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to remove expired session", "error", err)
		}
		return models.Anonymous()
	}

	logger.Debug("Session restored", "user", stored.User.Username)
	return models.Session{Profile: stored.User, Credential: stored.Token}
}

// Establish replaces the live session and persists it. A persistence error is
// returned, but the new session stays live in memory either way.
func (s *Store) Establish(profile models.UserProfile, credential string) error {
	if profile.Username == "" || credential == "" {
		return ErrIncomplete
	}

	p := profile.Clone()
	next := models.Session{Profile: &p, Credential: credential}

	s.mu.Lock()
	s.current = next
	err := s.persist(next)
	observers := s.snapshotObservers()
	s.mu.Unlock()

	logger.Info("Session established", "user", profile.Username)
	notify(observers, next)
	return err
}

// persist must be called with mu held so memory and record change together.
func (s *Store) persist(sess models.Session) error {
	if s.records == nil {
		return nil
	}
	data, err := json.Marshal(models.StoredSession{User: sess.Profile, Token: sess.Credential})
	if err != nil {
		return err
	}
	if err := s.records.PutRecord(s.key, string(data)); err != nil {
		logger.Warn("Failed to persist session", "backend", s.records.GetConfigPath(), "error", err)
		return err
	}
	return nil
}

// Clear signs out. Clearing an anonymous store does nothing.
func (s *Store) Clear() {
	s.clear(func(models.Session) bool { return true })
}

// ClearIf signs out only while credential is still the live one, so a late
// rejection of an older credential cannot end a newer session. It reports
// whether the session was cleared.
func (s *Store) ClearIf(credential string) bool {
	return s.clear(func(cur models.Session) bool {
		return credential != "" && cur.Credential == credential
	})
}

func (s *Store) clear(match func(models.Session) bool) bool {
	s.mu.Lock()
	if s.current.Anonymous() || !match(s.current) {
		s.mu.Unlock()
		return false
	}

	user := s.current.Username()
	s.current = models.Anonymous()
	if s.records != nil {
		if err := s.records.DeleteRecord(s.key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to remove stored session", "backend", s.records.GetConfigPath(), "error", err)
		}
	}
	observers := s.snapshotObservers()
	s.mu.Unlock()

	logger.Info("Session cleared", "user", user)
	notify(observers, models.Anonymous())
	return true
}

// Current returns a copy of the live session.
func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Credential returns the live credential or "".
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Credential
}

// ExpiresAt reports the expiry encoded in the live credential, when it is a
// JWT carrying an exp claim.
func (s *Store) ExpiresAt() (time.Time, bool) {
	return expiry(s.Credential())
}

// Subscribe registers fn for session changes and returns a func that removes it.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotObservers() []Observer {
	out := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		out = append(out, fn)
	}
	return out
}

func notify(observers []Observer, sess models.Session) {
	for _, fn := range observers {
		fn(sess.Clone())
	}
}

// expiry reads exp without verifying the signature; the service remains the
// authority on whether the credential is accepted.
func expiry(credential string) (time.Time, bool) {
	if credential == "" {
		return time.Time{}, false
	}
	token, _, err := jwt.NewParser().ParseUnverified(credential, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
