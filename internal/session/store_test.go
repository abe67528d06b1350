package session

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/storage"
)

// memStore is an in-memory storage.RecordStore with failure injection.
type memStore struct {
	mu      sync.Mutex
	records map[string]string
	putErr  error
	getErr  error
	deletes int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]string)}
}

func (m *memStore) Init() error  { return nil }
func (m *memStore) Load() error  { return nil }
func (m *memStore) Close() error { return nil }

func (m *memStore) GetRecord(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.records[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m *memStore) PutRecord(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.records[key] = value
	return nil
}

func (m *memStore) DeleteRecord(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if _, ok := m.records[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.records, key)
	return nil
}

func (m *memStore) GetConfigPath() string { return "memory" }

func profile(name string) models.UserProfile {
	return models.UserProfile{
		Username:       name,
		WeightKg:       70,
		TargetWeightKg: models.Float(65),
		HeightCm:       170,
		Gender:         models.GenderFemale,
		ActivityLevel:  models.ActivityModerate,
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestEstablishCurrentClearRoundTrip(t *testing.T) {
	records := newMemStore()
	store := New(records, "")

	require.NoError(t, store.Establish(profile("alice"), "tok-1"))

	cur := store.Current()
	require.NotNil(t, cur.Profile)
	assert.Equal(t, "alice", cur.Profile.Username)
	assert.Equal(t, "tok-1", cur.Credential)
	assert.Contains(t, records.records, constants.SessionStorageKey)

	store.Clear()
	assert.True(t, store.Current().Anonymous())
	assert.NotContains(t, records.records, constants.SessionStorageKey)
}

func TestRestoreAfterRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	records := storage.NewJSONStore(path)
	require.NoError(t, records.Init())

	first := New(records, "")
	require.NoError(t, first.Establish(profile("alice"), "tok-1"))

	reopened := storage.NewJSONStore(path)
	require.NoError(t, reopened.Load())
	second := New(reopened, "")
	restored := second.Restore()

	require.True(t, restored.Valid())
	assert.Equal(t, "alice", restored.Username())
	assert.Equal(t, "tok-1", restored.Credential)
	target, ok := restored.Profile.Target()
	assert.True(t, ok)
	assert.Equal(t, 65.0, target)
}

func TestRestoreYieldsAnonymousOnBadRecords(t *testing.T) {
	tests := []struct {
		name   string
		record string
		getErr error
	}{
		{name: "missing"},
		{name: "malformed json", record: "{not json"},
		{name: "wrong shape", record: `["user","token"]`},
		{name: "missing user", record: `{"token":"tok"}`},
		{name: "missing username", record: `{"user":{"weight_kg":70},"token":"tok"}`},
		{name: "missing token", record: `{"user":{"username":"alice"}}`},
		{name: "empty token", record: `{"user":{"username":"alice"},"token":""}`},
		{name: "backend failure", getErr: errors.New("keyring locked")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := newMemStore()
			records.getErr = tt.getErr
			if tt.record != "" {
				records.records[constants.SessionStorageKey] = tt.record
			}

			store := New(records, "")
			assert.NotPanics(t, func() {
				assert.True(t, store.Restore().Anonymous())
			})
			assert.True(t, store.Current().Anonymous())
		})
	}
}

func TestRestoreDropsExpiredToken(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	records := newMemStore()
	records.records[constants.SessionStorageKey] =
		`{"user":{"username":"alice"},"token":"` + signedToken(t, now.Add(-time.Hour)) + `"}`

	store := New(records, "")
	store.now = func() time.Time { return now }

	assert.True(t, store.Restore().Anonymous())
	assert.NotContains(t, records.records, constants.SessionStorageKey)
}

func TestRestoreKeepsLiveToken(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)
	records := newMemStore()
	records.records[constants.SessionStorageKey] =
		`{"user":{"username":"alice"},"token":"` + signedToken(t, exp) + `"}`

	store := New(records, "")
	store.now = func() time.Time { return now }

	assert.True(t, store.Restore().Valid())
	got, ok := store.ExpiresAt()
	require.True(t, ok)
	assert.Equal(t, exp.Unix(), got.Unix())
}

func TestOpaqueTokenHasNoExpiry(t *testing.T) {
	store := New(newMemStore(), "")
	require.NoError(t, store.Establish(profile("alice"), "opaque"))

	_, ok := store.ExpiresAt()
	assert.False(t, ok)
}

func TestEstablishRejectsIncompleteSession(t *testing.T) {
	store := New(newMemStore(), "")

	assert.ErrorIs(t, store.Establish(models.UserProfile{}, "tok"), ErrIncomplete)
	assert.ErrorIs(t, store.Establish(profile("alice"), ""), ErrIncomplete)
	assert.True(t, store.Current().Anonymous())
}

func TestEstablishKeepsSessionWhenPersistFails(t *testing.T) {
	records := newMemStore()
	records.putErr = errors.New("disk full")
	store := New(records, "")

	err := store.Establish(profile("alice"), "tok-1")
	assert.Error(t, err)
	assert.Equal(t, "tok-1", store.Current().Credential)
}

func TestCurrentReturnsCopy(t *testing.T) {
	store := New(newMemStore(), "")
	require.NoError(t, store.Establish(profile("alice"), "tok-1"))

	snap := store.Current()
	snap.Profile.Username = "mallory"
	*snap.Profile.TargetWeightKg = 1

	cur := store.Current()
	assert.Equal(t, "alice", cur.Profile.Username)
	assert.Equal(t, 65.0, *cur.Profile.TargetWeightKg)
}

func TestClearIsIdempotent(t *testing.T) {
	records := newMemStore()
	store := New(records, "")

	calls := 0
	store.Subscribe(func(models.Session) { calls++ })

	store.Clear()
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, records.deletes)

	require.NoError(t, store.Establish(profile("alice"), "tok-1"))
	store.Clear()
	store.Clear()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, records.deletes)
}

func TestClearIfOnlyClearsMatchingCredential(t *testing.T) {
	store := New(newMemStore(), "")
	require.NoError(t, store.Establish(profile("alice"), "old"))
	require.NoError(t, store.Establish(profile("alice"), "new"))

	assert.False(t, store.ClearIf("old"))
	assert.Equal(t, "new", store.Current().Credential)

	assert.False(t, store.ClearIf(""))
	assert.True(t, store.ClearIf("new"))
	assert.True(t, store.Current().Anonymous())
	assert.False(t, store.ClearIf("new"))
}

func TestSubscribe(t *testing.T) {
	store := New(newMemStore(), "")

	var seen []string
	unsubscribe := store.Subscribe(func(s models.Session) {
		seen = append(seen, s.Username())
	})

	require.NoError(t, store.Establish(profile("alice"), "tok-1"))
	store.Clear()
	unsubscribe()
	require.NoError(t, store.Establish(profile("bob"), "tok-2"))

	assert.Equal(t, []string{"alice", ""}, seen)
}

func TestConcurrentAccess(t *testing.T) {
	store := New(newMemStore(), "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = store.Establish(profile("alice"), "tok")
		}()
		go func() {
			defer wg.Done()
			store.Clear()
		}()
		go func() {
			defer wg.Done()
			cur := store.Current()
			// a snapshot is always whole: both halves or neither
			assert.True(t, cur.Anonymous() || cur.Valid())
		}()
	}
	wg.Wait()
}
