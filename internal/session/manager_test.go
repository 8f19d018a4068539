package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseconnect/casetracker/internal/models"
)

// failingStore всегда возвращает ошибку на запись и удаление.
type failingStore struct{ MemoryStore }

func (s *failingStore) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return errors.New("store unavailable")
}

func (s *failingStore) Delete(_ context.Context, _ string) error {
	return errors.New("store unavailable")
}

func testUser(id string) *models.AuthUser {
	return &models.AuthUser{
		ID:        id,
		Email:     "adv.sharma@example.in",
		FirstName: "Priya",
		LastName:  "Sharma",
		Role:      models.RoleAdvocate,
		IsActive:  true,
		CreatedOn: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestManager_InitialStateIsLoading(t *testing.T) {
	m := NewManager(NewMemoryStore(), "sid-1", time.Hour)

	user, loading := m.Current()
	assert.Nil(t, user)
	assert.True(t, loading)
}

func TestManager_RestoreEmptyStore(t *testing.T) {
	m := NewManager(NewMemoryStore(), "sid-1", time.Hour)
	m.Restore(context.Background())

	user, loading := m.Current()
	assert.Nil(t, user)
	assert.False(t, loading)
}

func TestManager_RestoreValidEntry(t *testing.T) {
	store := NewMemoryStore()
	want := testUser("uid-1")
	data, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "sid-1", data, time.Hour))

	m := NewManager(store, "sid-1", time.Hour)
	m.Restore(context.Background())

	user, loading := m.Current()
	require.NotNil(t, user)
	assert.False(t, loading)
	assert.Equal(t, want.ID, user.ID)
	assert.Equal(t, want.Role, user.Role)
}

func TestManager_RestoreCorruptEntryClearsStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "sid-1", []byte("{not json"), time.Hour))

	m := NewManager(store, "sid-1", time.Hour)
	m.Restore(context.Background())

	user, loading := m.Current()
	assert.Nil(t, user)
	assert.False(t, loading)

	_, found, err := store.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestManager_CompletePersistsBeforeMemory(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, "sid-1", time.Hour)
	m.Restore(context.Background())

	attempt := m.Begin()
	require.NoError(t, m.Complete(context.Background(), attempt, testUser("uid-1")))

	user, _ := m.Current()
	require.NotNil(t, user)
	assert.Equal(t, "uid-1", user.ID)

	data, found, err := store.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	require.True(t, found)
	var stored models.AuthUser
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "uid-1", stored.ID)
}

func TestManager_CompleteWithFailingStoreLeavesNoSession(t *testing.T) {
	m := NewManager(&failingStore{}, "sid-1", time.Hour)
	m.Restore(context.Background())

	attempt := m.Begin()
	err := m.Complete(context.Background(), attempt, testUser("uid-1"))
	assert.Error(t, err)

	user, loading := m.Current()
	assert.Nil(t, user)
	assert.False(t, loading)
}

func TestManager_ConcurrentAttemptsLastWriteWins(t *testing.T) {
	m := NewManager(NewMemoryStore(), "sid-1", time.Hour)
	m.Restore(context.Background())

	first := m.Begin()
	second := m.Begin()

	// Первая попытка завершилась позже второй начатой: её результат отброшен.
	err := m.Complete(context.Background(), first, testUser("uid-first"))
	assert.ErrorIs(t, err, ErrStaleAttempt)

	require.NoError(t, m.Complete(context.Background(), second, testUser("uid-second")))

	user, _ := m.Current()
	require.NotNil(t, user)
	assert.Equal(t, "uid-second", user.ID)
}

func TestManager_StaleFailDoesNotClearNewerSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), "sid-1", time.Hour)
	m.Restore(context.Background())

	first := m.Begin()
	second := m.Begin()
	require.NoError(t, m.Complete(context.Background(), second, testUser("uid-second")))

	m.Fail(context.Background(), first)

	user, _ := m.Current()
	require.NotNil(t, user)
	assert.Equal(t, "uid-second", user.ID)
}

func TestManager_FailClearsSessionAndStore(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, "sid-1", time.Hour)
	m.Restore(context.Background())

	attempt := m.Begin()
	require.NoError(t, m.Complete(context.Background(), attempt, testUser("uid-1")))

	next := m.Begin()
	m.Fail(context.Background(), next)

	user, _ := m.Current()
	assert.Nil(t, user)

	_, found, err := store.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestManager_LogoutWithoutPriorLogin(t *testing.T) {
	m := NewManager(NewMemoryStore(), "sid-1", time.Hour)
	m.Restore(context.Background())

	m.Logout(context.Background())

	user, loading := m.Current()
	assert.Nil(t, user)
	assert.False(t, loading)
}

func TestManager_LogoutCannotFail(t *testing.T) {
	m := NewManager(&failingStore{}, "sid-1", time.Hour)
	m.Restore(context.Background())

	m.Logout(context.Background())

	user, _ := m.Current()
	assert.Nil(t, user)
}
