package session

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	id := uuid.New()
	started := time.Now().UTC().Truncate(time.Millisecond)

	_, err := store.Get(id)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, store.Set(Session{ID: id}), ErrSessionNotFound)

	require.NoError(t, store.New(id, started))
	require.ErrorIs(t, store.New(id, started), ErrSessionAlreadyExists)

	sess, err := store.Get(id)
	require.NoError(t, err)
	require.Equal(t, id, sess.ID)
	require.Equal(t, StateActive, sess.State)
	require.True(t, started.Equal(sess.Started))

	sess.Peer = "127.0.0.1:4000"
	sess.Files = 2
	sess.Bytes = 5000
	sess.State = StateFinished
	require.NoError(t, store.Set(sess))

	got, err := store.Get(id)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:4000", got.Peer)
	require.Equal(t, 2, got.Files)
	require.Equal(t, int64(5000), got.Bytes)
	require.Equal(t, StateFinished, got.State)

	require.NoError(t, store.Clear(id))
	require.ErrorIs(t, store.Clear(id), ErrSessionNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	require.Zero(t, store.Len())
}

func TestMemoryStoreSessions(t *testing.T) {
	store := NewMemoryStore()
	require.Empty(t, store.Sessions())
	a, b := uuid.New(), uuid.New()
	require.NoError(t, store.New(a, time.Now()))
	require.NoError(t, store.New(b, time.Now()))
	require.NoError(t, store.Set(Session{ID: b, State: StateFinished}))

	states := map[uuid.UUID]State{}
	for _, sess := range store.Sessions() {
		states[sess.ID] = sess.State
	}
	require.Equal(t, map[uuid.UUID]State{a: StateActive, b: StateFinished}, states)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("UDPXFER_TEST_REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("UDPXFER_TEST_REDIS_ADDR not set")
	}
	store, err := NewRedisStore(addr, time.Minute)
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "active", StateActive.String())
	require.Equal(t, "finished", StateFinished.String())
	require.Equal(t, "failed", StateFailed.String())
	require.Equal(t, "unknown", State(42).String())
}
