package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundtrip(t *testing.T) {
	s := openTestStore(t)
	key := "https://svn.example.org/repo/trunk"

	state := State{CommitFrom: "120", BaseRevision: 118, Order: 2}
	require.NoError(t, s.Put(key, state))

	got, found, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "120", got.CommitFrom)
	assert.Equal(t, 118, got.BaseRevision)
	assert.Equal(t, 2, got.Order)
	assert.Empty(t, got.ID, "auto-discovered targets carry no ID")
}

func TestGet_Missing(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.Get("never-saved")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPut_UserAddedGetsID(t *testing.T) {
	s := openTestStore(t)
	key := "https://svn.example.org/other"

	require.NoError(t, s.Put(key, State{CommitFrom: "HEAD", UserAdded: true}))

	got, found, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEmpty(t, got.ID)

	// a second save keeps the assigned ID
	require.NoError(t, s.Put(key, got))
	again, _, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("a", State{CommitFrom: "HEAD"}))
	require.NoError(t, s.Put("b", State{CommitFrom: "42", UserAdded: true}))

	states, err := s.List()
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "HEAD", states["a"].CommitFrom)
	assert.True(t, states["b"].UserAdded)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("a", State{CommitFrom: "HEAD"}))
	require.NoError(t, s.Delete("a"))

	_, found, err := s.Get("a")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting an absent key is not an error
	assert.NoError(t, s.Delete("a"))
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("a", State{CommitFrom: "7"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, found, err := s.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "7", got.CommitFrom)
}
