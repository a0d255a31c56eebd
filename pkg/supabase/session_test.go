package supabase_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Moses2004/JobX/pkg/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionStore(t *testing.T) {
	t.Run("Round-trips a session", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		store := supabase.NewFileSessionStore(path)

		session := &supabase.Session{
			AccessToken:  "at",
			RefreshToken: "rt",
			ExpiresAt:    time.Now().Add(time.Hour).Unix(),
			User:         &supabase.User{ID: "u1", Email: "a@b.com"},
		}
		require.NoError(t, store.Save(session))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "at", loaded.AccessToken)
		assert.Equal(t, "u1", loaded.User.ID)
	})

	t.Run("Missing file means no session", func(t *testing.T) {
		store := supabase.NewFileSessionStore(filepath.Join(t.TempDir(), "absent.json"))

		loaded, err := store.Load()
		assert.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Corrupt file means no session", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		store := supabase.NewFileSessionStore(path)

		loaded, err := store.Load()
		assert.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Clear removes the file and tolerates absence", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		store := supabase.NewFileSessionStore(path)
		require.NoError(t, store.Save(&supabase.Session{AccessToken: "at"}))

		require.NoError(t, store.Clear())
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, store.Clear())
	})
}

func TestSessionExpiry(t *testing.T) {
	fresh := &supabase.Session{ExpiresAt: time.Now().Add(time.Hour).Unix()}
	stale := &supabase.Session{ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	unset := &supabase.Session{}

	assert.False(t, fresh.Expired())
	assert.True(t, stale.Expired())
	assert.False(t, unset.Expired(), "a session without expiry never expires")

	assert.True(t, fresh.ExpiresWithin(2*time.Hour))
	assert.False(t, fresh.ExpiresWithin(time.Minute))
}

func TestSubscribe(t *testing.T) {
	client := supabase.NewClient("", "", nil)

	sub := client.Subscribe()
	sub.Cancel()

	_, open := <-sub.C
	assert.False(t, open, "cancelling should close the channel")
	assert.NotPanics(t, sub.Cancel, "cancel is idempotent")
}
