package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Moses2004/JobX/pkg/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSessionJSON(userID string) map[string]interface{} {
	return map[string]interface{}{
		"access_token":  "at-" + userID,
		"token_type":    "bearer",
		"expires_in":    3600,
		"expires_at":    time.Now().Add(time.Hour).Unix(),
		"refresh_token": "rt-" + userID,
		"user": map[string]interface{}{
			"id":    userID,
			"email": userID + "@example.com",
		},
	}
}

func TestSignInWithPassword(t *testing.T) {
	var gotGrant, gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		gotGrant = r.URL.Query().Get("grant_type")
		gotAPIKey = r.Header.Get("apikey")
		json.NewEncoder(w).Encode(validSessionJSON("u1"))
	}))
	defer server.Close()

	store := supabase.NewMemorySessionStore()
	client := supabase.NewClient(server.URL, "anon-key", store)
	sub := client.Subscribe()
	defer sub.Cancel()

	session, err := client.SignInWithPassword(context.Background(), "u1@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "password", gotGrant)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "at-u1", session.AccessToken)
	require.NotNil(t, session.User)
	assert.Equal(t, "u1", session.User.ID)

	// The session is persisted and published.
	saved, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "at-u1", saved.AccessToken)

	select {
	case ev := <-sub.C:
		assert.Equal(t, supabase.EventSignedIn, ev.Kind)
		require.NotNil(t, ev.Session)
		assert.Equal(t, "at-u1", ev.Session.AccessToken)
	case <-time.After(time.Second):
		t.Fatal("expected a SIGNED_IN event")
	}
}

func TestSignInBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	}))
	defer server.Close()

	client := supabase.NewClient(server.URL, "anon-key", supabase.NewMemorySessionStore())

	_, err := client.SignInWithPassword(context.Background(), "u1@example.com", "wrong")

	var apiErr *supabase.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestSignUp(t *testing.T) {
	t.Run("Pending confirmation returns a user without a session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/v1/signup", r.URL.Path)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "u1@example.com", body["email"])
			assert.NotNil(t, body["data"], "metadata should ride along as data")

			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":    "u1",
				"email": "u1@example.com",
			})
		}))
		defer server.Close()

		store := supabase.NewMemorySessionStore()
		client := supabase.NewClient(server.URL, "anon-key", store)

		user, session, err := client.SignUp(context.Background(), "u1@example.com", "secret", map[string]interface{}{"name": "Alex"})

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "u1", user.ID)
		assert.Nil(t, session)

		saved, _ := store.Load()
		assert.Nil(t, saved, "no session should be persisted before confirmation")
	})

	t.Run("Auto-confirm adopts the session immediately", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(validSessionJSON("u1"))
		}))
		defer server.Close()

		store := supabase.NewMemorySessionStore()
		client := supabase.NewClient(server.URL, "anon-key", store)

		user, session, err := client.SignUp(context.Background(), "u1@example.com", "secret", nil)

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "u1", user.ID)

		saved, _ := store.Load()
		require.NotNil(t, saved)
		assert.Equal(t, "at-u1", saved.AccessToken)
	})
}

func TestSignOut(t *testing.T) {
	t.Run("Drops the session and publishes SIGNED_OUT", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/v1/logout" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			json.NewEncoder(w).Encode(validSessionJSON("u1"))
		}))
		defer server.Close()

		store := supabase.NewMemorySessionStore()
		client := supabase.NewClient(server.URL, "anon-key", store)
		_, err := client.SignInWithPassword(context.Background(), "u1@example.com", "secret")
		require.NoError(t, err)

		sub := client.Subscribe()
		defer sub.Cancel()

		require.NoError(t, client.SignOut(context.Background()))

		saved, _ := store.Load()
		assert.Nil(t, saved)

		select {
		case ev := <-sub.C:
			assert.Equal(t, supabase.EventSignedOut, ev.Kind)
			assert.Nil(t, ev.Session)
		case <-time.After(time.Second):
			t.Fatal("expected a SIGNED_OUT event")
		}
	})

	t.Run("Clears locally even when revocation is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/v1/logout" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"msg": "invalid token"})
				return
			}
			json.NewEncoder(w).Encode(validSessionJSON("u1"))
		}))
		defer server.Close()

		store := supabase.NewMemorySessionStore()
		client := supabase.NewClient(server.URL, "anon-key", store)
		_, err := client.SignInWithPassword(context.Background(), "u1@example.com", "secret")
		require.NoError(t, err)

		require.NoError(t, client.SignOut(context.Background()))

		saved, _ := store.Load()
		assert.Nil(t, saved)
	})
}

func TestSendPasswordReset(t *testing.T) {
	var gotRedirect string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/recover", r.URL.Path)
		gotRedirect = r.URL.Query().Get("redirect_to")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := supabase.NewClient(server.URL, "anon-key", supabase.NewMemorySessionStore())

	err := client.SendPasswordReset(context.Background(), "u1@example.com", "https://app.example.com/reset-password")

	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/reset-password", gotRedirect)
}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "Bearer at-u1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "u1",
			"email":         "u1@example.com",
			"user_metadata": map[string]interface{}{"name": "Alex"},
		})
	}))
	defer server.Close()

	client := supabase.NewClient(server.URL, "anon-key", supabase.NewMemorySessionStore())

	user, err := client.GetUser(context.Background(), "at-u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Alex", user.Name())
}

func TestCurrentSession(t *testing.T) {
	t.Run("Restores a valid persisted session", func(t *testing.T) {
		store := supabase.NewMemorySessionStore()
		require.NoError(t, store.Save(&supabase.Session{
			AccessToken:  "at-u1",
			RefreshToken: "rt-u1",
			ExpiresAt:    time.Now().Add(time.Hour).Unix(),
			User:         &supabase.User{ID: "u1"},
		}))
		client := supabase.NewClient("https://project.example", "anon-key", store)

		session, err := client.CurrentSession(context.Background())

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "at-u1", session.AccessToken)
	})

	t.Run("Refreshes an expired persisted session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "rt-stale", body["refresh_token"])

			json.NewEncoder(w).Encode(validSessionJSON("u1"))
		}))
		defer server.Close()

		store := supabase.NewMemorySessionStore()
		require.NoError(t, store.Save(&supabase.Session{
			AccessToken:  "at-stale",
			RefreshToken: "rt-stale",
			ExpiresAt:    time.Now().Add(-time.Hour).Unix(),
			User:         &supabase.User{ID: "u1"},
		}))
		client := supabase.NewClient(server.URL, "anon-key", store)

		session, err := client.CurrentSession(context.Background())

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "at-u1", session.AccessToken)
	})

	t.Run("Yields anonymous when the refresh is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error_description": "refresh token revoked"})
		}))
		defer server.Close()

		store := supabase.NewMemorySessionStore()
		require.NoError(t, store.Save(&supabase.Session{
			AccessToken:  "at-stale",
			RefreshToken: "rt-stale",
			ExpiresAt:    time.Now().Add(-time.Hour).Unix(),
		}))
		client := supabase.NewClient(server.URL, "anon-key", store)

		session, err := client.CurrentSession(context.Background())

		assert.NoError(t, err)
		assert.Nil(t, session)

		saved, _ := store.Load()
		assert.Nil(t, saved, "the unrecoverable session should be cleared")
	})

	t.Run("Yields anonymous with nothing persisted", func(t *testing.T) {
		client := supabase.NewClient("https://project.example", "anon-key", supabase.NewMemorySessionStore())

		session, err := client.CurrentSession(context.Background())

		assert.NoError(t, err)
		assert.Nil(t, session)
	})
}

func TestNotConfigured(t *testing.T) {
	client := supabase.NewClient("", "", supabase.NewMemorySessionStore())

	assert.False(t, client.Configured())

	_, err := client.SignInWithPassword(context.Background(), "a@b.com", "x")
	assert.ErrorIs(t, err, supabase.ErrNotConfigured)

	_, _, err = client.SignUp(context.Background(), "a@b.com", "x", nil)
	assert.ErrorIs(t, err, supabase.ErrNotConfigured)

	err = client.SendPasswordReset(context.Background(), "a@b.com", "")
	assert.ErrorIs(t, err, supabase.ErrNotConfigured)

	_, err = client.UploadObject(context.Background(), "bucket", "p.jpg", "image/jpeg", nil)
	assert.ErrorIs(t, err, supabase.ErrNotConfigured)
}

func TestUploadObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/storage/v1/object/company-logos/logos/u1.jpg", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("x-upsert"))
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := supabase.NewClient(server.URL, "anon-key", supabase.NewMemorySessionStore())

	publicURL, err := client.UploadObject(context.Background(), "company-logos", "logos/u1.jpg", "image/jpeg", []byte("jpeg-bytes"))

	require.NoError(t, err)
	assert.Equal(t, server.URL+"/storage/v1/object/public/company-logos/logos/u1.jpg", publicURL)
}
