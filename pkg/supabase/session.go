package supabase

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"
)

// User is the identity record issued by GoTrue. Read-only from the
// application's perspective.
type User struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Metadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// Name returns the display name from the signup metadata, if present.
func (u *User) Name() string {
	if u == nil || u.Metadata == nil {
		return ""
	}
	name, _ := u.Metadata["name"].(string)
	return name
}

// Session is the credential bundle proving an authenticated identity.
// Replaced wholesale on every auth-state event, destroyed on sign-out.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Expired reports whether the access token is past its expiry.
func (s *Session) Expired() bool {
	return s.ExpiresAt != 0 && time.Now().Unix() >= s.ExpiresAt
}

// ExpiresWithin reports whether the access token expires inside d.
func (s *Session) ExpiresWithin(d time.Duration) bool {
	return s.ExpiresAt != 0 && time.Now().Add(d).Unix() >= s.ExpiresAt
}

// EventKind names an auth-state transition, mirroring the GoTrue client
// event vocabulary.
type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
	EventSignedOut      EventKind = "SIGNED_OUT"
)

// AuthEvent is delivered to subscribers on every session transition.
// Session is nil exactly when the transition ends in a signed-out state.
type AuthEvent struct {
	Kind    EventKind
	Session *Session
}

// Subscription is a handle on the auth-state event stream. Cancel releases
// it; calling Cancel more than once is safe.
type Subscription struct {
	C      <-chan AuthEvent
	cancel func()
	once   sync.Once
}

// Cancel detaches the subscription and closes its channel.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Subscribe registers a listener for auth-state events. Events are emitted
// in the order the client observes them.
func (c *Client) Subscribe() *Subscription {
	ch := make(chan AuthEvent, 16)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	return &Subscription{
		C: ch,
		cancel: func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		},
	}
}

// emit publishes an event to every subscriber. A subscriber that has fallen
// 16 events behind loses the oldest delivery rather than blocking the
// auth path.
func (c *Client) emit(ev AuthEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// SessionStore persists the session between runs, the way a browser client
// keeps it in local storage.
type SessionStore interface {
	Load() (*Session, error)
	Save(session *Session) error
	Clear() error
}

// FileSessionStore keeps the session as a JSON file on disk.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Load() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt session file is equivalent to no session.
		return nil, nil
	}
	return &session, nil
}

func (s *FileSessionStore) Save(session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileSessionStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemorySessionStore is an in-process store used when no session file is
// configured, and by tests.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *MemorySessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
