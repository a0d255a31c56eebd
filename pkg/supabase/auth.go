package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// signUpResponse covers both GoTrue signup shapes: a bare user object when
// email confirmation is pending, or a full session when auto-confirm is on.
type signUpResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Metadata     map[string]interface{} `json:"user_metadata"`
	AccessToken  string                 `json:"access_token"`
	TokenType    string                 `json:"token_type"`
	ExpiresIn    int64                  `json:"expires_in"`
	ExpiresAt    int64                  `json:"expires_at"`
	RefreshToken string                 `json:"refresh_token"`
	User         *User                  `json:"user"`
}

// SignUp creates credentials for a new account. The returned session is
// nil when the project requires email confirmation first.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*User, *Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		body["data"] = metadata
	}

	var resp signUpResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/signup", nil, body, "", &resp); err != nil {
		return nil, nil, err
	}

	user := resp.User
	if user == nil {
		user = &User{ID: resp.ID, Email: resp.Email, Metadata: resp.Metadata}
	}

	if resp.AccessToken == "" {
		return user, nil, nil
	}

	session := &Session{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		ExpiresAt:    resp.ExpiresAt,
		RefreshToken: resp.RefreshToken,
		User:         user,
	}
	c.adoptSession(session, EventSignedIn)
	return user, session, nil
}

// SignInWithPassword exchanges credentials for a session. The session is
// persisted and published to subscribers; callers should treat the direct
// return value as advisory and the subscription as authoritative.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	query := url.Values{"grant_type": {"password"}}
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token", query, body, "", &session); err != nil {
		return nil, err
	}

	c.adoptSession(&session, EventSignedIn)
	return &session, nil
}

// SignOut revokes the current session and clears the persisted copy.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	bearer := ""
	if c.session != nil {
		bearer = c.session.AccessToken
	}
	c.mu.Unlock()

	if bearer != "" {
		// Revocation failure is not fatal: the local session is dropped
		// either way, matching a browser client clearing storage.
		if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, bearer, nil); err != nil {
			if _, ok := err.(*APIError); !ok {
				return err
			}
		}
	}

	c.dropSession()
	return nil
}

// SendPasswordReset asks GoTrue to mail a recovery link. The redirect
// target must be a query parameter on the recover endpoint.
func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	body := map[string]interface{}{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/auth/v1/recover", query, body, "", nil)
}

// GetUser fetches the identity record behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/v1/user", nil, nil, accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshSession trades a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	query := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]interface{}{"refresh_token": refreshToken}

	var session Session
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token", query, body, "", &session); err != nil {
		return nil, err
	}

	c.adoptSession(&session, EventTokenRefreshed)
	return &session, nil
}

// CurrentSession restores the persisted session, refreshing it when stale.
// A missing or unrecoverable session yields (nil, nil): the caller starts
// anonymous rather than failing.
func (c *Client) CurrentSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if c.session != nil && !c.session.Expired() {
		session := c.session
		c.mu.Unlock()
		return session, nil
	}
	c.mu.Unlock()

	if c.store == nil {
		return nil, nil
	}
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired() {
		refreshed, err := c.RefreshSession(ctx, session.RefreshToken)
		if err != nil {
			_ = c.store.Clear()
			return nil, nil
		}
		return refreshed, nil
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return session, nil
}

// StartAutoRefresh renews the session ahead of expiry until ctx is done,
// publishing TOKEN_REFRESHED on success. A failed renewal is an external
// invalidation and is published as SIGNED_OUT.
func (c *Client) StartAutoRefresh(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			c.mu.Lock()
			session := c.session
			c.mu.Unlock()
			if session == nil || !session.ExpiresWithin(time.Minute) {
				continue
			}

			if _, err := c.RefreshSession(ctx, session.RefreshToken); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.dropSession()
			}
		}
	}()
}

// adoptSession installs a new session, persists it and notifies subscribers.
func (c *Client) adoptSession(session *Session, kind EventKind) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.Save(session)
	}
	c.emit(AuthEvent{Kind: kind, Session: session})
}

// dropSession clears local and persisted state and notifies subscribers.
func (c *Client) dropSession() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.Clear()
	}
	c.emit(AuthEvent{Kind: EventSignedOut, Session: nil})
}
