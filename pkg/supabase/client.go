package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNotConfigured is returned by every remote call when the client was
// constructed without a project URL or anon key. The application keeps
// running in this degraded state instead of crashing at startup.
var ErrNotConfigured = errors.New("supabase: client not configured")

// APIError is a non-2xx answer from the Supabase REST surface.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.Status)
}

// Client talks to a Supabase project: GoTrue for identity and sessions,
// Storage for uploaded objects. Row access goes through Postgres directly
// and is not part of this client.
//
// The client is also the auth-state event source: sign-in, token refresh
// and sign-out all publish typed events to subscribers.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	store   SessionStore

	mu      sync.Mutex
	session *Session
	subs    map[int]chan AuthEvent
	nextSub int
}

// NewClient builds a client for the given project. An empty URL or key is
// tolerated: the client is returned in a degraded state where every call
// fails with ErrNotConfigured. Callers surface that once at startup.
func NewClient(projectURL, anonKey string, store SessionStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(projectURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		store:   store,
		subs:    make(map[int]chan AuthEvent),
	}
}

// Configured reports whether both required settings were supplied.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// doJSON performs one REST call. bearer overrides the anon key as the
// Authorization token when non-empty. out may be nil for empty responses.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, bearer string, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// parseAPIError extracts the human message GoTrue puts in one of several
// fields depending on the endpoint.
func parseAPIError(resp *http.Response) error {
	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	msg := "request failed"
	if m, ok := body["msg"].(string); ok {
		msg = m
	} else if m, ok := body["error_description"].(string); ok {
		msg = m
	} else if m, ok := body["message"].(string); ok {
		msg = m
	}

	return &APIError{Status: resp.StatusCode, Message: msg}
}
