package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// UploadObject puts an object into a Storage bucket, overwriting any
// existing one, and returns its public URL.
func (c *Client) UploadObject(ctx context.Context, bucket, objectPath, contentType string, data []byte) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	bearer := c.anonKey
	if c.session != nil {
		bearer = c.session.AccessToken
	}
	c.mu.Unlock()

	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &APIError{Status: resp.StatusCode, Message: string(body)}
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, objectPath), nil
}
