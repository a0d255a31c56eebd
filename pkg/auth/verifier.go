package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the Supabase token claims the application relies on.
type Claims struct {
	UserID string
	Email  string
}

// Verifier validates Supabase access tokens. HS256 tokens are checked
// against the project JWT secret, RS256 tokens against the project JWKS.
type Verifier struct {
	hmacSecret string
	jwks       *jwksCache
}

// NewVerifier builds a verifier for the given project. Either mechanism may
// be absent; a token signed with the missing one fails verification.
func NewVerifier(jwksURL, hmacSecret string) *Verifier {
	v := &Verifier{hmacSecret: hmacSecret}
	if jwksURL != "" {
		v.jwks = newJWKSCache(jwksURL)
	}
	return v
}

// Verify parses and validates the token and extracts the subject claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if v.hmacSecret == "" {
				return nil, fmt.Errorf("HS256 token received but no JWT secret configured")
			}
			return []byte(v.hmacSecret), nil
		case *jwt.SigningMethodRSA:
			if v.jwks == nil {
				return nil, fmt.Errorf("RS256 token received but no JWKS URL configured")
			}
			return v.jwks.keyFunc(token)
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = fmt.Errorf("invalid token")
		}
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return &Claims{UserID: sub, Email: email}, nil
}

// jwksCache fetches and caches the project's RSA public keys, refreshing
// at most once per minute.
type jwksCache struct {
	url  string
	http *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	refreshed time.Time
}

func newJWKSCache(url string) *jwksCache {
	return &jwksCache{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
		keys: make(map[string]*rsa.PublicKey),
	}
}

func (c *jwksCache) keyFunc(token *jwt.Token) (interface{}, error) {
	kid, ok := token.Header["kid"].(string)
	if !ok {
		return nil, fmt.Errorf("kid header not found")
	}

	c.mu.RLock()
	key, exists := c.keys[kid]
	c.mu.RUnlock()
	if exists {
		return key, nil
	}

	if err := c.refresh(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	key, exists = c.keys[kid]
	c.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("key %q not found in JWKS", kid)
	}
	return key, nil
}

func (c *jwksCache) refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Rate limit refresh (1 min)
	if time.Since(c.refreshed) < time.Minute && len(c.keys) > 0 {
		return nil
	}

	resp, err := c.http.Get(c.url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var doc struct {
		Keys []struct {
			Kid string `json:"kid"`
			Kty string `json:"kty"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return err
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := decodeRSAKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}

	c.keys = keys
	c.refreshed = time.Now()
	return nil
}

func decodeRSAKey(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}

	exponent := 0
	for _, b := range eBytes {
		exponent = exponent<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: exponent}, nil
}
