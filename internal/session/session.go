// Package session caches the provider access token in an authenticated
// cookie. The token itself is opaque here; the provider owns and rotates it.
package session

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// CookieName is the name of the session cookie.
const CookieName = "bd_session"

const cookieTTL = 24 * time.Hour

// ErrNoSession indicates the request carries no decodable session cookie.
var ErrNoSession = errors.New("no session")

// payload is what gets sealed into the cookie.
type payload struct {
	AccessToken string `json:"access_token"`
}

// Store seals and opens session cookies with gorilla/securecookie.
type Store struct {
	codec *securecookie.SecureCookie
}

// NewStore derives hash and block keys from the session secret. Both keys
// are hashed to 32 bytes so any secret length yields a valid AES key.
func NewStore(secret string) *Store {
	hashKey := sha256.Sum256([]byte("hash:" + secret))
	blockKey := sha256.Sum256([]byte("block:" + secret))
	codec := securecookie.New(hashKey[:], blockKey[:])
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &Store{codec: codec}
}

// Issue writes a cookie carrying the access token.
func (s *Store) Issue(w http.ResponseWriter, accessToken string) error {
	encoded, err := s.codec.Encode(CookieName, payload{AccessToken: accessToken})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Token extracts the access token from the request cookie.
func (s *Store) Token(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	var p payload
	if err := s.codec.Decode(CookieName, cookie.Value, &p); err != nil {
		return "", ErrNoSession
	}
	if p.AccessToken == "" {
		return "", ErrNoSession
	}
	return p.AccessToken, nil
}

// Clear expires the session cookie. Best-effort: expiring a cookie that was
// never set is not an error.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
