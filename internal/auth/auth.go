// internal/auth/auth.go
//
// Account and token helpers shared by the HTTP server and the remote client.
// Responsibilities:
//   - Sign and verify HS256 JWTs carrying a user id and username.
//   - Hash and check passwords with bcrypt.
//   - Validate signup input.
//   - Extract tokens from requests and carry the caller in a context.
//
// Notes:
//   - An empty secret falls back to a development secret so local runs work
//     without configuration; production deployments must set JWT_SECRET.

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DevSecret is used when no secret is configured.
	DevSecret = "dev_secret_change_me"
	// DefaultTTL is how long issued tokens stay valid.
	DefaultTTL = 14 * 24 * time.Hour
	// CookieName carries the token for browser clients.
	CookieName = "wordlebot_token"
)

var ErrInvalidToken = errors.New("invalid token")

// User is the authenticated caller.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Signer issues and verifies tokens with a shared secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer. ttl <= 0 uses DefaultTTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if secret == "" {
		secret = DevSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign creates a token for the user and reports its expiry.
func (s *Signer) Sign(id, username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return ss, exp, nil
}

// Verify parses a token and returns the user it was issued to.
func (s *Signer) Verify(token string) (*User, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, ErrInvalidToken
	}
	return &User{ID: id, Username: username}, nil
}

// HashPassword returns a bcrypt hash (cost=10).
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NormalizeUsername trims whitespace.
func NormalizeUsername(u string) string { return strings.TrimSpace(u) }

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8-100 chars")
	}
	return nil
}

// TokenFromRequest extracts a bearer token from the Authorization header
// or the auth cookie.
func TokenFromRequest(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

type ctxUserKey struct{}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// UserFrom returns the user stored in ctx, or nil for guests.
func UserFrom(ctx context.Context) *User {
	u, _ := ctx.Value(ctxUserKey{}).(*User)
	return u
}
