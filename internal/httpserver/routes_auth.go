// internal/httpserver/routes_auth.go
//
// Account endpoints:
//   - POST /auth/signup → create account, issue token (body + cookie)
//   - POST /auth/login  → verify password, issue token
//   - POST /auth/logout → clear cookie
//   - GET  /auth/me     → current caller (requires auth)
//
// Accounts only own runs; playing and solving work for guests too.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/auth"
	"github.com/robalobadob/wordlebot/internal/store"
)

// credentials is the request payload for signup/login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenRes is returned by signup/login.
type tokenRes struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) mountAuth(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(requireAuth).Get("/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, auth.UserFrom(r.Context()))
		})
	})
}

// handleSignup creates a new account and signs a token.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	username := auth.NormalizeUsername(body.Username)
	if err := auth.ValidateSignup(username, body.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash_failed")
		return
	}
	u, err := s.cfg.Store.CreateUser(r.Context(), username, hash)
	if errors.Is(err, store.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "Username taken")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	s.issueToken(w, u)
}

// handleLogin authenticates the user and signs a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.cfg.Store.UserByName(r.Context(), auth.NormalizeUsername(body.Username))
	if err != nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	s.issueToken(w, u)
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setAuthCookie(w, "", time.Time{})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) issueToken(w http.ResponseWriter, u *store.User) {
	tok, exp, err := s.cfg.Signer.Sign(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, tokenRes{ID: u.ID, Username: u.Username, Token: tok, ExpiresAt: exp})
}

// setAuthCookie writes the token cookie; an empty token deletes it.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.cfg.SecureCookies
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	c := &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	}
	if token == "" {
		c.Expires, c.MaxAge = time.Time{}, -1
	}
	http.SetCookie(w, c)
}
