package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	tok, exp, err := s.Sign("u1", "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	u, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "u1", Username: "alice"}, u)
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	tok, _, err := NewSigner("one", time.Hour).Sign("u1", "alice")
	require.NoError(t, err)
	_, err = NewSigner("two", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	old := NewSigner("one", time.Hour)
	old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err = old.Sign("u1", "alice")
	require.NoError(t, err)
	_, err = NewSigner("one", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewSigner("one", 0).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswords(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "correct horse"))
	assert.False(t, CheckPassword(h, "battery staple"))
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, ValidateSignup("bot_01", "longenough"))
	assert.Error(t, ValidateSignup("ab", "longenough"))
	assert.Error(t, ValidateSignup("has space", "longenough"))
	assert.Error(t, ValidateSignup("alice", "short"))
	assert.Equal(t, "alice", NormalizeUsername("  alice "))
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer  abc ")
	assert.Equal(t, "abc", TokenFromRequest(r))
}

func TestUserContext(t *testing.T) {
	assert.Nil(t, UserFrom(context.Background()))
	ctx := WithUser(context.Background(), &User{ID: "u1", Username: "alice"})
	assert.Equal(t, "alice", UserFrom(ctx).Username)
}
