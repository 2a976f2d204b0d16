package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, "posts-api", time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", "posts-api", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	m, err := NewTokenManager(testSecret, "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, m.ttl)
}

func TestIssueAndParse_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	issued, err := m.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	claims, err := m.Parse(issued.Token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "posts-api", claims.Issuer)
}

func TestIssue_ZeroUser(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Issue(0)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := m.Issue(1)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParse_WrongSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewTokenManager("a-completely-different-secret-value!!", "posts-api", time.Hour)
	require.NoError(t, err)

	issued, err := other.Issue(1)
	require.NoError(t, err)

	_, err = m.Parse(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongIssuer(t *testing.T) {
	m := newTestManager(t)
	other, err := NewTokenManager(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)

	issued, err := other.Issue(1)
	require.NoError(t, err)

	_, err = m.Parse(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsOtherSigningMethods(t *testing.T) {
	m := newTestManager(t)
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "posts-api",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsNonNumericSubject(t *testing.T) {
	m := newTestManager(t)
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "posts-api",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	m := newTestManager(t)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}
