package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	pair, err := issuer.Issue("66b4c0d0a1a1a1a1a1a1a1a1", "veterinario")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := issuer.Verify(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "66b4c0d0a1a1a1a1a1a1a1a1", claims.Subject)
	assert.Equal(t, "veterinario", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, AccessTokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenIssuer_RefreshHasNoRole(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	pair, err := issuer.Issue("u1", "admin")
	require.NoError(t, err)

	claims, err := issuer.Verify(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Empty(t, claims.Role)
	assert.Equal(t, RefreshTokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenIssuer_WrongType(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	pair, err := issuer.Issue("u1", "cliente")
	require.NoError(t, err)

	_, err = issuer.Verify(pair.AccessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrTokenType)

	_, err = issuer.Verify(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenType)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := issuer.Issue("u1", "cliente")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// the refresh token lives a week and is still good
	_, err = issuer.Verify(pair.RefreshToken, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestTokenIssuer_BadSignatureAndGarbage(t *testing.T) {
	pair, err := NewTokenIssuer("secret-a").Issue("u1", "cliente")
	require.NoError(t, err)

	other := NewTokenIssuer("secret-b")
	_, err = other.Verify(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = other.Verify("not.a.token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{Type: TokenTypeAccess, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret").Verify(unsigned, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_NoSecret(t *testing.T) {
	_, err := NewTokenIssuer("").Issue("u1", "cliente")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("password123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))
	assert.NotContains(t, digest, "password123")

	assert.True(t, h.Verify("password123", digest))
	assert.False(t, h.Verify("wrong", digest))
	assert.False(t, h.Verify("password123", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("password123", ""))
}

func TestPasswordHasher_AcceptsSeededDigest(t *testing.T) {
	// $2b$ digest produced by another bcrypt implementation
	seeded := "$2b$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"
	assert.True(t, NewPasswordHasher(12).Verify("password", seeded))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost)
	assert.Equal(t, 4, NewPasswordHasher(4).Cost)
}
