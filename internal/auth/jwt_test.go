package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-chars-long!!"

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() *Claims {
	now := time.Now().UTC()
	return &Claims{
		Email: "admin@menstyle.com.br",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestVerify_ValidToken(t *testing.T) {
	v := NewVerifier(testSecret)

	claims, err := v.Verify(signToken(t, testSecret, validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "admin@menstyle.com.br", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify(signToken(t, "another-secret-that-is-long-enough!", validClaims()))
	assert.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret)

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute))

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestVerify_MissingSubject(t *testing.T) {
	v := NewVerifier(testSecret)

	claims := validClaims()
	claims.Subject = ""

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify("not-a-token")
	assert.Error(t, err)
}

func TestTokenValidator_MapsClaims(t *testing.T) {
	v := NewVerifier(testSecret)

	claims, err := v.TokenValidator()(signToken(t, testSecret, validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin@menstyle.com.br", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
}
