package supabase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("super-secret-jwt-token-with-at-least-32-characters")

func signToken(t *testing.T, secret []byte, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":           "0b9a5a2e-1d9e-4c55-9a53-1f1c1e6c8f00",
		"email":         "ada@example.com",
		"aud":           "authenticated",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"iat":           time.Now().Unix(),
		"user_metadata": map[string]interface{}{"name": "Ada"},
	}
}

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	user, err := verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "0b9a5a2e-1d9e-4c55-9a53-1f1c1e6c8f00", user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.DisplayName())
	assert.NotEmpty(t, user.CreatedAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), user.ExpiresAt, 5*time.Second)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noExpiry := validClaims()
	delete(noExpiry, "exp")

	wrongAudience := validClaims()
	wrongAudience["aud"] = "anon"

	noSubject := validClaims()
	delete(noSubject, "sub")

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"wrong secret":   signToken(t, []byte("another-secret-another-secret-another"), jwt.SigningMethodHS256, validClaims()),
		"wrong method":   signToken(t, testSecret, jwt.SigningMethodHS512, validClaims()),
		"expired":        signToken(t, testSecret, jwt.SigningMethodHS256, expired),
		"no expiry":      signToken(t, testSecret, jwt.SigningMethodHS256, noExpiry),
		"wrong audience": signToken(t, testSecret, jwt.SigningMethodHS256, wrongAudience),
		"no subject":     signToken(t, testSecret, jwt.SigningMethodHS256, noSubject),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(token)
			assert.Error(t, err)
		})
	}
}

func TestUnverifiedExpiry(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	token := signToken(t, []byte("some-other-secret"), jwt.SigningMethodHS256, claims)

	assert.True(t, unverifiedExpiry(token).Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, unverifiedExpiry("opaque").IsZero())
}
