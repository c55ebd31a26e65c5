package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, exp, err := m.GenerateAccessToken("u-1", "admin@lib.test", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@lib.test", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := NewManager("one", time.Hour).GenerateAccessToken("u-1", "a@b.c", "anggota")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).ValidateAccessToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("s", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.GenerateAccessToken("u-1", "a@b.c", "petugas")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateRejectsOtherAlgorithm(t *testing.T) {
	claims := Claims{UserID: "u-1", Role: "admin", Type: tokenTypeAccess}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("s", time.Hour).ValidateAccessToken(signed)
	assert.Error(t, err)
}

func TestValidateRejectsNonAccessType(t *testing.T) {
	m := NewManager("s", time.Hour)
	claims := Claims{
		UserID: "u-1",
		Role:   "admin",
		Type:   "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(signed)
	assert.ErrorContains(t, err, "expected access")
}
