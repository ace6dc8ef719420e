package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	tok, err := GenerateJWT(42, "scorer", "secret", 5)
	require.NoError(t, err)

	claims, err := ValidateJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "scorer", claims.Role)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestValidateJWT_Failures(t *testing.T) {
	good, err := GenerateJWT(1, "", "secret", 5)
	require.NoError(t, err)

	expired, err := GenerateJWT(1, "", "secret", -5)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateJWT("", "secret")
	assert.ErrorIs(t, err, ErrTokenEmpty)

	_, err = ValidateJWT(good, "")
	assert.ErrorIs(t, err, ErrSecretEmpty)

	_, err = ValidateJWT(good, "other")
	assert.ErrorIs(t, err, ErrTokenNotValid)

	_, err = ValidateJWT(expired, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = ValidateJWT(noUser, "secret")
	assert.ErrorIs(t, err, ErrTokenNotValid)

	_, err = ValidateJWT("not.a.token", "secret")
	assert.Error(t, err)
}
