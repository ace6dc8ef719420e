package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "crease"

var (
	ErrTokenEmpty    = errors.New("token string is empty")
	ErrSecretEmpty   = errors.New("jwt secret key is empty")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenNotValid = errors.New("token is invalid")
)

// Claims carried by a scorer access token. Role is informational; the roles
// table is the source of truth.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ValidateJWT parses an HS256 token and returns its claims.
func ValidateJWT(tokenString string, secretKey string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenEmpty
	}
	if secretKey == "" {
		return nil, ErrSecretEmpty
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%w: signature is invalid", ErrTokenNotValid)
		}
		return nil, fmt.Errorf("could not parse token: %w", err)
	}
	if !token.Valid {
		return nil, ErrTokenNotValid
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: user_id claim is missing", ErrTokenNotValid)
	}
	return claims, nil
}

// GenerateJWT mints an access token for userID valid for expiryMinutes.
func GenerateJWT(userID uint, userRole string, secretKey string, expiryMinutes int) (string, error) {
	if secretKey == "" {
		return "", ErrSecretEmpty
	}
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   userRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   fmt.Sprintf("%d", userID),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
