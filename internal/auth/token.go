package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong issuer, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret, issuer string, ttlDays int) *TokenManager {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// Claims describes the JWT payload: subject email, display name, and one
// role claim per role the identity holds.
type Claims struct {
	Email       string        `json:"email"`
	DisplayName string        `json:"display_name"`
	Roles       []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the identity. Minting is pure
// given the identity and its role set.
func (tm *TokenManager) GenerateToken(user *domain.User, roles []domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    tm.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature, issuer, and expiry, and returns claims.
// Audience is deliberately not validated (single-audience deployment).
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS512 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithIssuer(tm.issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
