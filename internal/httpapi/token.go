package httpapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

const tokenTTL = 12 * time.Hour

// TokenManager mints and verifies the HS256 session tokens that carry an
// admin session between requests. The session itself stays ephemeral:
// nothing about it is persisted, logout is discarding the token.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a manager signing with the given secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue returns a signed token for an authenticated admin.
func (m *TokenManager) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token and rebuilds the session it carries.
func (m *TokenManager) Parse(tokenStr string) (domain.Session, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return domain.Session{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	return domain.Session{Username: claims.Subject, IsAdmin: true}, nil
}
