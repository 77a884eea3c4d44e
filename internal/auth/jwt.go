package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the frontend (or script) that calls the API. There are no user accounts.
type Claims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for client. A ttl <= 0 issues a token without expiry.
func GenerateToken(secret, client string, ttl time.Duration) (string, error) {
	client = strings.TrimSpace(client)
	if client == "" {
		return "", errors.New("client name is required")
	}

	now := time.Now()
	claims := &Claims{
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  client,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token signed with secret.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Client == "" {
		return nil, errors.New("token has no client claim")
	}
	return claims, nil
}
