package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

const tokenIssuer = "quote-generator"

// cookieClaims is the signed cookie payload. Subject is the session ID.
type cookieClaims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session cookie values.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for sessionID and the time it expires.
func (c *TokenCodec) Issue(sessionID string) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.ttl)

	claims := cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse verifies a token and returns the session ID it carries. Any
// tampered, expired, or foreign token is an UnauthenticatedError.
func (c *TokenCodec) Parse(token string) (string, error) {
	claims := &cookieClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", domain.NewUnauthenticatedError(err.Error())
	}

	if !parsed.Valid || claims.Subject == "" {
		return "", domain.NewUnauthenticatedError("invalid session token")
	}

	return claims.Subject, nil
}
