package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims decodes a JWT's payload without verifying the signature; the
// backend is the one that verifies. ok is false for opaque tokens.
func Claims(token string) (claims jwt.MapClaims, ok bool) {
	claims = jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Expiry returns the token's exp claim, or the fallback derived from an
// expires_in value (seconds) when the token is opaque.
func Expiry(token string, expiresIn int64, now time.Time) *time.Time {
	if claims, ok := Claims(token); ok {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			t := exp.Time
			return &t
		}
	}
	if expiresIn > 0 {
		t := now.Add(time.Duration(expiresIn) * time.Second)
		return &t
	}
	return nil
}
