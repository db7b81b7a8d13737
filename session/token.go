package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ExpiryFromToken reads the exp claim from a JWT-style token (three
// dot-separated base64url segments) without verifying the signature. The
// client never holds the backend's signing keys; it only needs the expiry
// to schedule its local logout.
//
// Any malformed shape — wrong segment count, undecodable payload, missing
// or non-numeric exp — yields ok == false. Nothing escapes this boundary.
func ExpiryFromToken(token string) (expiresAt time.Time, ok bool) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(token, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	claims, claimsOK := parsed.Claims.(jwtlib.MapClaims)
	if !claimsOK {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
