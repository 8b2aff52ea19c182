package session

import "github.com/golang-jwt/jwt/v5"

// Claims mirrors the unsigned claims the platform embeds in access
// tokens.
//
// Decoding is informational only: it decides when to ask the server for a
// fresh token. Nothing here verifies a signature and nothing downstream
// may treat these values as authorization; the server stays the sole
// authority on token validity.
type Claims struct {
	Role string `json:"role,omitempty"`

	jwt.RegisteredClaims
}

// DecodeClaims reads the unsigned claims from an access token. Malformed
// or unparseable input yields nil rather than an error.
func DecodeClaims(accessToken string) *Claims {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil
	}
	return claims
}
