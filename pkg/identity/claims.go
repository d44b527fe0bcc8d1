package identity

import "github.com/golang-jwt/jwt/v5"

// ApplyTokenClaims fills the session's display-only IssuedAt/ExpiresAt from
// the bearer token's registered claims, when the token happens to be a JWT.
// The signature is deliberately not verified: these values are cosmetic and
// verification is the backend's job. Opaque tokens and parse failures leave
// the session untouched.
func ApplyTokenClaims(s *Session, token string) {
	if token == "" {
		return
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return
	}

	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
}
