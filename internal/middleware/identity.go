package middleware

// identity.go holds the caller-identity helper shared by the rate limiter
// and the cache key builder.  Identity here is opaque: the value comes from
// the token's subject claim and is only used for keying, never resolved
// against a profile store.

import (
	"github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated caller's identifier from the
// Echo context populated by JWTAuth.  Unauthenticated requests (the public
// availability and callback routes) resolve to "anon".
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if v := c.Get("userID"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
