package middleware

import "github.com/labstack/echo/v4"

const userIDKey = "user_id"

// UserID returns the authenticated user id stored by Identity, or nil for
// an anonymous request.
func UserID(c echo.Context) *string {
	if s, ok := c.Get(userIDKey).(string); ok && s != "" {
		return &s
	}
	return nil
}

// userKey is the identity part of rate limit keys.
func userKey(c echo.Context) string {
	if id := UserID(c); id != nil {
		return *id
	}
	return "anon"
}
