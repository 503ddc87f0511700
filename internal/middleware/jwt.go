package middleware // middleware holds the echo middleware shared by all routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/utils"
)

// Identity returns a middleware that reads an optional Bearer access token.
// A valid token stores its subject under "user_id" in the echo context; a
// request without an Authorization header continues anonymously; a
// malformed or invalid token is answered with 401.  With an empty secret
// the middleware does nothing, so every request is anonymous.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return next(c)
			}
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}
			sub, err := utils.ParseSubject(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
			}
			c.Set(userIDKey, sub)
			return next(c)
		}
	}
}
