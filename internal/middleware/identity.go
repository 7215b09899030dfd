package middleware

import "github.com/labstack/echo/v4"

const userIDKey = "user_id"

// UserID returns the authenticated user id set by JWTAuth, or "" when the
// request is anonymous.
func UserID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok {
		return s
	}
	return ""
}

// SetUserID stores id as the authenticated user of the request.
func SetUserID(c echo.Context, id string) { c.Set(userIDKey, id) }

func userOrAnon(c echo.Context) string {
	if id := UserID(c); id != "" {
		return id
	}
	return "anon"
}
