package middleware

import "github.com/labstack/echo/v4"

// Context keys populated by JWTAuth.
const (
    ContextUsername = "username"
    ContextRole     = "role"
)

// Username returns the authenticated username, or "" for anonymous requests.
func Username(c echo.Context) string {
    s, _ := c.Get(ContextUsername).(string)
    return s
}

// rateSubject identifies the caller for per-user rate limit keys.
func rateSubject(c echo.Context) string {
    if u := Username(c); u != "" {
        return u
    }
    return "anon"
}
