package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSession resolves the :id path parameter to a live session and
// stores it on the AppContext. Unknown ids are answered with 404.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cc := c.(*AppContext)
		s, err := cc.App.Sessions.Get(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
		}
		cc.Session = s
		return next(cc)
	}
}
