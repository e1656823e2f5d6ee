package common

import (
	"net/http"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/labstack/echo/v4"
)

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness: every component is wired and the request store answers.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(http.StatusServiceUnavailable, "Not ready.")
		}

		if err := s.SignIn.Ping(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
