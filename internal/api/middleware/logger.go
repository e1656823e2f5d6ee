package middleware

import (
	"context"
	"time"

	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LoggerConfig struct {
	Skipper           middleware.Skipper
	Level             zerolog.Level
	LogRequestHeader  bool
	LogResponseHeader bool
}

var DefaultLoggerConfig = LoggerConfig{
	Skipper: middleware.DefaultSkipper,
	Level:   zerolog.DebugLevel,
}

// LoggerWithConfig attaches a request scoped logger (carrying the request ID) to
// the request context and logs every finished request at config.Level.
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			l := log.With().Str("id", id).Logger()
			ctx := l.WithContext(context.WithValue(req.Context(), util.CTXKeyRequestID, id))
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			event := l.WithLevel(config.Level).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("duration_ms", elapsed)

			if config.LogRequestHeader {
				event = event.Interface("request_header", req.Header)
			}
			if config.LogResponseHeader {
				event = event.Interface("response_header", res.Header())
			}

			event.Msg("http_request")

			// the error was handled by c.Error above
			return nil
		}
	}
}
