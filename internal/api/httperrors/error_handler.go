package httperrors

import (
	"net/http"

	"github.com/SafeMPC/signin-service/internal/types"
	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type HTTPErrorHandlerConfig struct {
	HideInternalServerErrorDetails bool
}

// HTTPErrorHandler renders every error as types.PublicHTTPError, hiding details of internal errors.
func HTTPErrorHandler(err error, c echo.Context) {
	HTTPErrorHandlerWithConfig(HTTPErrorHandlerConfig{HideInternalServerErrorDetails: true})(err, c)
}

func HTTPErrorHandlerWithConfig(config HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := util.LogFromEchoContext(c)
		httpErr := toHTTPError(err, config)

		if httpErr.Code() >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", httpErr.Code()).Msg("Request failed with server error")
		} else {
			log.Debug().Err(err).Int("status", httpErr.Code()).Msg("Request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.Code())
		} else {
			err = c.JSON(httpErr.Code(), httpErr)
		}
		if err != nil {
			log.Warn().Err(err).AnErr("originalError", httpErr).Msg("Failed to handle HTTP error")
		}
	}
}

func toHTTPError(err error, config HTTPErrorHandlerConfig) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if config.HideInternalServerErrorDetails && httpErr.Code() >= http.StatusInternalServerError && httpErr.Detail != "" {
			cp := *httpErr
			cp.Detail = ""
			return &cp
		}
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		httpErr = NewFromEcho(echoErr)
		httpErr.Internal = err
		return httpErr
	}

	if util.IsValidationError(err) {
		return NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusBadRequest)).Wrap(err)
	}

	httpErr = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError)).Wrap(err)
	if config.HideInternalServerErrorDetails {
		httpErr.Detail = ""
	}

	return httpErr
}
