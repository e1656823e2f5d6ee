package util

import (
	"context"

	oaerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable is implemented by every payload and response type in internal/types.
type Validatable interface {
	Validate(formats strfmt.Registry) error
}

// ContextValidatable is implemented by types carrying context-dependent validation.
type ContextValidatable interface {
	ContextValidate(ctx context.Context, formats strfmt.Registry) error
}

// BindAndValidateQueryParams binds the query parameters of the request to v and validates the result.
func BindAndValidateQueryParams(c echo.Context, v Validatable) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind query params")
		return err
	}

	return validatePayload(c, v)
}

// BindAndValidatePathParams binds the path parameters of the request to v and validates the result.
func BindAndValidatePathParams(c echo.Context, v Validatable) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind path params")
		return err
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates the response payload before serializing it as JSON.
// A response failing validation is reported as an internal error, never as a 400.
func ValidateAndReturn(c echo.Context, code int, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response payload failed validation")
		return errors.Errorf("invalid response payload: %v", err)
	}

	if cv, ok := v.(ContextValidatable); ok {
		if err := cv.ContextValidate(c.Request().Context(), strfmt.Default); err != nil {
			LogFromEchoContext(c).Error().Err(err).Msg("Response payload failed context validation")
			return errors.Errorf("invalid response payload: %v", err)
		}
	}

	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Payload failed validation")
		return err
	}

	if cv, ok := v.(ContextValidatable); ok {
		if err := cv.ContextValidate(c.Request().Context(), strfmt.Default); err != nil {
			LogFromEchoContext(c).Debug().Err(err).Msg("Payload failed context validation")
			return err
		}
	}

	return nil
}

// IsValidationError reports whether err originates from go-openapi validation.
func IsValidationError(err error) bool {
	var compositeErr *oaerrors.CompositeError
	if errors.As(err, &compositeErr) {
		return true
	}

	var validationErr *oaerrors.Validation
	return errors.As(err, &validationErr)
}
