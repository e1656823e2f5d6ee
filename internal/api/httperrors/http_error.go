package httperrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SafeMPC/signin-service/internal/types"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

// HTTPError is an error that knows how it is rendered to the client.
// Internal is logged but never sent.
type HTTPError struct {
	types.PublicHTTPError
	Internal error `json:"-"`
}

func NewHTTPError(code int, errorType string, message string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Status:  swag.Int64(int64(code)),
			Type:    swag.String(errorType),
			Message: swag.String(message),
		},
	}
}

// NewFromEcho converts one of echo's predefined errors (e.g. echo.ErrNotFound).
func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, fmt.Sprintf("%v", e.Message))
}

// Wrap returns a copy of e caused by err. The cause becomes the detail, which
// the error handler strips from 5xx responses unless configured otherwise.
func (e *HTTPError) Wrap(err error) *HTTPError {
	cp := *e
	cp.Internal = err
	cp.Detail = err.Error()
	return &cp
}

func (e *HTTPError) Code() int {
	return int(swag.Int64Value(e.Status))
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPError %d (%s): %s", e.Code(), swag.StringValue(e.Type), swag.StringValue(e.Message))
	if len(e.Detail) > 0 {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

var (
	ErrSignInFailed          = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeUpstream, "Sign-in could not be completed")
	ErrPollFailed            = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeUpstream, "Failed to poll sign-in request")
	ErrQREncodingFailed      = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeQREncodingFailed, "Failed to generate QR code")
	ErrNotFoundSignInRequest = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeGeneric, "Sign-in request not found")
)
