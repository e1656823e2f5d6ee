package types

import (
	"context"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// Types of PublicHTTPError.
const (
	PublicHTTPErrorTypeGeneric          = "generic"
	PublicHTTPErrorTypeUpstream         = "upstream"
	PublicHTTPErrorTypeQREncodingFailed = "qr_encoding_failed"
)

// PublicHTTPError is the error body of every failed request.
type PublicHTTPError struct {

	// HTTP status code
	// Required: true
	Status *int64 `json:"status"`

	// type of the error, one of the PublicHTTPErrorType constants
	// Required: true
	Type *string `json:"type"`

	// short human readable description of the error
	// Required: true
	Message *string `json:"error"`

	// more information, only set when the server is allowed to expose it
	Detail string `json:"detail,omitempty"`
}

// Validate validates this public HTTP error
func (m *PublicHTTPError) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("status", "body", m.Status); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("type", "body", m.Type); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("error", "body", m.Message); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this public HTTP error based on context it is used
func (m *PublicHTTPError) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *PublicHTTPError) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PublicHTTPError) UnmarshalBinary(b []byte) error {
	var res PublicHTTPError
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
