package qr

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// GetQRParams are the path parameters of GET /qr/:token.
type GetQRParams struct {

	// polling token to encode into the deep link
	// Required: true
	Token string `param:"token"`
}

// Validate validates GetQRParams
func (m *GetQRParams) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("token", "path", m.Token); err != nil {
		return errors.CompositeValidationError(err)
	}
	return nil
}
