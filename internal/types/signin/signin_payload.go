package signin

import (
	"context"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const hexKeyPattern = `^0x[0-9a-f]{64}$`

// PostSignInResponse is returned by POST /sign-in.
type PostSignInResponse struct {

	// deep link the user opens to approve the signer
	// Required: true
	DeepLinkURL *string `json:"deepLinkUrl"`

	// token to poll the request state with
	// Required: true
	PollingToken *string `json:"pollingToken"`

	// ed25519 public key of the new signer, 0x prefixed hex
	// Required: true
	// Pattern: ^0x[0-9a-f]{64}$
	PublicKey *string `json:"publicKey"`

	// ed25519 private key seed of the new signer, 0x prefixed hex
	// Required: true
	// Pattern: ^0x[0-9a-f]{64}$
	PrivateKey *string `json:"privateKey"`

	// status of the request, always pending_approval
	Status string `json:"status,omitempty"`

	// FID of the developer account requesting the signer
	RequestFid int64 `json:"requestFid,omitempty"`

	// address that signed the key request
	RequestSigner string `json:"requestSigner,omitempty"`

	// unix timestamp after which the request can no longer be approved
	Deadline int64 `json:"deadline,omitempty"`
}

// Validate validates this post sign in response
func (m *PostSignInResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("deepLinkUrl", "body", m.DeepLinkURL); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("pollingToken", "body", m.PollingToken); err != nil {
		res = append(res, err)
	} else if err := validate.MinLength("pollingToken", "body", *m.PollingToken, 1); err != nil {
		res = append(res, err)
	}

	if err := validateHexKey("publicKey", m.PublicKey); err != nil {
		res = append(res, err)
	}

	if err := validateHexKey("privateKey", m.PrivateKey); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func validateHexKey(name string, v *string) error {
	if err := validate.Required(name, "body", v); err != nil {
		return err
	}

	if err := validate.Pattern(name, "body", *v, hexKeyPattern); err != nil {
		return err
	}

	return nil
}

// ContextValidate validates this post sign in response based on context it is used
func (m *PostSignInResponse) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *PostSignInResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PostSignInResponse) UnmarshalBinary(b []byte) error {
	var res PostSignInResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

// GetPollParams are the query parameters of GET /sign-in/poll.
type GetPollParams struct {

	// polling token returned by POST /sign-in
	// Required: true
	Token string `query:"token"`
}

// Validate validates GetPollParams
func (m *GetPollParams) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("token", "query", m.Token); err != nil {
		return errors.CompositeValidationError(err)
	}
	return nil
}

// GetPollResponse is returned by GET /sign-in/poll.
type GetPollResponse struct {

	// state reported by the signer api
	// Required: true
	State *string `json:"state"`

	// FID of the user that approved the signer, as reported by the signer api
	UserFid *int64 `json:"userFid,omitempty"`
}

// Validate validates this get poll response
func (m *GetPollResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("state", "body", m.State); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this get poll response based on context it is used
func (m *GetPollResponse) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// GetSignInRequestParams are the path parameters of GET /sign-in/requests/:token.
type GetSignInRequestParams struct {

	// Required: true
	Token string `param:"token"`
}

// Validate validates GetSignInRequestParams
func (m *GetSignInRequestParams) Validate(formats strfmt.Registry) error {
	if err := validate.RequiredString("token", "path", m.Token); err != nil {
		return errors.CompositeValidationError(err)
	}
	return nil
}

// SignInRequestResponse is a stored sign-in request. It never carries the private key.
type SignInRequestResponse struct {

	// Required: true
	Token *string `json:"token"`

	// Required: true
	DeepLinkURL *string `json:"deepLinkUrl"`

	// Required: true
	PublicKey *string `json:"publicKey"`

	RequestFid int64 `json:"requestFid,omitempty"`

	RequestSigner string `json:"requestSigner,omitempty"`

	Deadline int64 `json:"deadline,omitempty"`

	// last observed state
	// Required: true
	State *string `json:"state"`

	UserFid *int64 `json:"userFid,omitempty"`

	// Format: date-time
	CreatedAt strfmt.DateTime `json:"createdAt,omitempty"`

	// Format: date-time
	UpdatedAt strfmt.DateTime `json:"updatedAt,omitempty"`
}

// Validate validates this sign in request response
func (m *SignInRequestResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("token", "body", m.Token); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("deepLinkUrl", "body", m.DeepLinkURL); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("publicKey", "body", m.PublicKey); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("state", "body", m.State); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this sign in request response based on context it is used
func (m *SignInRequestResponse) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}
