package farcaster

import (
	"context"
	"net/url"

	oaerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// Remote states of a signed key request. The set is owned by the signer api;
// values outside it are passed through untouched.
const (
	StatePending   = "pending"
	StateApproved  = "approved"
	StateCompleted = "completed"
	StateExpired   = "expired"
	StateUnknown   = "unknown"
)

// IsTerminalState reports whether state will not change anymore from this
// service's point of view. Only pending requests may still move.
func IsTerminalState(state string) bool {
	return state != StatePending
}

// IsApprovedState reports whether the user approved the signer.
func IsApprovedState(state string) bool {
	return state == StateCompleted || state == StateApproved
}

// IsKnownState reports whether state is one of the documented remote states.
func IsKnownState(state string) bool {
	switch state {
	case StatePending, StateApproved, StateCompleted, StateExpired:
		return true
	}

	return false
}

// CreateSignedKeyRequestPayload is the body of POST /v2/signed-key-requests.
type CreateSignedKeyRequestPayload struct {
	Key        string `json:"key"`
	Signature  string `json:"signature"`
	RequestFid uint64 `json:"requestFid"`
	Deadline   int64  `json:"deadline"`
}

// SignedKeyRequestResult is the signedKeyRequest object shared by both endpoints.
// Which fields are required depends on the operation, see ValidateCreated and Validate.
type SignedKeyRequestResult struct {
	Token       string `json:"token"`
	DeeplinkURL string `json:"deeplinkUrl"`
	Key         string `json:"key,omitempty"`
	RequestFid  *int64 `json:"requestFid,omitempty"`
	State       string `json:"state"`
	UserFid     *int64 `json:"userFid,omitempty"`
	IsSponsored bool   `json:"isSponsored,omitempty"`
}

// Validate validates the fields of a polled signed key request.
func (m *SignedKeyRequestResult) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("result.signedKeyRequest.state", "body", m.State); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return oaerrors.CompositeValidationError(res...)
	}
	return nil
}

// ValidateCreated validates the fields of a freshly registered signed key request.
func (m *SignedKeyRequestResult) ValidateCreated(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("result.signedKeyRequest.token", "body", m.Token); err != nil {
		res = append(res, err)
	}

	if err := validate.RequiredString("result.signedKeyRequest.deeplinkUrl", "body", m.DeeplinkURL); err != nil {
		res = append(res, err)
	} else if u, err := url.Parse(m.DeeplinkURL); err != nil || u.Scheme == "" {
		res = append(res, oaerrors.InvalidType("result.signedKeyRequest.deeplinkUrl", "body", "uri", m.DeeplinkURL))
	}

	if len(res) > 0 {
		return oaerrors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this result based on context it is used
func (m *SignedKeyRequestResult) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// signedKeyRequestEnvelope is the {result: {signedKeyRequest: {...}}} wrapper of both endpoints.
type signedKeyRequestEnvelope struct {
	Result *struct {
		SignedKeyRequest *SignedKeyRequestResult `json:"signedKeyRequest"`
	} `json:"result"`
}

func (e *signedKeyRequestEnvelope) signedKeyRequest() (*SignedKeyRequestResult, error) {
	if e.Result == nil {
		return nil, oaerrors.Required("result", "body", nil)
	}
	if e.Result.SignedKeyRequest == nil {
		return nil, oaerrors.Required("result.signedKeyRequest", "body", nil)
	}

	return e.Result.SignedKeyRequest, nil
}

// apiErrorEnvelope is the error body of the signer api: {"errors": [{"message": "..."}]}.
type apiErrorEnvelope struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *apiErrorEnvelope) messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		if apiErr.Message != "" {
			msgs = append(msgs, apiErr.Message)
		}
	}

	return msgs
}
