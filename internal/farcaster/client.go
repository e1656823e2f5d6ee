package farcaster

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	createSignedKeyRequestPath = "/v2/signed-key-requests"
	getSignedKeyRequestPath    = "/v2/signed-key-request"

	// maxResponseBytes bounds how much of an upstream body is read.
	maxResponseBytes = 1 << 20
)

// Client talks to the signer api (Warpcast) that hosts signed key requests.
// Every call is a single attempt; callers decide whether to try again.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a signer api client. A zero timeout leaves the request
// bounded only by its context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithHTTPClient allows to inject a preconfigured http.Client, e.g. in tests.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  httpClient,
	}
}

// CreateSignedKeyRequest registers req with the signer api and returns the
// token and deep link the user approves it with.
func (c *Client) CreateSignedKeyRequest(ctx context.Context, req *SignedKeyRequest) (*SignedKeyRequestResult, error) {
	payload := &CreateSignedKeyRequestPayload{
		Key:        req.KeyHex(),
		Signature:  req.SignatureHex(),
		RequestFid: req.RequestFID,
		Deadline:   req.Deadline,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal signed key request")
	}

	var envelope signedKeyRequestEnvelope
	if err := c.do(ctx, "create signed key request", http.MethodPost, c.baseURL+createSignedKeyRequestPath, body, &envelope); err != nil {
		return nil, err
	}

	result, err := envelope.signedKeyRequest()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}

	if err := result.ValidateCreated(strfmt.Default); err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}

	return result, nil
}

// GetSignedKeyRequest fetches the current state of the request identified by token.
func (c *Client) GetSignedKeyRequest(ctx context.Context, token string) (*SignedKeyRequestResult, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}

	endpoint := c.baseURL + getSignedKeyRequestPath + "?" + url.Values{"token": []string{token}}.Encode()

	var envelope signedKeyRequestEnvelope
	if err := c.do(ctx, "get signed key request", http.MethodGet, endpoint, nil, &envelope); err != nil {
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.Status == http.StatusNotFound {
			return nil, errors.Wrap(ErrRequestNotFound, upstreamErr.Error())
		}
		return nil, err
	}

	result, err := envelope.signedKeyRequest()
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}

	if err := result.Validate(strfmt.Default); err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}

	if result.Token == "" {
		result.Token = token
	}

	return result, nil
}

func (c *Client) do(ctx context.Context, op string, method string, endpoint string, body []byte, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return errors.Wrap(err, "failed to create HTTP request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "failed to %s", op)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrapf(err, "failed to read %s response", op)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := &UpstreamError{Op: op, Status: resp.StatusCode}

		var apiErr apiErrorEnvelope
		if json.Unmarshal(respBody, &apiErr) == nil {
			upstreamErr.Messages = apiErr.messages()
		}

		log.Ctx(ctx).Debug().Int("status", resp.StatusCode).Str("op", op).Msg("Signer api returned non-2xx status")
		return upstreamErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(ErrMalformedResponse, errors.Wrapf(err, "failed to decode %s response", op).Error())
	}

	return nil
}
