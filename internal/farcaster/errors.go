package farcaster

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidMnemonic   = errors.New("developer mnemonic is not a valid BIP-39 phrase")
	ErrDeadlineExpired   = errors.New("key request deadline is not in the future")
	ErrUpstreamStatus    = errors.New("signer api returned a non-2xx status")
	ErrMalformedResponse = errors.New("signer api returned a malformed response")
	ErrRequestNotFound   = errors.New("signed key request not found")
)

// UpstreamError describes a non-2xx answer of the signer api.
type UpstreamError struct {
	Op       string
	Status   int
	Messages []string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: signer api responded with status %d", e.Op, e.Status)
	if len(e.Messages) > 0 {
		msg += ": " + strings.Join(e.Messages, "; ")
	}

	return msg
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamStatus
}
