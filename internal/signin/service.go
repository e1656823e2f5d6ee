package signin

import (
	"context"
	"io"

	"github.com/SafeMPC/signin-service/internal/farcaster"
	"github.com/SafeMPC/signin-service/internal/metrics"
	"github.com/SafeMPC/signin-service/internal/signin/store"
	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
)

// StatusPendingApproval is the status of a freshly registered request.
const StatusPendingApproval = "pending_approval"

// Metric labels of sign-in attempts.
const (
	resultSuccess        = "success"
	resultKeypairFailed  = "keypair_failed"
	resultSignFailed     = "sign_failed"
	resultRegisterFailed = "register_failed"
)

// SignerAPI is the part of the signer api the sign-in flow depends on.
type SignerAPI interface {
	CreateSignedKeyRequest(ctx context.Context, req *farcaster.SignedKeyRequest) (*farcaster.SignedKeyRequestResult, error)
	GetSignedKeyRequest(ctx context.Context, token string) (*farcaster.SignedKeyRequestResult, error)
}

// PendingRequest is the outcome of a successful sign-in attempt. PrivateKey is
// handed to the caller and not retained.
type PendingRequest struct {
	Token         string
	DeepLinkURL   string
	PublicKey     string
	PrivateKey    string
	Status        string
	RequestFID    uint64
	RequestSigner string
	Deadline      int64
}

// PollResult is the remote state of a signed key request at the time of polling.
type PollResult struct {
	State   string
	UserFID *int64
}

// Service runs the delegated sign-in flow. It keeps no per-request state
// besides the optional store and is safe for concurrent use.
type Service struct {
	signer  *farcaster.KeyRequestSigner
	api     SignerAPI
	store   store.Store
	metrics *metrics.Service
	rand    io.Reader
	clock   time2.Clock
}

func NewService(signer *farcaster.KeyRequestSigner, api SignerAPI, st store.Store, m *metrics.Service, rand io.Reader, clock time2.Clock) *Service {
	if st == nil {
		st = store.Noop{}
	}
	if clock == nil {
		clock = time2.DefaultClock
	}

	return &Service{
		signer:  signer,
		api:     api,
		store:   st,
		metrics: m,
		rand:    rand,
		clock:   clock,
	}
}

// SignIn generates a signer keypair, authorizes it with the developer account
// and registers the authorization with the signer api. Nothing is kept when any
// step fails.
func (s *Service) SignIn(ctx context.Context) (*PendingRequest, error) {
	log := util.LogFromContext(ctx)

	kp, err := farcaster.GenerateKeypair(s.rand)
	if err != nil {
		s.metrics.SignInAttempt(resultKeypairFailed)
		return nil, errors.Wrap(err, "failed to generate signer keypair")
	}

	signed, err := s.signer.Authorize(kp.PublicKey)
	if err != nil {
		s.metrics.SignInAttempt(resultSignFailed)
		return nil, errors.Wrap(err, "failed to sign key request")
	}

	recovered, err := farcaster.RecoverKeyRequestSigner(signed.KeyRequestMessage, signed.Signature)
	if err != nil || recovered != signed.RequestSigner {
		s.metrics.SignInAttempt(resultSignFailed)
		return nil, errors.Errorf("key request signature does not recover to %s", signed.RequestSigner.Hex())
	}

	result, err := s.api.CreateSignedKeyRequest(ctx, signed)
	if err != nil {
		s.metrics.SignInAttempt(resultRegisterFailed)
		return nil, errors.Wrap(err, "failed to register signed key request")
	}

	pending := &PendingRequest{
		Token:         result.Token,
		DeepLinkURL:   result.DeeplinkURL,
		PublicKey:     kp.PublicKeyHex(),
		PrivateKey:    kp.PrivateKeyHex(),
		Status:        StatusPendingApproval,
		RequestFID:    signed.RequestFID,
		RequestSigner: signed.RequestSigner.Hex(),
		Deadline:      signed.Deadline,
	}

	now := s.clock.Now()
	rec := &store.Record{
		Token:         pending.Token,
		DeepLinkURL:   pending.DeepLinkURL,
		PublicKey:     pending.PublicKey,
		RequestFID:    pending.RequestFID,
		RequestSigner: pending.RequestSigner,
		Deadline:      pending.Deadline,
		State:         pending.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		// the request exists upstream, so the caller can still complete the flow
		log.Warn().Err(err).Str("token", pending.Token).Msg("Failed to record sign-in request")
	}

	s.metrics.SignInAttempt(resultSuccess)
	log.Info().
		Str("token", pending.Token).
		Str("publicKey", pending.PublicKey).
		Uint64("requestFid", pending.RequestFID).
		Int64("deadline", pending.Deadline).
		Msg("Signed key request registered")

	return pending, nil
}

// Poll asks the signer api for the current state of token. A token the api
// does not know yields state "unknown" instead of an error.
func (s *Service) Poll(ctx context.Context, token string) (*PollResult, error) {
	log := util.LogFromContext(ctx)

	result, err := s.api.GetSignedKeyRequest(ctx, token)
	if err != nil {
		if errors.Is(err, farcaster.ErrRequestNotFound) {
			s.metrics.Poll(farcaster.StateUnknown, true)
			return &PollResult{State: farcaster.StateUnknown}, nil
		}
		s.metrics.Poll("error", true)
		return nil, errors.Wrap(err, "failed to poll signed key request")
	}

	known := farcaster.IsKnownState(result.State)
	if !known {
		log.Warn().Str("token", token).Str("state", result.State).Msg("Signer api reported an unrecognized state")
	}
	s.metrics.Poll(result.State, known)

	if err := s.store.UpdateState(ctx, token, result.State, result.UserFid); err != nil {
		log.Warn().Err(err).Str("token", token).Msg("Failed to record polled state")
	}

	return &PollResult{
		State:   result.State,
		UserFID: result.UserFid,
	}, nil
}

// Lookup returns the stored record of token, store.ErrNotFound if none exists.
func (s *Service) Lookup(ctx context.Context, token string) (*store.Record, error) {
	return s.store.Get(ctx, token)
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close releases the backing store.
func (s *Service) Close() error {
	return s.store.Close()
}
