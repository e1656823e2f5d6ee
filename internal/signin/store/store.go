// Package store keeps an optional record of issued signed key requests.
//
// The approval state is owned by the signer api; a record only mirrors what
// this service issued and last observed. Private keys are never stored.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("sign-in request not found")

// Record is the stored view of a sign-in request, keyed by its polling token.
type Record struct {
	Token         string    `json:"token"`
	DeepLinkURL   string    `json:"deepLinkUrl"`
	PublicKey     string    `json:"publicKey"`
	RequestFID    uint64    `json:"requestFid"`
	RequestSigner string    `json:"requestSigner"`
	Deadline      int64     `json:"deadline"`
	State         string    `json:"state"`
	UserFID       *int64    `json:"userFid,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Store interface {
	// Save stores rec, replacing any record with the same token.
	Save(ctx context.Context, rec *Record) error
	// Get returns the record for token or ErrNotFound.
	Get(ctx context.Context, token string) (*Record, error)
	// UpdateState records the last observed remote state. Unknown tokens are ignored.
	UpdateState(ctx context.Context, token string, state string, userFID *int64) error
	Ping(ctx context.Context) error
	Close() error
}

// Noop is the default store: the service stays stateless.
type Noop struct{}

var _ Store = Noop{}

func (Noop) Save(context.Context, *Record) error { return nil }

func (Noop) Get(context.Context, string) (*Record, error) { return nil, ErrNotFound }

func (Noop) UpdateState(context.Context, string, string, *int64) error { return nil }

func (Noop) Ping(context.Context) error { return nil }

func (Noop) Close() error { return nil }
