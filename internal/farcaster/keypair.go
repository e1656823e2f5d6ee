package farcaster

import (
	"crypto/ed25519"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Keypair is the Ed25519 signer key handed to the client after a sign-in attempt.
// PrivateKey is the 32 byte seed; the service keeps no copy of it.
type Keypair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey []byte
}

// GenerateKeypair creates a fresh Ed25519 keypair using entropy from rand.
// A failing entropy source aborts the sign-in attempt.
func GenerateKeypair(rand io.Reader) (*Keypair, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, errors.Wrap(err, "failed to read random seed for signer key")
	}

	priv := ed25519.NewKeyFromSeed(seed)

	return &Keypair{
		PublicKey:  priv.Public().(ed25519.PublicKey),
		PrivateKey: seed,
	}, nil
}

// PublicKeyHex returns the 0x prefixed public key (64 hex chars).
func (k *Keypair) PublicKeyHex() string {
	return hexutil.Encode(k.PublicKey)
}

// PrivateKeyHex returns the 0x prefixed private key seed (64 hex chars).
func (k *Keypair) PrivateKeyHex() string {
	return hexutil.Encode(k.PrivateKey)
}
