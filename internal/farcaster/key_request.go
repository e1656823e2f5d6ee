package farcaster

import (
	"math/big"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

// EIP-712 domain of the SignedKeyRequestValidator contract on OP mainnet.
const (
	KeyRequestDomainName              = "Farcaster SignedKeyRequestValidator"
	KeyRequestDomainVersion           = "1"
	KeyRequestDomainChainID           = 10
	KeyRequestDomainVerifyingContract = "0x00000000fc700472606ed4fa22623acf62c60553"

	keyRequestPrimaryType = "SignedKeyRequest"

	// KeyRequestValidity is added to the issuance time to compute the deadline.
	KeyRequestValidity = 86400 * time.Second
)

var keyRequestTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	keyRequestPrimaryType: {
		{Name: "requestFid", Type: "uint256"},
		{Name: "key", Type: "bytes"},
		{Name: "deadline", Type: "uint256"},
	},
}

// KeyRequestMessage authorizes Key to act as a signer requested by RequestFID until Deadline.
type KeyRequestMessage struct {
	RequestFID uint64
	Key        []byte
	Deadline   int64
}

// SignedKeyRequest is a KeyRequestMessage signed by the developer account.
type SignedKeyRequest struct {
	KeyRequestMessage
	Signature     []byte
	RequestSigner common.Address
}

// SignatureHex returns the 0x prefixed 65 byte signature.
func (s *SignedKeyRequest) SignatureHex() string {
	return hexutil.Encode(s.Signature)
}

// KeyHex returns the 0x prefixed requested signer key.
func (s *SignedKeyRequest) KeyHex() string {
	return hexutil.Encode(s.Key)
}

// KeyRequestSigner builds and signs key request messages for a single app FID.
// It is immutable after construction and safe for concurrent use.
type KeyRequestSigner struct {
	requestFID uint64
	account    *DeveloperAccount
	clock      time2.Clock
	validity   time.Duration
}

func NewKeyRequestSigner(requestFID uint64, account *DeveloperAccount, clock time2.Clock) *KeyRequestSigner {
	if clock == nil {
		clock = time2.DefaultClock
	}

	return &KeyRequestSigner{
		requestFID: requestFID,
		account:    account,
		clock:      clock,
		validity:   KeyRequestValidity,
	}
}

// RequestFID returns the app FID the signer authorizes keys for.
func (s *KeyRequestSigner) RequestFID() uint64 {
	return s.requestFID
}

// Address returns the developer account address (requestSigner).
func (s *KeyRequestSigner) Address() common.Address {
	return s.account.Address()
}

// NewMessage builds the message for key, expiring one validity window from now.
func (s *KeyRequestSigner) NewMessage(key []byte) KeyRequestMessage {
	return KeyRequestMessage{
		RequestFID: s.requestFID,
		Key:        key,
		Deadline:   s.clock.Now().Add(s.validity).Unix(),
	}
}

// Sign signs msg with the developer account. The deadline has to lie strictly in the future.
func (s *KeyRequestSigner) Sign(msg KeyRequestMessage) (*SignedKeyRequest, error) {
	if msg.Deadline <= s.clock.Now().Unix() {
		return nil, ErrDeadlineExpired
	}
	if len(msg.Key) == 0 {
		return nil, errors.New("key request without key")
	}

	hash, err := KeyRequestHash(msg)
	if err != nil {
		return nil, err
	}

	sig, err := s.account.SignHash(hash)
	if err != nil {
		return nil, err
	}

	return &SignedKeyRequest{
		KeyRequestMessage: msg,
		Signature:         sig,
		RequestSigner:     s.account.Address(),
	}, nil
}

// Authorize is NewMessage followed by Sign.
func (s *KeyRequestSigner) Authorize(key []byte) (*SignedKeyRequest, error) {
	return s.Sign(s.NewMessage(key))
}

// KeyRequestTypedData returns the EIP-712 typed data for msg under the validator domain.
func KeyRequestTypedData(msg KeyRequestMessage) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       keyRequestTypes,
		PrimaryType: keyRequestPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              KeyRequestDomainName,
			Version:           KeyRequestDomainVersion,
			ChainId:           math.NewHexOrDecimal256(KeyRequestDomainChainID),
			VerifyingContract: KeyRequestDomainVerifyingContract,
		},
		Message: apitypes.TypedDataMessage{
			"requestFid": new(big.Int).SetUint64(msg.RequestFID),
			"key":        hexutil.Bytes(msg.Key),
			"deadline":   big.NewInt(msg.Deadline),
		},
	}
}

// KeyRequestHash returns the EIP-712 digest ("\x19\x01" || domainSeparator || structHash) of msg.
func KeyRequestHash(msg KeyRequestMessage) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(KeyRequestTypedData(msg))
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash key request typed data")
	}

	return hash, nil
}

// RecoverKeyRequestSigner returns the address that produced sig over msg.
func RecoverKeyRequestSigner(msg KeyRequestMessage, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, errors.Errorf("invalid signature length %d", len(sig))
	}

	hash, err := KeyRequestHash(msg)
	if err != nil {
		return common.Address{}, err
	}

	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to recover key request signer")
	}

	return crypto.PubkeyToAddress(*pub), nil
}
