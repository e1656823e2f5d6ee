package deeplink

import (
	"net/url"
	"regexp"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	// Scheme and host of the deep link the Farcaster apps register for.
	Scheme = "farcaster"
	Host   = "signed-key-request"

	DefaultModuleSize = 6
	maxTokenLength    = 256
)

var (
	ErrInvalidToken = errors.New("token contains characters outside of the deep link alphabet")
	ErrEncoding     = errors.New("failed to encode deep link as QR code")

	// unreserved URI characters only, so the token survives the deep link unescaped
	tokenPattern = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)
)

// Encoder renders polling tokens as signed key request deep links and QR codes.
// It holds no state besides its configuration and is safe for concurrent use.
type Encoder struct {
	moduleSize int
	level      qrcode.RecoveryLevel
}

// NewEncoder returns an Encoder drawing moduleSize pixels per QR module at the
// highest error correction level (H, ~30%).
func NewEncoder(moduleSize int) *Encoder {
	if moduleSize <= 0 {
		moduleSize = DefaultModuleSize
	}

	return &Encoder{
		moduleSize: moduleSize,
		level:      qrcode.Highest,
	}
}

// ValidateToken rejects tokens that cannot be embedded verbatim in the deep link.
func ValidateToken(token string) error {
	if len(token) == 0 || len(token) > maxTokenLength || !tokenPattern.MatchString(token) {
		return ErrInvalidToken
	}

	return nil
}

// URL returns farcaster://signed-key-request?token=<token>.
func URL(token string) (string, error) {
	if err := ValidateToken(token); err != nil {
		return "", err
	}

	u := url.URL{
		Scheme:   Scheme,
		Host:     Host,
		RawQuery: "token=" + token,
	}

	return u.String(), nil
}

// PNG encodes the deep link of token as a QR code PNG image.
func (e *Encoder) PNG(token string) ([]byte, error) {
	q, err := e.qr(token)
	if err != nil {
		return nil, err
	}

	// a negative size selects a fixed width per module instead of a fixed image size
	png, err := q.PNG(-e.moduleSize)
	if err != nil {
		return nil, errors.Wrap(ErrEncoding, err.Error())
	}

	return png, nil
}

// Terminal renders the deep link of token as a compact QR code made of block characters.
func (e *Encoder) Terminal(token string) (string, error) {
	q, err := e.qr(token)
	if err != nil {
		return "", err
	}

	return q.ToSmallString(false), nil
}

func (e *Encoder) qr(token string) (*qrcode.QRCode, error) {
	link, err := URL(token)
	if err != nil {
		return nil, err
	}

	q, err := qrcode.New(link, e.level)
	if err != nil {
		return nil, errors.Wrap(ErrEncoding, err.Error())
	}

	return q, nil
}
