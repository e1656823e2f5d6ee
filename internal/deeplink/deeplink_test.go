package deeplink_test

import (
	"bytes"
	"image"
	_ "image/png"
	"strings"
	"testing"

	"github.com/SafeMPC/signin-service/internal/deeplink"
	"github.com/gabriel-vasile/mimetype"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeQR(t *testing.T, png []byte) string {
	t.Helper()

	img, format, err := image.Decode(bytes.NewReader(png))
	require.NoError(t, err)
	require.Equal(t, "png", format)

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)

	return result.GetText()
}

func TestURL(t *testing.T) {
	link, err := deeplink.URL("abc123")
	require.NoError(t, err)
	assert.Equal(t, "farcaster://signed-key-request?token=abc123", link)

	link, err = deeplink.URL("0x5ee7b04c4e58d2dbbc34a4fe2a3c4f59f2b1a0b4c6e0cf3c")
	require.NoError(t, err)
	assert.Equal(t, "farcaster://signed-key-request?token=0x5ee7b04c4e58d2dbbc34a4fe2a3c4f59f2b1a0b4c6e0cf3c", link)
}

func TestValidateToken(t *testing.T) {
	valid := []string{"abc123", "0xdeadbeef", "a.b_c~d-e"}
	for _, token := range valid {
		assert.NoError(t, deeplink.ValidateToken(token), token)
	}

	invalid := []string{"", "a b", "a&b=c", "tok/en", "tök", "abc?x", strings.Repeat("a", 257)}
	for _, token := range invalid {
		assert.ErrorIs(t, deeplink.ValidateToken(token), deeplink.ErrInvalidToken, token)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	enc := deeplink.NewEncoder(deeplink.DefaultModuleSize)

	for _, token := range []string{"abc123", "0x5ee7b04c4e58d2dbbc34a4fe2a3c4f59f2b1a0b4c6e0cf3c"} {
		png, err := enc.PNG(token)
		require.NoError(t, err)
		require.NotEmpty(t, png)

		assert.True(t, mimetype.Detect(png).Is("image/png"))
		assert.Equal(t, "farcaster://signed-key-request?token="+token, decodeQR(t, png))
	}
}

func TestPNGModuleSize(t *testing.T) {
	small, err := deeplink.NewEncoder(2).PNG("abc123")
	require.NoError(t, err)

	large, err := deeplink.NewEncoder(6).PNG("abc123")
	require.NoError(t, err)

	smallImg, _, err := image.Decode(bytes.NewReader(small))
	require.NoError(t, err)
	largeImg, _, err := image.Decode(bytes.NewReader(large))
	require.NoError(t, err)

	assert.Equal(t, smallImg.Bounds().Dx()*3, largeImg.Bounds().Dx())

	// the default is used for non-positive sizes
	def, err := deeplink.NewEncoder(0).PNG("abc123")
	require.NoError(t, err)
	assert.Equal(t, large, def)
}

func TestPNGInvalidToken(t *testing.T) {
	png, err := deeplink.NewEncoder(deeplink.DefaultModuleSize).PNG("not a token")
	assert.ErrorIs(t, err, deeplink.ErrInvalidToken)
	assert.Nil(t, png)
}

func TestTerminal(t *testing.T) {
	out, err := deeplink.NewEncoder(deeplink.DefaultModuleSize).Terminal("abc123")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Greater(t, strings.Count(out, "\n"), 10)

	_, err = deeplink.NewEncoder(deeplink.DefaultModuleSize).Terminal("")
	assert.ErrorIs(t, err, deeplink.ErrInvalidToken)
}
