package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGProducesDecodableImage(t *testing.T) {
	data, err := PNG("https://example.com/public/reports/TR-2024-ABC123/verify")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Width, img.Bounds().Dy())
}

func TestPNGRejectsEmptyPayload(t *testing.T) {
	_, err := PNG("")
	require.Error(t, err)
}

func TestDataURLHasPNGPrefixAndValidBase64(t *testing.T) {
	url, err := DataURL("https://example.com/v/CE-2024-XYZ789")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}
