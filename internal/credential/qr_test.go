package credential

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderQR(t *testing.T) {
	png, err := RenderQR("some-signed-token", 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderQRDefaultSize(t *testing.T) {
	png, err := RenderQR("some-signed-token", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}
