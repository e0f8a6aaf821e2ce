package store

import (
	"bytes"
	"testing"

	"git.handmade.network/hmn/pngkit/src/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "unnamed", SanitizeFilename(""))
	assert.Equal(t, "screenshot-2.png", SanitizeFilename("screenshot-2.png"))
	assert.Equal(t, "my_cool_file_.png", SanitizeFilename("my cool file?.png"))
	assert.Equal(t, "_____.png", SanitizeFilename("/../:*.png"))
}

func TestAssetKey(t *testing.T) {
	assert.Equal(t, "some-id/file.png", AssetKey("some-id", "file.png"))
}

func buildPNG(t *testing.T, h png.Header, r *png.Raster) []byte {
	t.Helper()
	idat, err := png.EncodePixels(r, png.FilterNone)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, png.WriteChunks(&buf, png.ImageChunks(h, idat)))
	return buf.Bytes()
}

func TestMakeThumbnail(t *testing.T) {
	t.Run("scales down a grayscale image", func(t *testing.T) {
		r := png.NewRaster(4, 4, 1, 8)
		for i := 0; i < r.NumSamples(); i++ {
			r.SetSample(i, 80)
		}
		h := png.Header{Width: 4, Height: 4, BitDepth: 8, ColorType: png.ColorGrayscale}

		thumbPNG, err := makeThumbnail(buildPNG(t, h, r), 2)
		require.NoError(t, err)

		chunks, err := png.ReadChunks(bytes.NewReader(thumbPNG))
		require.NoError(t, err)
		require.Equal(t, "IHDR", chunks[0].Type)
		th, err := png.ParseHeader(chunks[0])
		require.NoError(t, err)
		assert.Equal(t, 2, th.Width)
		assert.Equal(t, 2, th.Height)

		tr, err := png.DecodePixels(png.ImageData(chunks), th)
		require.NoError(t, err)
		for i := 0; i < tr.NumSamples(); i++ {
			assert.EqualValues(t, 80, tr.Sample(i))
		}
	})

	t.Run("large images pass through untouched", func(t *testing.T) {
		r := png.NewRaster(2, 2, 1, 8)
		h := png.Header{Width: 2, Height: 2, BitDepth: 8, ColorType: png.ColorGrayscale}

		thumbPNG, err := makeThumbnail(buildPNG(t, h, r), 16)
		require.NoError(t, err)

		chunks, err := png.ReadChunks(bytes.NewReader(thumbPNG))
		require.NoError(t, err)
		th, err := png.ParseHeader(chunks[0])
		require.NoError(t, err)
		assert.Equal(t, 2, th.Width)
		assert.Equal(t, 2, th.Height)
	})

	t.Run("indexed images cannot be thumbnailed", func(t *testing.T) {
		r := png.NewRaster(2, 2, 1, 8)
		h := png.Header{Width: 2, Height: 2, BitDepth: 8, ColorType: png.ColorIndexed}

		_, err := makeThumbnail(buildPNG(t, h, r), 1)
		assert.Error(t, err)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := makeThumbnail([]byte("not a png at all"), 2)
		assert.Error(t, err)
	})
}
