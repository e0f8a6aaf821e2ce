package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.handmade.network/hmn/pngkit/src/png"
)

// flatRaster fills channel c of every pixel with values[c].
func flatRaster(w, h, bd int, values ...uint16) *png.Raster {
	r := png.NewRaster(w, h, len(values), bd)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c, v := range values {
				r.SetAt(x, y, c, v)
			}
		}
	}
	return r
}

func TestThumbnail(t *testing.T) {
	t.Run("gray plane halves", func(t *testing.T) {
		h := png.Header{Width: 4, Height: 4, BitDepth: 8, ColorType: png.ColorGrayscale}
		out, outH, err := Thumbnail(flatRaster(4, 4, 8, 77), h, 2)
		require.NoError(t, err)
		assert.Equal(t, png.Header{Width: 2, Height: 2, BitDepth: 8, ColorType: png.ColorGrayscale}, outH)
		require.Equal(t, 4, out.NumSamples())
		for i := 0; i < out.NumSamples(); i++ {
			assert.Equal(t, uint16(77), out.Sample(i))
		}
	})

	t.Run("rgba keeps all channels", func(t *testing.T) {
		h := png.Header{Width: 4, Height: 2, BitDepth: 8, ColorType: png.ColorTruecolorAlpha}
		out, outH, err := Thumbnail(flatRaster(4, 2, 8, 10, 20, 30, 128), h, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, outH.Width)
		assert.Equal(t, 1, outH.Height)
		assert.Equal(t, png.ColorTruecolorAlpha, outH.ColorType)
		for x := 0; x < 2; x++ {
			assert.Equal(t, uint16(10), out.At(x, 0, 0))
			assert.Equal(t, uint16(20), out.At(x, 0, 1))
			assert.Equal(t, uint16(30), out.At(x, 0, 2))
			assert.Equal(t, uint16(128), out.At(x, 0, 3))
		}
	})

	t.Run("gray with alpha", func(t *testing.T) {
		h := png.Header{Width: 6, Height: 3, BitDepth: 8, ColorType: png.ColorGrayscaleAlpha}
		out, outH, err := Thumbnail(flatRaster(6, 3, 8, 200, 90), h, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, outH.Width)
		assert.Equal(t, 2, outH.Height)
		assert.Equal(t, uint16(200), out.At(1, 1, 0))
		assert.Equal(t, uint16(90), out.At(1, 1, 1))
	})

	t.Run("aspect ratio is preserved", func(t *testing.T) {
		h := png.Header{Width: 100, Height: 50, BitDepth: 8, ColorType: png.ColorGrayscale}
		_, outH, err := Thumbnail(png.NewRaster(100, 50, 1, 8), h, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, outH.Width)
		assert.Equal(t, 5, outH.Height)
	})

	t.Run("downscale averages neighbors", func(t *testing.T) {
		h := png.Header{Width: 2, Height: 1, BitDepth: 8, ColorType: png.ColorGrayscale}
		r := png.NewRaster(2, 1, 1, 8)
		r.SetSample(1, 255)
		out, _, err := Thumbnail(r, h, 1)
		require.NoError(t, err)
		assert.InDelta(t, 127.5, float64(out.Sample(0)), 2)
	})

	t.Run("16-bit narrows to 8", func(t *testing.T) {
		h := png.Header{Width: 2, Height: 2, BitDepth: 16, ColorType: png.ColorGrayscale}
		out, outH, err := Thumbnail(flatRaster(2, 2, 16, 0xabcd), h, 4)
		require.NoError(t, err)
		assert.Equal(t, 8, out.BitDepth)
		assert.Equal(t, uint8(8), outH.BitDepth)
		assert.Equal(t, 2, outH.Width)
		for i := 0; i < out.NumSamples(); i++ {
			assert.Equal(t, uint16(0xab), out.Sample(i))
		}
	})

	t.Run("small 8-bit planes pass through", func(t *testing.T) {
		h := png.Header{Width: 3, Height: 2, BitDepth: 8, ColorType: png.ColorTruecolor}
		r := flatRaster(3, 2, 8, 1, 2, 3)
		out, outH, err := Thumbnail(r, h, 10)
		require.NoError(t, err)
		assert.Same(t, r, out)
		assert.Equal(t, h, outH)
	})

	t.Run("indexed planes are rejected", func(t *testing.T) {
		h := png.Header{Width: 4, Height: 4, BitDepth: 8, ColorType: png.ColorIndexed}
		_, _, err := Thumbnail(png.NewRaster(4, 4, 1, 8), h, 2)
		assert.True(t, errors.Is(err, png.ErrUnsupportedColorType))
	})

	t.Run("bad max dimension", func(t *testing.T) {
		h := png.Header{Width: 4, Height: 4, BitDepth: 8, ColorType: png.ColorGrayscale}
		_, _, err := Thumbnail(png.NewRaster(4, 4, 1, 8), h, 0)
		assert.Error(t, err)
	})
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, maxDim int
		wantW, wantH int
	}{
		{100, 50, 10, 10, 5},
		{50, 100, 10, 5, 10},
		{4, 4, 2, 2, 2},
		{3, 2, 10, 3, 2},
		{1000, 1, 10, 10, 1},
		{10, 10, 10, 10, 10},
	}
	for _, c := range cases {
		w, h := fit(c.w, c.h, c.maxDim)
		assert.Equal(t, c.wantW, w, "fit(%d, %d, %d)", c.w, c.h, c.maxDim)
		assert.Equal(t, c.wantH, h, "fit(%d, %d, %d)", c.w, c.h, c.maxDim)
	}
}
