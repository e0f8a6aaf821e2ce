package png

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Width:     1920,
		Height:    1080,
		BitDepth:  8,
		ColorType: ColorTruecolorAlpha,
	}
	c := h.Encode()
	assert.Equal(t, "IHDR", c.Type)
	assert.Equal(t, uint32(13), c.Length)
	assert.True(t, c.ChecksumOK())

	parsed, err := ParseHeader(c)
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
}

func TestParseHeaderFieldLayout(t *testing.T) {
	c := NewChunk("IHDR", []byte{
		0, 0, 1, 0, // width 256
		0, 0, 0, 16, // height 16
		16, // bit depth
		2,  // color type
		0,  // compression
		0,  // filter
		1,  // interlace
	})
	h, err := ParseHeader(c)
	require.NoError(t, err)
	assert.Equal(t, 256, h.Width)
	assert.Equal(t, 16, h.Height)
	assert.Equal(t, uint8(16), h.BitDepth)
	assert.Equal(t, ColorTruecolor, h.ColorType)
	assert.Equal(t, uint8(1), h.Interlace)
}

func TestFindHeader(t *testing.T) {
	h := Header{Width: 3, Height: 2, BitDepth: 8, ColorType: ColorGrayscale}
	chunks := []Chunk{
		h.Encode(),
		NewChunk("IDAT", []byte{1, 2, 3}),
		NewChunk("IEND", nil),
	}

	found, err := FindHeader(chunks)
	require.NoError(t, err)
	assert.Equal(t, h, found)

	_, err = FindHeader(chunks[1:])
	assert.True(t, errors.Is(err, ErrInvalidChunk))
}

func TestParseHeaderErrors(t *testing.T) {
	valid := func() []byte {
		return []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 0, 0, 0, 0}
	}

	t.Run("wrong chunk type", func(t *testing.T) {
		_, err := ParseHeader(NewChunk("IDAT", valid()))
		assert.True(t, errors.Is(err, ErrInvalidChunk))
	})
	t.Run("short payload", func(t *testing.T) {
		_, err := ParseHeader(NewChunk("IHDR", valid()[:12]))
		assert.True(t, errors.Is(err, ErrInvalidChunk))
	})
	t.Run("bad color type", func(t *testing.T) {
		for _, ct := range []byte{1, 5, 7, 255} {
			data := valid()
			data[9] = ct
			_, err := ParseHeader(NewChunk("IHDR", data))
			assert.True(t, errors.Is(err, ErrUnsupportedColorType), "color type %d", ct)
		}
	})
	t.Run("bad bit depth", func(t *testing.T) {
		for _, bd := range []byte{0, 3, 7, 32} {
			data := valid()
			data[8] = bd
			_, err := ParseHeader(NewChunk("IHDR", data))
			assert.True(t, errors.Is(err, ErrUnsupportedBitDepth), "bit depth %d", bd)
		}
	})
}

func TestChannels(t *testing.T) {
	counts := map[ColorType]int{
		ColorGrayscale:      1,
		ColorTruecolor:      3,
		ColorIndexed:        1,
		ColorGrayscaleAlpha: 2,
		ColorTruecolorAlpha: 4,
	}
	for ct, want := range counts {
		got, err := ct.Channels()
		require.NoError(t, err)
		assert.Equal(t, want, got, "color type %d", ct)
	}

	for _, ct := range []ColorType{1, 5, 7, 255} {
		_, err := ct.Channels()
		assert.True(t, errors.Is(err, ErrUnsupportedColorType), "color type %d", ct)
	}
}

func TestHasAlpha(t *testing.T) {
	assert.False(t, ColorGrayscale.HasAlpha())
	assert.False(t, ColorTruecolor.HasAlpha())
	assert.False(t, ColorIndexed.HasAlpha())
	assert.True(t, ColorGrayscaleAlpha.HasAlpha())
	assert.True(t, ColorTruecolorAlpha.HasAlpha())
}

func TestDerivedSizes(t *testing.T) {
	tests := []struct {
		name     string
		h        Header
		bpp, bps int
	}{
		{"1-bit grayscale packs eight pixels per byte", Header{Width: 5, BitDepth: 1, ColorType: ColorGrayscale}, 1, 1},
		{"8-bit truecolor", Header{Width: 10, BitDepth: 8, ColorType: ColorTruecolor}, 3, 30},
		{"16-bit truecolor with alpha", Header{Width: 2, BitDepth: 16, ColorType: ColorTruecolorAlpha}, 8, 16},
		{"4-bit indexed", Header{Width: 3, BitDepth: 4, ColorType: ColorIndexed}, 1, 2},
		{"8-bit grayscale with alpha", Header{Width: 7, BitDepth: 8, ColorType: ColorGrayscaleAlpha}, 2, 14},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.bpp, test.h.BytesPerPixel())
			assert.Equal(t, test.bps, test.h.BytesPerScanline())
		})
	}
}
