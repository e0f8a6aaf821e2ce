package png

import (
	"encoding/binary"

	"git.handmade.network/hmn/pngkit/src/oops"
)

type ColorType uint8

const (
	ColorGrayscale      ColorType = 0
	ColorTruecolor      ColorType = 2
	ColorIndexed        ColorType = 3
	ColorGrayscaleAlpha ColorType = 4
	ColorTruecolorAlpha ColorType = 6
)

// Channels returns the number of samples per pixel for the color type.
// Indexed images count as one channel; the palette is not expanded.
func (ct ColorType) Channels() (int, error) {
	switch ct {
	case ColorGrayscale, ColorIndexed:
		return 1, nil
	case ColorGrayscaleAlpha:
		return 2, nil
	case ColorTruecolor:
		return 3, nil
	case ColorTruecolorAlpha:
		return 4, nil
	}
	return 0, oops.New(ErrUnsupportedColorType, "color type %d", uint8(ct))
}

func (ct ColorType) HasAlpha() bool {
	return ct == ColorGrayscaleAlpha || ct == ColorTruecolorAlpha
}

func (ct ColorType) String() string {
	switch ct {
	case ColorGrayscale:
		return "grayscale"
	case ColorTruecolor:
		return "truecolor"
	case ColorIndexed:
		return "indexed"
	case ColorGrayscaleAlpha:
		return "grayscale with alpha"
	case ColorTruecolorAlpha:
		return "truecolor with alpha"
	}
	return "unknown"
}

// Header is the decoded form of the 13-byte IHDR payload.
type Header struct {
	Width       int
	Height      int
	BitDepth    uint8
	ColorType   ColorType
	Compression uint8
	Filter      uint8
	Interlace   uint8
}

func validBitDepth(bd uint8) bool {
	return bd == 1 || bd == 2 || bd == 4 || bd == 8 || bd == 16
}

// ParseHeader decodes an IHDR chunk. The color type must be one of the five
// defined ones and the bit depth one of 1, 2, 4, 8, or 16.
func ParseHeader(c Chunk) (Header, error) {
	if c.Type != "IHDR" {
		return Header{}, oops.New(ErrInvalidChunk, "expected IHDR, got %s", c.Type)
	}
	if len(c.Data) != 13 {
		return Header{}, oops.New(ErrInvalidChunk, "IHDR payload is %d bytes, want 13", len(c.Data))
	}

	h := Header{
		Width:       int(binary.BigEndian.Uint32(c.Data[0:4])),
		Height:      int(binary.BigEndian.Uint32(c.Data[4:8])),
		BitDepth:    c.Data[8],
		ColorType:   ColorType(c.Data[9]),
		Compression: c.Data[10],
		Filter:      c.Data[11],
		Interlace:   c.Data[12],
	}

	if _, err := h.ColorType.Channels(); err != nil {
		return Header{}, err
	}
	if !validBitDepth(h.BitDepth) {
		return Header{}, oops.New(ErrUnsupportedBitDepth, "bit depth %d", h.BitDepth)
	}

	return h, nil
}

// FindHeader locates the first IHDR chunk in the sequence and parses it.
func FindHeader(chunks []Chunk) (Header, error) {
	for _, c := range chunks {
		if c.Type == "IHDR" {
			return ParseHeader(c)
		}
	}
	return Header{}, oops.New(ErrInvalidChunk, "no IHDR chunk")
}

// Encode produces the IHDR chunk for the header, CRC included.
func (h Header) Encode() Chunk {
	var buf [13]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.Width))
	binary.BigEndian.PutUint32(buf[4:8], uint32(h.Height))
	buf[8] = h.BitDepth
	buf[9] = uint8(h.ColorType)
	buf[10] = h.Compression
	buf[11] = h.Filter
	buf[12] = h.Interlace
	return NewChunk("IHDR", buf[:])
}

// BytesPerPixel is the filter delta distance: the pixel size in whole bytes,
// never less than one. Returns 0 for an invalid color type.
func (h Header) BytesPerPixel() int {
	ch, err := h.ColorType.Channels()
	if err != nil {
		return 0
	}
	return (ch*int(h.BitDepth) + 7) / 8
}

// BytesPerScanline is the packed byte width of one row, excluding the leading
// filter byte. Returns 0 for an invalid color type.
func (h Header) BytesPerScanline() int {
	ch, err := h.ColorType.Channels()
	if err != nil {
		return 0
	}
	return (h.Width*ch*int(h.BitDepth) + 7) / 8
}
