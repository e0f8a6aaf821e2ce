package pngmeta

import (
	"encoding/binary"
	"fmt"
	"time"

	"git.handmade.network/hmn/pngkit/src/oops"
	"git.handmade.network/hmn/pngkit/src/png"
)

// ParseTime decodes a tIME chunk: the image's last-modification time as
// seven bytes of UTC calendar fields.
func ParseTime(c png.Chunk) (time.Time, error) {
	if c.Type != "tIME" {
		return time.Time{}, oops.New(png.ErrInvalidChunk, "expected tIME, got %s", c.Type)
	}
	if len(c.Data) != 7 {
		return time.Time{}, oops.New(nil, "tIME payload is %d bytes, want 7", len(c.Data))
	}
	year := int(binary.BigEndian.Uint16(c.Data[0:2]))
	return time.Date(
		year,
		time.Month(c.Data[2]),
		int(c.Data[3]),
		int(c.Data[4]),
		int(c.Data[5]),
		int(c.Data[6]),
		0,
		time.UTC,
	), nil
}

type PhysicalDims struct {
	PixelsPerUnitX uint32
	PixelsPerUnitY uint32
	Unit           string
}

// ParsePhysicalDims decodes a pHYs chunk: intended pixel density, with unit 1
// meaning pixels per meter and 0 meaning an unspecified aspect-ratio-only unit.
func ParsePhysicalDims(c png.Chunk) (PhysicalDims, error) {
	if c.Type != "pHYs" {
		return PhysicalDims{}, oops.New(png.ErrInvalidChunk, "expected pHYs, got %s", c.Type)
	}
	if len(c.Data) != 9 {
		return PhysicalDims{}, oops.New(nil, "pHYs payload is %d bytes, want 9", len(c.Data))
	}
	unit := "unknown"
	if c.Data[8] == 1 {
		unit = "meter"
	}
	return PhysicalDims{
		PixelsPerUnitX: binary.BigEndian.Uint32(c.Data[0:4]),
		PixelsPerUnitY: binary.BigEndian.Uint32(c.Data[4:8]),
		Unit:           unit,
	}, nil
}

type RGB struct {
	R, G, B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type Palette struct {
	Colors []RGB
}

// Preview returns up to n palette entries as space-separated hex colors.
func (p Palette) Preview(n int) string {
	if n > len(p.Colors) {
		n = len(p.Colors)
	}
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += " "
		}
		out += p.Colors[i].Hex()
	}
	return out
}

/*
ParsePalette decodes a PLTE chunk into RGB triples. A palette must not
appear in grayscale images (color types 0 and 4), and its length must be a
multiple of three; both violations are chunk-context errors.
*/
func ParsePalette(c png.Chunk, ct png.ColorType) (Palette, error) {
	if c.Type != "PLTE" {
		return Palette{}, oops.New(png.ErrInvalidChunk, "expected PLTE, got %s", c.Type)
	}
	if ct == png.ColorGrayscale || ct == png.ColorGrayscaleAlpha {
		return Palette{}, oops.New(png.ErrInvalidChunk, "PLTE must not appear in a %s image", ct)
	}
	if len(c.Data)%3 != 0 {
		return Palette{}, oops.New(png.ErrInvalidChunk, "PLTE length %d is not divisible by 3", len(c.Data))
	}

	colors := make([]RGB, 0, len(c.Data)/3)
	for i := 0; i < len(c.Data); i += 3 {
		colors = append(colors, RGB{c.Data[i], c.Data[i+1], c.Data[i+2]})
	}
	return Palette{Colors: colors}, nil
}
