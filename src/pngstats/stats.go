/*
Package pngstats computes distribution statistics over decoded image planes:
sample extremes, dominant colors, transparency, and compression ratios.

Everything here walks a Raster that some other layer already decoded; nothing
in this package touches files or chunk lists.
*/
package pngstats

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/teacat/noire"

	"git.handmade.network/hmn/pngkit/src/oops"
	"git.handmade.network/hmn/pngkit/src/png"
	"git.handmade.network/hmn/pngkit/src/utils"
)

// A Summary describes how sample values are distributed across a plane.
type Summary struct {
	Min    uint16
	Max    uint16
	Mean   float64
	StdDev float64

	// UniqueValues counts distinct sample values. Only meaningful for
	// indexed images, where samples are palette indices; zero otherwise.
	UniqueValues int

	// Channels holds per-channel extremes for truecolor images, in channel
	// order. Empty for grayscale and indexed images.
	Channels []ChannelRange
}

type ChannelRange struct {
	Name string
	Min  uint16
	Max  uint16
}

var channelNames = []string{"R", "G", "B", "A"}

/*
Summarize computes whole-plane statistics in two passes: extremes and mean
first, then the population standard deviation about that mean.
*/
func Summarize(r *png.Raster, ct png.ColorType) Summary {
	n := r.NumSamples()
	if n == 0 {
		return Summary{}
	}

	s := Summary{Min: r.MaxSample()}
	var sum float64
	for i := 0; i < n; i++ {
		v := r.Sample(i)
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += float64(v)
	}
	s.Mean = sum / float64(n)

	var sq float64
	for i := 0; i < n; i++ {
		d := float64(r.Sample(i)) - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(n))

	if ct == png.ColorIndexed {
		seen := make(map[uint16]struct{})
		for i := 0; i < n; i++ {
			seen[r.Sample(i)] = struct{}{}
		}
		s.UniqueValues = len(seen)
	}

	if ct == png.ColorTruecolor || ct == png.ColorTruecolorAlpha {
		for c := 0; c < r.Channels && c < len(channelNames); c++ {
			cr := ChannelRange{Name: channelNames[c], Min: r.MaxSample()}
			for y := 0; y < r.Height; y++ {
				for x := 0; x < r.Width; x++ {
					v := r.At(x, y, c)
					if v < cr.Min {
						cr.Min = v
					}
					if v > cr.Max {
						cr.Max = v
					}
				}
			}
			s.Channels = append(s.Channels, cr)
		}
	}

	return s
}

/*
HasTransparency reports whether any pixel is less than fully opaque. Only
color types with an alpha channel can be transparent, and for both of those
the alpha is the last channel. The opaque ceiling scales with bit depth, so
16-bit images compare against 65535 rather than 255.
*/
func HasTransparency(r *png.Raster, ct png.ColorType) bool {
	if !ct.HasAlpha() {
		return false
	}
	opaque := r.MaxSample()
	alpha := r.Channels - 1
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if r.At(x, y, alpha) < opaque {
				return true
			}
		}
	}
	return false
}

// A ColorCount is one entry in a dominant-color ranking.
type ColorCount struct {
	Label string
	Count int

	// Hex is a CSS color for truecolor entries. Palette index entries have
	// no color without the palette, so there it stays empty.
	Hex string
}

/*
DominantColors ranks the most frequent colors and keeps the top n. Indexed
images rank palette indices; truecolor images rank RGB triples, ignoring
alpha. Grayscale images have no colors to rank and return nil. Ties break
toward the smaller index or darker color so the ranking is stable.
*/
func DominantColors(r *png.Raster, ct png.ColorType, n int) []ColorCount {
	switch ct {
	case png.ColorIndexed:
		counts := make(map[uint16]int)
		for i := 0; i < r.NumSamples(); i++ {
			counts[r.Sample(i)]++
		}
		indices := make([]uint16, 0, len(counts))
		for idx := range counts {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(i, j int) bool {
			a, b := indices[i], indices[j]
			if counts[a] != counts[b] {
				return counts[a] > counts[b]
			}
			return a < b
		})
		indices = indices[:utils.IntMin(len(indices), n)]
		out := make([]ColorCount, len(indices))
		for i, idx := range indices {
			out[i] = ColorCount{
				Label: fmt.Sprintf("Palette index %d", idx),
				Count: counts[idx],
			}
		}
		return out

	case png.ColorTruecolor, png.ColorTruecolorAlpha:
		type rgb struct{ r, g, b uint16 }
		counts := make(map[rgb]int)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				counts[rgb{r.At(x, y, 0), r.At(x, y, 1), r.At(x, y, 2)}]++
			}
		}
		colors := make([]rgb, 0, len(counts))
		for c := range counts {
			colors = append(colors, c)
		}
		sort.Slice(colors, func(i, j int) bool {
			a, b := colors[i], colors[j]
			if counts[a] != counts[b] {
				return counts[a] > counts[b]
			}
			if a.r != b.r {
				return a.r < b.r
			}
			if a.g != b.g {
				return a.g < b.g
			}
			return a.b < b.b
		})
		colors = colors[:utils.IntMin(len(colors), n)]

		// noire wants 8-bit components, so 16-bit samples drop their low byte.
		shift := uint(r.BitDepth - 8)
		out := make([]ColorCount, len(colors))
		for i, c := range colors {
			out[i] = ColorCount{
				Label: fmt.Sprintf("RGB(%d, %d, %d)", c.r, c.g, c.b),
				Count: counts[c],
				Hex: noire.NewRGB(
					float64(c.r>>shift),
					float64(c.g>>shift),
					float64(c.b>>shift),
				).HTML(),
			}
		}
		return out
	}

	return nil
}

// CompressionInfo compares an image's stored IDAT bytes against the pixel
// stream they inflate to.
type CompressionInfo struct {
	CompressedSize   int
	UncompressedSize int

	// Ratio is compressed over uncompressed, rounded to two decimals.
	// Smaller is better; above 1.0 the compression is hurting.
	Ratio float64
}

// Compression inflates a joined IDAT stream to measure it. The stream is
// only counted, never buffered.
func Compression(idat []byte) (CompressionInfo, error) {
	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return CompressionInfo{}, oops.New(png.ErrDecompression, "%v", err)
	}
	defer zr.Close()
	n, err := io.Copy(io.Discard, zr)
	if err != nil {
		return CompressionInfo{}, oops.New(png.ErrDecompression, "%v", err)
	}

	info := CompressionInfo{
		CompressedSize:   len(idat),
		UncompressedSize: int(n),
	}
	if n > 0 {
		info.Ratio = math.Round(float64(len(idat))/float64(n)*100) / 100
	}
	return info, nil
}
