package transform

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"git.handmade.network/hmn/pngkit/src/oops"
	"git.handmade.network/hmn/pngkit/src/png"
	"git.handmade.network/hmn/pngkit/src/utils"
)

/*
Thumbnail scales a plane down so its longest side is maxDim, preserving the
aspect ratio and the color type. Output is always 8 bits per sample; an
8-bit plane already within the limit comes back unchanged.

Indexed planes are rejected: their samples are palette indices, and
interpolating indices is meaningless.
*/
func Thumbnail(r *png.Raster, h png.Header, maxDim int) (*png.Raster, png.Header, error) {
	if maxDim <= 0 {
		return nil, png.Header{}, oops.New(nil, "max dimension must be positive, got %d", maxDim)
	}
	if h.ColorType == png.ColorIndexed {
		return nil, png.Header{}, oops.New(png.ErrUnsupportedColorType,
			"cannot scale an indexed plane without its palette")
	}

	w, ht := fit(r.Width, r.Height, maxDim)
	if w == r.Width && ht == r.Height && r.BitDepth == 8 {
		return r, h, nil
	}

	// Scaling happens in 16-bit non-premultiplied RGBA regardless of the
	// source layout, then the output keeps only the source's channels.
	src := toNRGBA64(r, h.ColorType)
	dst := image.NewNRGBA64(image.Rect(0, 0, w, ht))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := png.NewRaster(w, ht, r.Channels, 8)
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			px := dst.NRGBA64At(x, y)
			switch h.ColorType {
			case png.ColorGrayscale:
				out.SetAt(x, y, 0, px.R>>8)
			case png.ColorGrayscaleAlpha:
				out.SetAt(x, y, 0, px.R>>8)
				out.SetAt(x, y, 1, px.A>>8)
			case png.ColorTruecolor:
				out.SetAt(x, y, 0, px.R>>8)
				out.SetAt(x, y, 1, px.G>>8)
				out.SetAt(x, y, 2, px.B>>8)
			case png.ColorTruecolorAlpha:
				out.SetAt(x, y, 0, px.R>>8)
				out.SetAt(x, y, 1, px.G>>8)
				out.SetAt(x, y, 2, px.B>>8)
				out.SetAt(x, y, 3, px.A>>8)
			}
		}
	}

	outHeader := png.Header{
		Width:     w,
		Height:    ht,
		BitDepth:  8,
		ColorType: h.ColorType,
	}
	return out, outHeader, nil
}

// fit shrinks (w, h) so the longer side is maxDim, never below 1 per side.
func fit(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	scale := float64(maxDim) / float64(utils.IntMax(w, h))
	sw := utils.IntMax(1, int(math.Round(float64(w)*scale)))
	sh := utils.IntMax(1, int(math.Round(float64(h)*scale)))
	return sw, sh
}

func toNRGBA64(r *png.Raster, ct png.ColorType) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, r.Width, r.Height))

	// 8-bit samples widen by byte doubling so 0xff maps to 0xffff.
	widen := func(v uint16) uint16 {
		if r.BitDepth == 8 {
			return v<<8 | v
		}
		return v
	}

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			var red, green, blue, alpha uint16
			switch ct {
			case png.ColorGrayscale:
				red = widen(r.At(x, y, 0))
				green, blue, alpha = red, red, 0xffff
			case png.ColorGrayscaleAlpha:
				red = widen(r.At(x, y, 0))
				green, blue = red, red
				alpha = widen(r.At(x, y, 1))
			case png.ColorTruecolor:
				red = widen(r.At(x, y, 0))
				green = widen(r.At(x, y, 1))
				blue = widen(r.At(x, y, 2))
				alpha = 0xffff
			case png.ColorTruecolorAlpha:
				red = widen(r.At(x, y, 0))
				green = widen(r.At(x, y, 1))
				blue = widen(r.At(x, y, 2))
				alpha = widen(r.At(x, y, 3))
			}
			img.SetNRGBA64(x, y, color.NRGBA64{R: red, G: green, B: blue, A: alpha})
		}
	}
	return img
}
