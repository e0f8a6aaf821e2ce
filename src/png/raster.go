package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"

	"git.handmade.network/hmn/pngkit/src/oops"
)

/*
A Raster is a decoded image plane: a flat row-major sample buffer plus the
shape needed to index it. Samples are one byte at bit depth 8 and two
big-endian bytes at bit depth 16, the same layout the pixel stream uses, so
Pix of a decoded raster is exactly the concatenated reconstructed scanlines.
*/
type Raster struct {
	Width    int
	Height   int
	Channels int
	BitDepth int
	Pix      []byte
}

func NewRaster(width, height, channels, bitDepth int) *Raster {
	r := &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		BitDepth: bitDepth,
	}
	r.Pix = make([]byte, height*r.Stride())
	return r
}

// SampleSize is the byte size of one sample.
func (r *Raster) SampleSize() int {
	if r.BitDepth == 16 {
		return 2
	}
	return 1
}

// Stride is the byte width of one row of Pix.
func (r *Raster) Stride() int {
	return r.Width * r.Channels * r.SampleSize()
}

// NumSamples is the total sample count across all rows and channels.
func (r *Raster) NumSamples() int {
	return r.Width * r.Height * r.Channels
}

func (r *Raster) Row(y int) []byte {
	s := r.Stride()
	return r.Pix[y*s : (y+1)*s]
}

// Sample returns the i'th sample in row-major, channel-interleaved order.
func (r *Raster) Sample(i int) uint16 {
	if r.BitDepth == 16 {
		return binary.BigEndian.Uint16(r.Pix[i*2:])
	}
	return uint16(r.Pix[i])
}

func (r *Raster) SetSample(i int, v uint16) {
	if r.BitDepth == 16 {
		binary.BigEndian.PutUint16(r.Pix[i*2:], v)
	} else {
		r.Pix[i] = byte(v)
	}
}

// At returns channel c of the pixel at (x, y).
func (r *Raster) At(x, y, c int) uint16 {
	return r.Sample((y*r.Width+x)*r.Channels + c)
}

func (r *Raster) SetAt(x, y, c int, v uint16) {
	r.SetSample((y*r.Width+x)*r.Channels+c, v)
}

// MaxSample is the largest value a sample can hold at this bit depth.
func (r *Raster) MaxSample() uint16 {
	if r.BitDepth == 16 {
		return 0xffff
	}
	return 0xff
}

/*
DecodePixels inflates a joined IDAT stream and reconstructs the image plane:
one pass over the scanlines, each prefixed by its filter byte and unfiltered
against the previously reconstructed row. Only bit depths 8 and 16 can be
reshaped into a Raster; smaller depths pack multiple pixels per byte and are
rejected after the scanline walk. Interlaced images are rejected up front.
*/
func DecodePixels(idat []byte, h Header) (*Raster, error) {
	if h.Interlace != 0 {
		return nil, oops.New(ErrInterlaceUnsupported, "interlace method %d", h.Interlace)
	}
	channels, err := h.ColorType.Channels()
	if err != nil {
		return nil, err
	}
	bpp := h.BytesPerPixel()
	bps := h.BytesPerScanline()

	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return nil, oops.New(ErrDecompression, "%v", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, oops.New(ErrDecompression, "%v", err)
	}

	pix := make([]byte, 0, h.Height*bps)
	var prev []byte
	offset := 0
	for y := 0; y < h.Height; y++ {
		if offset+1+bps > len(raw) {
			return nil, oops.New(ErrTruncatedPixelData,
				"scanline %d needs %d bytes, only %d left", y, 1+bps, len(raw)-offset)
		}
		line, err := Unfilter(FilterType(raw[offset]), raw[offset+1:offset+1+bps], prev, bpp)
		if err != nil {
			return nil, err
		}
		pix = append(pix, line...)
		prev = line
		offset += 1 + bps
	}

	if h.BitDepth != 8 && h.BitDepth != 16 {
		return nil, oops.New(ErrUnsupportedBitDepth, "bit depth %d, want 8 or 16", h.BitDepth)
	}

	return &Raster{
		Width:    h.Width,
		Height:   h.Height,
		Channels: channels,
		BitDepth: int(h.BitDepth),
		Pix:      pix,
	}, nil
}

// EncodePixels filters every row with the given filter type and deflates the
// result at the default compression level.
func EncodePixels(r *Raster, ft FilterType) ([]byte, error) {
	return EncodePixelsLevel(r, ft, zlib.DefaultCompression)
}

/*
EncodePixelsLevel is EncodePixels with an explicit zlib level. Each row is
filtered against the raw previous row, prefixed with the filter byte, and
fed to the compressor. The filter type is fixed for the whole image.
*/
func EncodePixelsLevel(r *Raster, ft FilterType, level int) ([]byte, error) {
	if r.BitDepth != 8 && r.BitDepth != 16 {
		return nil, oops.New(ErrUnsupportedBitDepth, "bit depth %d, want 8 or 16", r.BitDepth)
	}
	bpp := (r.Channels*r.BitDepth + 7) / 8

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, oops.New(err, "invalid compression level %d", level)
	}

	var prev []byte
	for y := 0; y < r.Height; y++ {
		line := r.Row(y)
		filtered, err := Filter(ft, line, prev, bpp)
		if err != nil {
			return nil, err
		}
		zw.Write([]byte{byte(ft)})
		zw.Write(filtered)
		prev = line
	}
	if err := zw.Close(); err != nil {
		return nil, oops.New(err, "failed to flush compressed pixel data")
	}
	return buf.Bytes(), nil
}
