/*
Package inspect turns a PNG file into a Report: the container layout, the
parsed header, decoded metadata, and pixel statistics, gathered in one pass
over the chunk sequence.

Reports are plain data. Rendering lives in render.go, persistence in the
catalog package.
*/
package inspect

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"

	"git.handmade.network/hmn/pngkit/src/oops"
	"git.handmade.network/hmn/pngkit/src/png"
	"git.handmade.network/hmn/pngkit/src/pngmeta"
	"git.handmade.network/hmn/pngkit/src/pngstats"
)

// TopColors is how many dominant colors a report keeps.
const TopColors = 5

type Report struct {
	Path     string
	FileSize int64
	Sha1     string
	Header   png.Header
	Chunks   []ChunkInfo
	Metadata []pngmeta.Entry

	// Pixels is nil when the plane could not be decoded; PixelNote then
	// says why. Decode problems that mean "this file is damaged" fail the
	// whole report instead.
	Pixels    *PixelSummary
	PixelNote string
}

// ChunkInfo describes one chunk's place in the container.
type ChunkInfo struct {
	Type       string
	Offset     int64
	Length     int
	Critical   bool
	ChecksumOK bool
}

type PixelSummary struct {
	// Shape is height x width x channels, the layout of the decoded plane.
	Shape           string
	Stats           pngstats.Summary
	DominantColors  []pngstats.ColorCount
	Compression     pngstats.CompressionInfo
	HasTransparency bool
}

// ChunkInfos describes each chunk's place in the container, tracking byte
// offsets from the start of the file.
func ChunkInfos(chunks []png.Chunk) []ChunkInfo {
	infos := make([]ChunkInfo, len(chunks))
	offset := int64(len(png.Signature))
	for i, c := range chunks {
		infos[i] = ChunkInfo{
			Type:       c.Type,
			Offset:     offset,
			Length:     len(c.Data),
			Critical:   c.Critical(),
			ChecksumOK: c.ChecksumOK(),
		}
		offset += int64(12 + len(c.Data))
	}
	return infos
}

// File reads and inspects a PNG on disk.
func File(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.New(err, "failed to read %s", path)
	}
	return Bytes(path, data)
}

/*
Bytes inspects an in-memory PNG. The chunk walk happens once: layout info
and the joined IDAT stream both come out of the same decoded sequence.

Interlaced images and sub-byte bit depths have a valid container but no
decodable plane here; those reports come back with Pixels nil and a note.
Truncated or undecompressable pixel data is an error.
*/
func Bytes(name string, data []byte) (*Report, error) {
	chunks, err := png.ReadChunks(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	header, err := png.FindHeader(chunks)
	if err != nil {
		return nil, oops.New(err, "failed to inspect %s", name)
	}
	metadata, err := pngmeta.Extract(chunks, header)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Path:     name,
		FileSize: int64(len(data)),
		Sha1:     fmt.Sprintf("%x", sha1.Sum(data)),
		Header:   header,
		Chunks:   ChunkInfos(chunks),
		Metadata: metadata,
	}

	idat := png.ImageData(chunks)
	raster, err := png.DecodePixels(idat, header)
	if err != nil {
		if errors.Is(err, png.ErrInterlaceUnsupported) || errors.Is(err, png.ErrUnsupportedBitDepth) {
			report.PixelNote = fmt.Sprintf("pixel data not decoded: %v", err)
			return report, nil
		}
		return nil, err
	}

	compression, err := pngstats.Compression(idat)
	if err != nil {
		return nil, err
	}
	report.Pixels = &PixelSummary{
		Shape:           fmt.Sprintf("%dx%dx%d", header.Height, header.Width, raster.Channels),
		Stats:           pngstats.Summarize(raster, header.ColorType),
		DominantColors:  pngstats.DominantColors(raster, header.ColorType, TopColors),
		Compression:     compression,
		HasTransparency: pngstats.HasTransparency(raster, header.ColorType),
	}
	return report, nil
}
