/*
Package transform rewrites PNG chunk sequences: stripping metadata,
recompressing pixel data, and scaling planes down to thumbnails. Every
operation preserves chunks it does not understand, byte for byte and in
order.
*/
package transform

import (
	"git.handmade.network/hmn/pngkit/src/png"
)

// metadataChunks carry descriptive metadata rather than rendering
// information.
var metadataChunks = map[string]bool{
	"tEXt": true,
	"zTXt": true,
	"iTXt": true,
	"eXIf": true,
	"tIME": true,
}

/*
Strip returns the chunk sequence without its descriptive metadata: textual
comments, EXIF, and the modification time, plus the ICC profile unless
keepICC is set. Everything else passes through untouched.
*/
func Strip(chunks []png.Chunk, keepICC bool) []png.Chunk {
	out := make([]png.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if metadataChunks[c.Type] {
			continue
		}
		if c.Type == "iCCP" && !keepICC {
			continue
		}
		out = append(out, c)
	}
	return out
}

/*
Recompress decodes the image plane and re-encodes it at the given zlib level
with the given row filter. However many IDAT chunks the input spread its
pixel data over, the output has exactly one, in the position of the first;
every other chunk keeps its original bytes.
*/
func Recompress(chunks []png.Chunk, level int, ft png.FilterType) ([]png.Chunk, error) {
	header, err := png.FindHeader(chunks)
	if err != nil {
		return nil, err
	}

	raster, err := png.DecodePixels(png.ImageData(chunks), header)
	if err != nil {
		return nil, err
	}
	idat, err := png.EncodePixelsLevel(raster, ft, level)
	if err != nil {
		return nil, err
	}

	out := make([]png.Chunk, 0, len(chunks))
	replaced := false
	for _, c := range chunks {
		if c.Type == "IDAT" {
			if !replaced {
				out = append(out, png.NewChunk("IDAT", idat))
				replaced = true
			}
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
