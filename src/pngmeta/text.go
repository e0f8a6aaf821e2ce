package pngmeta

import (
	"bytes"
	"compress/zlib"
	"io"

	"git.handmade.network/hmn/pngkit/src/oops"
	"git.handmade.network/hmn/pngkit/src/png"
)

// ParseText decodes a tEXt chunk: a Latin-1 keyword, a NUL, and Latin-1 text.
func ParseText(c png.Chunk) (string, string, error) {
	if c.Type != "tEXt" {
		return "", "", oops.New(png.ErrInvalidChunk, "expected tEXt, got %s", c.Type)
	}
	sep := bytes.IndexByte(c.Data, 0)
	if sep < 0 {
		return "", "", oops.New(nil, "tEXt chunk has no keyword separator")
	}
	return latin1(c.Data[:sep]), latin1(c.Data[sep+1:]), nil
}

// ParseCompressedText decodes a zTXt chunk: a Latin-1 keyword, a NUL, a
// compression method byte (0 is the only defined method), and deflated
// Latin-1 text.
func ParseCompressedText(c png.Chunk) (string, string, error) {
	if c.Type != "zTXt" {
		return "", "", oops.New(png.ErrInvalidChunk, "expected zTXt, got %s", c.Type)
	}
	sep := bytes.IndexByte(c.Data, 0)
	if sep < 0 {
		return "", "", oops.New(nil, "zTXt chunk has no keyword separator")
	}
	if sep+1 >= len(c.Data) {
		return "", "", oops.New(nil, "zTXt chunk is missing its compression method")
	}
	if method := c.Data[sep+1]; method != 0 {
		return "", "", oops.New(nil, "unsupported zTXt compression method %d", method)
	}
	text, err := inflate(c.Data[sep+2:])
	if err != nil {
		return "", "", oops.New(err, "failed to decompress zTXt text")
	}
	return latin1(c.Data[:sep]), latin1(text), nil
}

// IntlText is the decoded form of an iTXt chunk.
type IntlText struct {
	Keyword           string
	Language          string
	TranslatedKeyword string
	Text              string
}

/*
ParseIntlText decodes an iTXt chunk: Latin-1 keyword, NUL, compression flag
and method bytes, language tag, NUL, UTF-8 translated keyword, NUL, and
UTF-8 text, deflated when the compression flag is 1.
*/
func ParseIntlText(c png.Chunk) (IntlText, error) {
	if c.Type != "iTXt" {
		return IntlText{}, oops.New(png.ErrInvalidChunk, "expected iTXt, got %s", c.Type)
	}

	sep := bytes.IndexByte(c.Data, 0)
	if sep < 0 {
		return IntlText{}, oops.New(nil, "iTXt chunk has no keyword separator")
	}
	keyword := latin1(c.Data[:sep])
	rest := c.Data[sep+1:]
	if len(rest) < 2 {
		return IntlText{}, oops.New(nil, "iTXt chunk is missing its compression flag")
	}
	flag, method := rest[0], rest[1]
	rest = rest[2:]

	sep = bytes.IndexByte(rest, 0)
	if sep < 0 {
		return IntlText{}, oops.New(nil, "iTXt chunk has no language tag separator")
	}
	language := latin1(rest[:sep])
	rest = rest[sep+1:]

	sep = bytes.IndexByte(rest, 0)
	if sep < 0 {
		return IntlText{}, oops.New(nil, "iTXt chunk has no translated keyword separator")
	}
	translated := string(rest[:sep])
	raw := rest[sep+1:]

	var text string
	switch flag {
	case 0:
		text = string(raw)
	case 1:
		if method != 0 {
			return IntlText{}, oops.New(nil, "unsupported iTXt compression method %d", method)
		}
		inflated, err := inflate(raw)
		if err != nil {
			return IntlText{}, oops.New(err, "failed to decompress iTXt text")
		}
		text = string(inflated)
	default:
		return IntlText{}, oops.New(nil, "invalid iTXt compression flag %d", flag)
	}

	return IntlText{
		Keyword:           keyword,
		Language:          language,
		TranslatedKeyword: translated,
		Text:              text,
	}, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// latin1 decodes ISO 8859-1 bytes, where every byte maps to the same rune.
func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
