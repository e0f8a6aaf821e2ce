package png

import "errors"

/*
Sentinel errors for every way a PNG can fail to decode or encode. Callers
can test for these with errors.Is even when the returned error carries
extra context.
*/
var (
	ErrBadSignature         = errors.New("bad png signature")
	ErrTruncated            = errors.New("truncated chunk stream")
	ErrUnknownFilterType    = errors.New("unknown scanline filter type")
	ErrDecompression        = errors.New("failed to decompress image data")
	ErrTruncatedPixelData   = errors.New("truncated pixel data")
	ErrUnsupportedBitDepth  = errors.New("unsupported bit depth")
	ErrUnsupportedColorType = errors.New("unsupported color type")
	ErrInvalidChunk         = errors.New("chunk not valid here")
	ErrInterlaceUnsupported = errors.New("interlaced images are not supported")
)
