/*
Package pngmeta extracts human-readable metadata from ancillary PNG chunks:
textual comments (tEXt, zTXt, iTXt), modification time (tIME), physical
pixel dimensions (pHYs), palettes (PLTE), and embedded EXIF (eXIf).

Extraction is pure: it returns structured entries and never prints.
Rendering is the report layer's problem.
*/
package pngmeta

import (
	"strconv"

	"git.handmade.network/hmn/pngkit/src/png"
)

// An Entry is the decoded form of one metadata chunk, as an ordered list of
// name/value fields.
type Entry struct {
	ChunkType string
	Fields    []Field
}

type Field struct {
	Name  string
	Value string
}

/*
Extract walks the chunk list once and decodes every metadata chunk it
understands, in file order. Unrecognized chunk types are ignored.

Structural damage in fixed-layout chunks (tIME, pHYs, PLTE, zTXt) is an
error; malformed free-text and EXIF chunks (tEXt, iTXt, eXIf) are skipped
instead, since a bad comment should not take down the whole scan.
*/
func Extract(chunks []png.Chunk, h png.Header) ([]Entry, error) {
	var entries []Entry
	for _, c := range chunks {
		switch c.Type {
		case "tEXt":
			key, text, err := ParseText(c)
			if err != nil {
				continue
			}
			entries = append(entries, Entry{"tEXt", []Field{
				{"keyword", key},
				{"text", text},
			}})
		case "iTXt":
			intl, err := ParseIntlText(c)
			if err != nil {
				continue
			}
			entries = append(entries, Entry{"iTXt", []Field{
				{"keyword", intl.Keyword},
				{"language", intl.Language},
				{"translated keyword", intl.TranslatedKeyword},
				{"text", intl.Text},
			}})
		case "zTXt":
			key, text, err := ParseCompressedText(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{"zTXt", []Field{
				{"keyword", key},
				{"text", text},
			}})
		case "tIME":
			modified, err := ParseTime(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{"tIME", []Field{
				{"modified", modified.UTC().Format("2006-01-02 15:04:05")},
			}})
		case "pHYs":
			dims, err := ParsePhysicalDims(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{"pHYs", []Field{
				{"pixels per unit x", strconv.FormatUint(uint64(dims.PixelsPerUnitX), 10)},
				{"pixels per unit y", strconv.FormatUint(uint64(dims.PixelsPerUnitY), 10)},
				{"unit", dims.Unit},
			}})
		case "PLTE":
			palette, err := ParsePalette(c, h.ColorType)
			if err != nil {
				return nil, err
			}
			fields := []Field{
				{"colors", strconv.Itoa(len(palette.Colors))},
			}
			if preview := palette.Preview(8); preview != "" {
				fields = append(fields, Field{"preview", preview})
			}
			entries = append(entries, Entry{"PLTE", fields})
		case "eXIf":
			fields, err := ParseExif(c)
			if err != nil {
				continue
			}
			entries = append(entries, Entry{"eXIf", fields})
		}
	}
	return entries, nil
}

