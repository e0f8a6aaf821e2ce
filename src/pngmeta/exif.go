package pngmeta

import (
	"bytes"
	"sort"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"git.handmade.network/hmn/pngkit/src/oops"
	"git.handmade.network/hmn/pngkit/src/png"
)

type exifWalker struct {
	fields []Field
}

func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	w.fields = append(w.fields, Field{Name: string(name), Value: tag.String()})
	return nil
}

/*
ParseExif decodes an eXIf chunk. The payload is a bare TIFF structure, the
same layout EXIF uses inside a JPEG APP1 segment but without the "Exif"
marker prefix.

The walk order of the underlying IFD entries is not stable, so fields come
back sorted by name.
*/
func ParseExif(c png.Chunk) ([]Field, error) {
	if c.Type != "eXIf" {
		return nil, oops.New(png.ErrInvalidChunk, "expected eXIf, got %s", c.Type)
	}

	x, err := exif.Decode(bytes.NewReader(c.Data))
	if err != nil {
		return nil, oops.New(err, "failed to decode EXIF payload")
	}

	var w exifWalker
	if err := x.Walk(&w); err != nil {
		return nil, oops.New(err, "failed to walk EXIF fields")
	}
	sort.Slice(w.fields, func(i, j int) bool {
		return w.fields[i].Name < w.fields[j].Name
	})
	return w.fields, nil
}
