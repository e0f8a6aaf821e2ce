package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"git.handmade.network/hmn/pngkit/src/oops"
)

const fieldWidth = 24

// RenderText formats reports as aligned name/value blocks, one section per
// concern, reports separated by a blank line.
func RenderText(reports []*Report) string {
	var buf bytes.Buffer
	for i, report := range reports {
		if i > 0 {
			buf.WriteString("\n")
		}
		writeReport(&buf, report)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeReport(buf *bytes.Buffer, r *Report) {
	writeSection(buf, "General", []field{
		{"Path", r.Path},
		{"File size", fmt.Sprintf("%d bytes", r.FileSize)},
		{"SHA-1", r.Sha1},
		{"Chunk count", strconv.Itoa(len(r.Chunks))},
	})

	h := r.Header
	buf.WriteString("\n")
	writeSection(buf, "Image", []field{
		{"Width", strconv.Itoa(h.Width)},
		{"Height", strconv.Itoa(h.Height)},
		{"Bit depth", strconv.Itoa(int(h.BitDepth))},
		{"Color type", fmt.Sprintf("%s (%d)", h.ColorType, h.ColorType)},
		{"Interlace", strconv.Itoa(int(h.Interlace))},
	})

	chunkFields := make([]field, len(r.Chunks))
	for i, c := range r.Chunks {
		chunkFields[i] = field{c.Type, describeChunk(c)}
	}
	buf.WriteString("\n")
	writeSection(buf, "Chunks", chunkFields)

	counts := map[string]int{}
	for _, e := range r.Metadata {
		counts[e.ChunkType]++
	}
	index := map[string]int{}
	for _, e := range r.Metadata {
		index[e.ChunkType]++
		title := e.ChunkType
		if counts[e.ChunkType] > 1 {
			title = fmt.Sprintf("%s #%d", e.ChunkType, index[e.ChunkType])
		}
		fields := make([]field, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = field{f.Name, f.Value}
		}
		buf.WriteString("\n")
		writeSection(buf, title, fields)
	}

	buf.WriteString("\n")
	if r.Pixels == nil {
		writeSection(buf, "Pixels", []field{{"Note", r.PixelNote}})
		return
	}
	writeSection(buf, "Pixels", pixelFields(r.Pixels))
}

func pixelFields(p *PixelSummary) []field {
	fields := []field{
		{"Shape", p.Shape},
		{"Minimum", strconv.Itoa(int(p.Stats.Min))},
		{"Maximum", strconv.Itoa(int(p.Stats.Max))},
		{"Mean", strconv.FormatFloat(p.Stats.Mean, 'f', 2, 64)},
		{"Std dev", strconv.FormatFloat(p.Stats.StdDev, 'f', 2, 64)},
	}
	if p.Stats.UniqueValues > 0 {
		fields = append(fields, field{"Unique values", strconv.Itoa(p.Stats.UniqueValues)})
	}
	for _, c := range p.Stats.Channels {
		fields = append(fields, field{
			"Range " + c.Name,
			fmt.Sprintf("%d..%d", c.Min, c.Max),
		})
	}
	transparent := "no"
	if p.HasTransparency {
		transparent = "yes"
	}
	fields = append(fields, field{"Transparent", transparent})
	for i, c := range p.DominantColors {
		value := fmt.Sprintf("%s (%d pixels)", c.Label, c.Count)
		if c.Hex != "" {
			value = fmt.Sprintf("%s (%d pixels, %s)", c.Label, c.Count, strings.ToLower(c.Hex))
		}
		fields = append(fields, field{fmt.Sprintf("Color #%d", i+1), value})
	}
	fields = append(fields,
		field{"Compressed size", fmt.Sprintf("%d bytes", p.Compression.CompressedSize)},
		field{"Uncompressed size", fmt.Sprintf("%d bytes", p.Compression.UncompressedSize)},
		field{"Compression ratio", strconv.FormatFloat(p.Compression.Ratio, 'f', 2, 64)},
	)
	return fields
}

func describeChunk(c ChunkInfo) string {
	kind := "ancillary"
	if c.Critical {
		kind = "critical"
	}
	crc := "crc ok"
	if !c.ChecksumOK {
		crc = "crc MISMATCH"
	}
	return fmt.Sprintf("offset %d, %d bytes, %s, %s", c.Offset, c.Length, kind, crc)
}

type field struct {
	name  string
	value string
}

func writeSection(buf *bytes.Buffer, title string, fields []field) {
	buf.WriteString(title)
	buf.WriteString("\n")
	for _, f := range fields {
		buf.WriteString(padRight(f.name, fieldWidth))
		buf.WriteString(": ")
		buf.WriteString(f.value)
		buf.WriteString("\n")
	}
}

func padRight(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}

// RenderJSON encodes reports as a JSON array. Output structs keep the field
// vocabulary stable no matter what the in-memory types do.
func RenderJSON(reports []*Report) (string, error) {
	out := make([]jsonReport, len(reports))
	for i, r := range reports {
		out[i] = buildJSONReport(r)
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", oops.New(err, "failed to encode reports")
	}
	return string(encoded), nil
}

type jsonReport struct {
	Path      string      `json:"path"`
	FileSize  int64       `json:"file_size"`
	Sha1      string      `json:"sha1"`
	Header    jsonHeader  `json:"header"`
	Chunks    []jsonChunk `json:"chunks"`
	Metadata  []jsonEntry `json:"metadata,omitempty"`
	Pixels    *jsonPixels `json:"pixels,omitempty"`
	PixelNote string      `json:"pixel_note,omitempty"`
}

type jsonHeader struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	BitDepth    int    `json:"bit_depth"`
	ColorType   int    `json:"color_type"`
	ColorName   string `json:"color_name"`
	Compression int    `json:"compression"`
	Filter      int    `json:"filter"`
	Interlace   int    `json:"interlace"`
}

type jsonChunk struct {
	Type       string `json:"type"`
	Offset     int64  `json:"offset"`
	Length     int    `json:"length"`
	Critical   bool   `json:"critical"`
	ChecksumOK bool   `json:"checksum_ok"`
}

type jsonEntry struct {
	Chunk  string      `json:"chunk"`
	Fields []jsonField `json:"fields"`
}

type jsonField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type jsonPixels struct {
	Shape           string          `json:"shape"`
	Stats           jsonStats       `json:"stats"`
	DominantColors  []jsonColor     `json:"dominant_colors,omitempty"`
	Compression     jsonCompression `json:"compression"`
	HasTransparency bool            `json:"has_transparency"`
}

type jsonStats struct {
	Min          uint16        `json:"min_value"`
	Max          uint16        `json:"max_value"`
	Mean         float64       `json:"mean_value"`
	StdDev       float64       `json:"std_dev"`
	UniqueValues int           `json:"unique_values,omitempty"`
	Channels     []jsonChannel `json:"channel_stats,omitempty"`
}

type jsonChannel struct {
	Name string `json:"name"`
	Min  uint16 `json:"min"`
	Max  uint16 `json:"max"`
}

type jsonColor struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Hex   string `json:"hex,omitempty"`
}

type jsonCompression struct {
	CompressedSize   int     `json:"compressed_size"`
	UncompressedSize int     `json:"uncompressed_size"`
	Ratio            float64 `json:"compression_ratio"`
}

func buildJSONReport(r *Report) jsonReport {
	out := jsonReport{
		Path:     r.Path,
		FileSize: r.FileSize,
		Sha1:     r.Sha1,
		Header: jsonHeader{
			Width:       r.Header.Width,
			Height:      r.Header.Height,
			BitDepth:    int(r.Header.BitDepth),
			ColorType:   int(r.Header.ColorType),
			ColorName:   r.Header.ColorType.String(),
			Compression: int(r.Header.Compression),
			Filter:      int(r.Header.Filter),
			Interlace:   int(r.Header.Interlace),
		},
		PixelNote: r.PixelNote,
	}
	for _, c := range r.Chunks {
		out.Chunks = append(out.Chunks, jsonChunk{
			Type:       c.Type,
			Offset:     c.Offset,
			Length:     c.Length,
			Critical:   c.Critical,
			ChecksumOK: c.ChecksumOK,
		})
	}
	for _, e := range r.Metadata {
		entry := jsonEntry{Chunk: e.ChunkType}
		for _, f := range e.Fields {
			entry.Fields = append(entry.Fields, jsonField{Name: f.Name, Value: f.Value})
		}
		out.Metadata = append(out.Metadata, entry)
	}
	if r.Pixels != nil {
		p := r.Pixels
		pixels := &jsonPixels{
			Shape: p.Shape,
			Stats: jsonStats{
				Min:          p.Stats.Min,
				Max:          p.Stats.Max,
				Mean:         p.Stats.Mean,
				StdDev:       p.Stats.StdDev,
				UniqueValues: p.Stats.UniqueValues,
			},
			Compression: jsonCompression{
				CompressedSize:   p.Compression.CompressedSize,
				UncompressedSize: p.Compression.UncompressedSize,
				Ratio:            p.Compression.Ratio,
			},
			HasTransparency: p.HasTransparency,
		}
		for _, c := range p.Stats.Channels {
			pixels.Stats.Channels = append(pixels.Stats.Channels, jsonChannel{
				Name: c.Name, Min: c.Min, Max: c.Max,
			})
		}
		for _, c := range p.DominantColors {
			pixels.DominantColors = append(pixels.DominantColors, jsonColor{
				Label: c.Label, Count: c.Count, Hex: c.Hex,
			})
		}
		out.Pixels = pixels
	}
	return out
}
