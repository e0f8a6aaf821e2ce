package inspect

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	_, data := rgbaFixture(t)
	report, err := Bytes("fixture.png", data)
	require.NoError(t, err)

	out := RenderText([]*Report{report})

	assert.Contains(t, out, "General\n")
	assert.Contains(t, out, "Path                    : fixture.png\n")
	assert.Contains(t, out, "Width                   : 2\n")
	assert.Contains(t, out, "Color type              : truecolor with alpha (6)\n")
	assert.Contains(t, out, "IHDR                    : offset 8, 13 bytes, critical, crc ok\n")
	assert.Contains(t, out, "keyword                 : Title\n")
	assert.Contains(t, out, "Shape                   : 2x2x4\n")
	assert.Contains(t, out, "Transparent             : yes\n")
	assert.Contains(t, out, "Color #1                : RGB(255, 0, 0) (2 pixels, #ff0000)")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestRenderTextMultipleReports(t *testing.T) {
	_, data := rgbaFixture(t)
	a, err := Bytes("a.png", data)
	require.NoError(t, err)
	b, err := Bytes("b.png", data)
	require.NoError(t, err)

	out := RenderText([]*Report{a, b})
	assert.Contains(t, out, "Path                    : a.png")
	assert.Contains(t, out, "Path                    : b.png")
	assert.Equal(t, 2, strings.Count(out, "General\n"))
}

func TestRenderTextPixelNote(t *testing.T) {
	report := &Report{
		Path:      "odd.png",
		PixelNote: "pixel data not decoded: something",
	}
	out := RenderText([]*Report{report})
	assert.Contains(t, out, "Note                    : pixel data not decoded")
}

func TestRenderJSON(t *testing.T) {
	_, data := rgbaFixture(t)
	report, err := Bytes("fixture.png", data)
	require.NoError(t, err)

	out, err := RenderJSON([]*Report{report})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)

	r := decoded[0]
	assert.Equal(t, "fixture.png", r["path"])

	header, ok := r["header"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), header["width"])
	assert.Equal(t, float64(6), header["color_type"])
	assert.Equal(t, "truecolor with alpha", header["color_name"])

	pixels, ok := r["pixels"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2x2x4", pixels["shape"])
	assert.Equal(t, true, pixels["has_transparency"])

	stats, ok := pixels["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), stats["min_value"])
	assert.Equal(t, float64(255), stats["max_value"])
	require.Len(t, stats["channel_stats"], 4)

	colors, ok := pixels["dominant_colors"].([]any)
	require.True(t, ok)
	first, ok := colors[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "RGB(255, 0, 0)", first["label"])
	assert.Equal(t, float64(2), first["count"])
}

func TestRenderJSONOmitsEmptySections(t *testing.T) {
	report := &Report{Path: "bare.png", PixelNote: "pixel data not decoded: interlaced"}
	out, err := RenderJSON([]*Report{report})
	require.NoError(t, err)
	assert.NotContains(t, out, "\"pixels\"")
	assert.NotContains(t, out, "\"metadata\"")
	assert.Contains(t, out, "\"pixel_note\"")
}
