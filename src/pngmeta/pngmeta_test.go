package pngmeta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.handmade.network/hmn/pngkit/src/png"
)

func TestExtract(t *testing.T) {
	hdr := png.Header{Width: 4, Height: 4, BitDepth: 8, ColorType: png.ColorIndexed}

	t.Run("mixed chunks in file order", func(t *testing.T) {
		chunks := []png.Chunk{
			png.NewChunk("tEXt", []byte("Title\x00First")),
			png.NewChunk("gAMA", []byte{0, 1, 134, 160}),
			png.NewChunk("PLTE", []byte{1, 2, 3, 4, 5, 6}),
			png.NewChunk("tIME", []byte{0x07, 0xe5, 6, 1, 12, 30, 5}),
			png.NewChunk("tEXt", []byte("Author\x00Second")),
		}
		entries, err := Extract(chunks, hdr)
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, "tEXt", entries[0].ChunkType)
		assert.Equal(t, "PLTE", entries[1].ChunkType)
		assert.Equal(t, "tIME", entries[2].ChunkType)
		assert.Equal(t, "tEXt", entries[3].ChunkType)
		assert.Equal(t, []Field{{"keyword", "Author"}, {"text", "Second"}}, entries[3].Fields)
	})

	t.Run("bad text chunks are skipped", func(t *testing.T) {
		chunks := []png.Chunk{
			png.NewChunk("tEXt", []byte("no separator")),
			png.NewChunk("iTXt", []byte("broken")),
			png.NewChunk("eXIf", []byte("not a tiff")),
			png.NewChunk("tEXt", []byte("Title\x00still here")),
		}
		entries, err := Extract(chunks, hdr)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "still here", entries[0].Fields[1].Value)
	})

	t.Run("bad fixed-layout chunks fail the scan", func(t *testing.T) {
		for _, c := range []png.Chunk{
			png.NewChunk("tIME", []byte{1, 2, 3}),
			png.NewChunk("pHYs", []byte{1, 2, 3}),
			png.NewChunk("zTXt", []byte("Key\x00\x07garbage")),
			png.NewChunk("PLTE", []byte{1, 2, 3, 4}),
		} {
			_, err := Extract([]png.Chunk{c}, hdr)
			assert.Error(t, err, "chunk %s", c.Type)
		}
	})

	t.Run("palette forbidden for grayscale", func(t *testing.T) {
		gray := png.Header{Width: 4, Height: 4, BitDepth: 8, ColorType: png.ColorGrayscale}
		_, err := Extract([]png.Chunk{png.NewChunk("PLTE", []byte{1, 2, 3})}, gray)
		assert.True(t, errors.Is(err, png.ErrInvalidChunk))
	})

	t.Run("time and density formatting", func(t *testing.T) {
		chunks := []png.Chunk{
			png.NewChunk("tIME", []byte{0x07, 0xe5, 6, 1, 12, 30, 5}),
			png.NewChunk("pHYs", []byte{0x00, 0x00, 0x0b, 0x13, 0x00, 0x00, 0x0b, 0x13, 1}),
		}
		entries, err := Extract(chunks, hdr)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, []Field{{"modified", "2021-06-01 12:30:05"}}, entries[0].Fields)
		assert.Equal(t, []Field{
			{"pixels per unit x", "2835"},
			{"pixels per unit y", "2835"},
			{"unit", "meter"},
		}, entries[1].Fields)
	})

	t.Run("palette entry includes a preview", func(t *testing.T) {
		entries, err := Extract([]png.Chunk{png.NewChunk("PLTE", []byte{255, 0, 0, 0, 255, 0})}, hdr)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, []Field{
			{"colors", "2"},
			{"preview", "#ff0000 #00ff00"},
		}, entries[0].Fields)
	})

	t.Run("compressed text round trips", func(t *testing.T) {
		chunks := []png.Chunk{
			png.NewChunk("zTXt", append([]byte("Software\x00\x00"), deflate(t, []byte("pngkit"))...)),
			png.NewChunk("iTXt", append([]byte("Comment\x00\x01\x00en\x00\x00"), deflate(t, []byte("hi"))...)),
		}
		entries, err := Extract(chunks, hdr)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, []Field{{"keyword", "Software"}, {"text", "pngkit"}}, entries[0].Fields)
		assert.Equal(t, []Field{
			{"keyword", "Comment"},
			{"language", "en"},
			{"translated keyword", ""},
			{"text", "hi"},
		}, entries[1].Fields)
	})

	t.Run("no metadata", func(t *testing.T) {
		chunks := []png.Chunk{
			png.NewChunk("IHDR", make([]byte, 13)),
			png.NewChunk("IDAT", []byte{1, 2, 3}),
			png.NewChunk("IEND", nil),
		}
		entries, err := Extract(chunks, hdr)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
