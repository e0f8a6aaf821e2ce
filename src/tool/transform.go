package tool

import (
	"bytes"
	"fmt"
	"os"

	"git.handmade.network/hmn/pngkit/src/png"
	"git.handmade.network/hmn/pngkit/src/transform"
	"github.com/spf13/cobra"
)

func init() {
	var keepICC bool
	stripCommand := &cobra.Command{
		Use:   "strip [in] [out]",
		Short: "Remove metadata chunks from a PNG file",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide an input and an output file.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			chunks := readChunksFile(args[0])
			stripped := transform.Strip(chunks, keepICC)
			writeChunksFile(args[1], stripped)
			fmt.Printf("Removed %d chunks\n", len(chunks)-len(stripped))
		},
	}
	stripCommand.Flags().BoolVar(&keepICC, "keep-icc", false, "Keep the embedded ICC color profile")
	RootCommand.AddCommand(stripCommand)

	var level int
	var filterName string
	recompressCommand := &cobra.Command{
		Use:   "recompress [in] [out]",
		Short: "Re-encode a PNG file's pixel data with a different compression level and row filter",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide an input and an output file.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			ft, err := png.ParseFilterType(filterName)
			if err != nil {
				fmt.Printf("Unknown filter '%s'; must be one of none, sub, up, average, paeth.\n\n", filterName)
				cmd.Usage()
				os.Exit(1)
			}

			chunks := readChunksFile(args[0])
			out, err := transform.Recompress(chunks, level, ft)
			if err != nil {
				fmt.Printf("Failed to recompress %s: %v\n", args[0], err)
				os.Exit(1)
			}
			writeChunksFile(args[1], out)
		},
	}
	recompressCommand.Flags().IntVar(&level, "level", 9, "zlib compression level (0-9)")
	recompressCommand.Flags().StringVar(&filterName, "filter", "paeth", "Row filter: none, sub, up, average, or paeth")
	RootCommand.AddCommand(recompressCommand)

	var maxDim int
	thumbnailCommand := &cobra.Command{
		Use:   "thumbnail [in] [out]",
		Short: "Scale a PNG image down to fit within a bounding box",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide an input and an output file.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			chunks := readChunksFile(args[0])
			header, err := png.FindHeader(chunks)
			if err != nil {
				fmt.Printf("Failed to parse %s: %v\n", args[0], err)
				os.Exit(1)
			}
			raster, err := png.DecodePixels(png.ImageData(chunks), header)
			if err != nil {
				fmt.Printf("Failed to decode %s: %v\n", args[0], err)
				os.Exit(1)
			}

			thumb, thumbHeader, err := transform.Thumbnail(raster, header, maxDim)
			if err != nil {
				fmt.Printf("Failed to scale %s: %v\n", args[0], err)
				os.Exit(1)
			}

			idat, err := png.EncodePixels(thumb, png.FilterPaeth)
			if err != nil {
				panic(err)
			}
			writeChunksFile(args[1], png.ImageChunks(thumbHeader, idat))
			fmt.Printf("%dx%d -> %dx%d\n", header.Width, header.Height, thumbHeader.Width, thumbHeader.Height)
		},
	}
	thumbnailCommand.Flags().IntVar(&maxDim, "max-dim", 256, "Maximum width or height of the thumbnail")
	RootCommand.AddCommand(thumbnailCommand)
}

func readChunksFile(path string) []png.Chunk {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Failed to read %s: %v\n", path, err)
		os.Exit(1)
	}
	chunks, err := png.ReadChunks(bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Failed to parse %s: %v\n", path, err)
		os.Exit(1)
	}
	return chunks
}

func writeChunksFile(path string, chunks []png.Chunk) {
	var buf bytes.Buffer
	err := png.WriteChunks(&buf, chunks)
	if err == nil {
		err = os.WriteFile(path, buf.Bytes(), 0644)
	}
	if err != nil {
		fmt.Printf("Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
}
