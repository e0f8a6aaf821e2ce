package tool

import (
	"bytes"
	"fmt"
	"os"

	"git.handmade.network/hmn/pngkit/src/inspect"
	"git.handmade.network/hmn/pngkit/src/png"
	"github.com/spf13/cobra"
)

func init() {
	var format string
	var noPixels bool

	inspectCommand := &cobra.Command{
		Use:   "inspect [file]...",
		Short: "Report on the structure and contents of PNG files",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide at least one file to inspect.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			var reports []*inspect.Report
			for _, path := range args {
				report, err := inspect.File(path)
				if err != nil {
					fmt.Printf("Failed to inspect %s: %v\n", path, err)
					os.Exit(1)
				}
				if noPixels {
					report.Pixels = nil
					report.PixelNote = ""
				}
				reports = append(reports, report)
			}

			switch format {
			case "text":
				fmt.Println(inspect.RenderText(reports))
			case "json":
				out, err := inspect.RenderJSON(reports)
				if err != nil {
					panic(err)
				}
				fmt.Println(out)
			default:
				fmt.Printf("Unknown format '%s'; must be text or json.\n\n", format)
				cmd.Usage()
				os.Exit(1)
			}
		},
	}
	inspectCommand.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	inspectCommand.Flags().BoolVar(&noPixels, "no-pixels", false, "Omit pixel statistics from the report")
	RootCommand.AddCommand(inspectCommand)

	chunksCommand := &cobra.Command{
		Use:   "chunks [file]",
		Short: "List every chunk in a PNG file",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide a file.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Printf("Failed to read %s: %v\n", args[0], err)
				os.Exit(1)
			}
			chunks, err := png.ReadChunks(bytes.NewReader(data))
			if err != nil {
				fmt.Printf("Failed to parse %s: %v\n", args[0], err)
				os.Exit(1)
			}

			for _, info := range inspect.ChunkInfos(chunks) {
				criticality := "ancillary"
				if info.Critical {
					criticality = "critical"
				}
				crc := "crc ok"
				if !info.ChecksumOK {
					crc = "crc MISMATCH"
				}
				fmt.Printf("%-4s  offset %-10d %10d bytes  %-9s  %s\n",
					info.Type, info.Offset, info.Length, criticality, crc)
			}
		},
	}
	RootCommand.AddCommand(chunksCommand)
}
