package admintools

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"git.handmade.network/hmn/pngkit/src/catalog"
	"git.handmade.network/hmn/pngkit/src/db"
	"git.handmade.network/hmn/pngkit/src/jobs"
	"git.handmade.network/hmn/pngkit/src/logging"
	"git.handmade.network/hmn/pngkit/src/png"
	"git.handmade.network/hmn/pngkit/src/store"
	"git.handmade.network/hmn/pngkit/src/tool"
	"github.com/spf13/cobra"
)

func init() {
	catalogCommand := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain the scan catalog database",
	}
	tool.RootCommand.AddCommand(catalogCommand)

	scanCommand := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Catalog every PNG file under a directory",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide a directory to scan.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			err := catalog.EnsureSchema(ctx, conn)
			if err != nil {
				panic(err)
			}

			n, err := catalog.ScanDir(ctx, conn, args[0])
			if err != nil {
				panic(err)
			}
			fmt.Printf("Cataloged %d PNG files\n", n)
		},
	}
	catalogCommand.AddCommand(scanCommand)

	listCommand := &cobra.Command{
		Use:   "list",
		Short: "List cataloged files, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			limit, _ := cmd.Flags().GetInt("limit")
			prefix, _ := cmd.Flags().GetString("path-prefix")
			colorTypes, _ := cmd.Flags().GetIntSlice("color-type")

			q := catalog.ScanQuery{
				ColorTypes: colorTypes,
				PathPrefix: prefix,
				Limit:      limit,
			}
			if cmd.Flags().Changed("transparent") {
				transparent, _ := cmd.Flags().GetBool("transparent")
				q.HasTransparency = &transparent
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			err := catalog.EnsureSchema(ctx, conn)
			if err != nil {
				panic(err)
			}

			scans, err := catalog.FetchScans(ctx, conn, q)
			if err != nil {
				panic(err)
			}
			total, err := catalog.CountScans(ctx, conn)
			if err != nil {
				panic(err)
			}

			for _, scan := range scans {
				transparency := ""
				if scan.HasTransparency {
					transparency = "  transparent"
				}
				fmt.Printf("%s  %5dx%-5d %2d-bit %-22s %s%s\n",
					scan.ScannedAt.Format("2006-01-02 15:04"),
					scan.Width, scan.Height,
					scan.BitDepth,
					png.ColorType(scan.ColorType),
					scan.Path,
					transparency,
				)
			}
			fmt.Printf("%d of %d cataloged files\n", len(scans), total)
		},
	}
	listCommand.Flags().Int("limit", 20, "Maximum number of files to list")
	listCommand.Flags().String("path-prefix", "", "Only list files whose path starts with this prefix")
	listCommand.Flags().IntSlice("color-type", nil, "Only list files with these color types")
	listCommand.Flags().Bool("transparent", false, "Only list files with (or without) transparent pixels")
	catalogCommand.AddCommand(listCommand)

	watchCommand := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Periodically rescan a directory into the catalog",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide a directory to watch.\n\n")
				cmd.Usage()
				os.Exit(1)
			}
			interval, _ := cmd.Flags().GetDuration("interval")

			ctx := context.Background()
			conn := db.NewConnPool()
			defer conn.Close()

			err := catalog.EnsureSchema(ctx, conn)
			if err != nil {
				panic(err)
			}

			job := catalog.Watch(conn, args[0], interval)

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, os.Interrupt)
			<-signals
			logging.Info().Msg("Shutting down the watcher")

			unfinished := jobs.Jobs{job}.CancelAndWait(10 * time.Second)
			if len(unfinished) > 0 {
				logging.Warn().Strs("Unfinished", unfinished).Msg("Background jobs did not finish by the deadline")
			}
		},
	}
	watchCommand.Flags().Duration("interval", 5*time.Minute, "Time between rescans")
	catalogCommand.AddCommand(watchCommand)

	publishCommand := &cobra.Command{
		Use:   "publish [file]",
		Short: "Upload a PNG with its report and thumbnail to object storage",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide a file to publish.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Printf("Failed to read %s: %v\n", args[0], err)
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			err = catalog.EnsureSchema(ctx, conn)
			if err != nil {
				panic(err)
			}

			asset, err := store.Publish(ctx, conn, store.PublishInput{
				Content:  data,
				Filename: filepath.Base(args[0]),
			})
			if err != nil {
				panic(err)
			}

			fmt.Printf("Published %s\n", asset.S3Key)
			fmt.Printf("Report: %s\n", asset.ReportS3Key)
			if asset.ThumbnailS3Key != "" {
				fmt.Printf("Thumbnail: %s\n", asset.ThumbnailS3Key)
			}
		},
	}
	tool.RootCommand.AddCommand(publishCommand)
}
