package catalog

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"git.handmade.network/hmn/pngkit/src/db"
	"git.handmade.network/hmn/pngkit/src/inspect"
	"git.handmade.network/hmn/pngkit/src/jobs"
	"git.handmade.network/hmn/pngkit/src/logging"
	"git.handmade.network/hmn/pngkit/src/oops"
	"git.handmade.network/hmn/pngkit/src/utils"
	"github.com/jpillora/backoff"
)

// Walks dir and catalogs every PNG file in it. Files that fail to parse are
// logged and skipped; database failures abort the walk. Returns the number of
// files cataloged.
func ScanDir(ctx context.Context, conn db.ConnOrTx, dir string) (int, error) {
	logger := logging.ExtractLogger(ctx)

	numSaved := 0
	err := fs.WalkDir(utils.DirFS(dir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".png") {
			return nil
		}

		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		report, err := inspect.File(fullPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", fullPath).Msg("Skipping file that failed to parse")
			return nil
		}

		_, err = Save(ctx, conn, report)
		if err != nil {
			return err
		}

		numSaved++
		return nil
	})
	if err != nil {
		return numSaved, oops.New(err, "failed to scan %s", dir)
	}

	return numSaved, nil
}

// Rescans dir on an interval, keeping the catalog in sync with the files on
// disk. After a failed pass it backs off exponentially before the next
// attempt.
func Watch(conn db.ConnOrTx, dir string, interval time.Duration) *jobs.Job {
	job := jobs.New("catalog watch")
	go func() {
		defer job.Finish()

		boff := backoff.Backoff{
			Min: 1 * time.Second,
			Max: 5 * time.Minute,
		}

		t := utils.NewInstaTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				err := func() (err error) {
					defer utils.RecoverPanicAsError(&err)

					n, err := ScanDir(job.Ctx, conn, dir)
					if err != nil {
						return err
					}
					if n > 0 {
						job.Logger.Info().Int("num files", n).Msg("Cataloged PNG files")
					}
					return nil
				}()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return
					}
					dur := boff.Duration()
					job.Logger.Error().
						Err(err).
						Dur("retrying after", dur).
						Msg("failed to scan directory")
					if utils.SleepContext(job.Ctx, dur) != nil {
						return
					}
				} else {
					boff.Reset()
				}
			case <-job.Canceled():
				return
			}
		}
	}()
	return job
}
