package fakes3

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"git.handmade.network/hmn/pngkit/src/logging"
	"git.handmade.network/hmn/pngkit/src/tool"
	"github.com/spf13/cobra"
)

// Same port as the dev Spaces endpoint in config.
const addr = ":9004"

func init() {
	s3Command := &cobra.Command{
		Use:   "fakes3 [storage folder]",
		Short: "Run a local s3 server that stores in the filesystem",
		Run: func(cmd *cobra.Command, args []string) {
			targetFolder := "./tmp"
			if len(args) > 0 {
				targetFolder = args[0]
			}
			err := os.MkdirAll(targetFolder, fs.ModePerm)
			if err != nil {
				panic(err)
			}

			http.HandleFunc("/", handler(targetFolder))
			logging.Info().Str("addr", addr).Str("folder", targetFolder).Msg("Serving fake s3")
			err = http.ListenAndServe(addr, nil)
			logging.Fatal().Err(err).Msg("fake s3 server shut down")
		},
	}

	tool.RootCommand.AddCommand(s3Command)
}

func handler(targetFolder string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bucket, key := bucketKey(r)

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			panic(err)
		}
		logging.Info().
			Str("bucket", bucket).
			Str("key", key).
			Str("method", r.Method).
			Int("len(body)", len(bodyBytes)).
			Msg("Incoming request")

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("Location", fmt.Sprintf("/%s", bucket))
			err := os.MkdirAll(filepath.Join(targetFolder, bucket), fs.ModePerm)
			if err != nil {
				panic(err)
			}
			if key != "" {
				err = os.WriteFile(filepath.Join(targetFolder, bucket, key), bodyBytes, fs.ModePerm)
				if err != nil {
					panic(err)
				}
			}
		case http.MethodGet:
			fileBytes, err := os.ReadFile(filepath.Join(targetFolder, bucket, key))
			if err != nil {
				http.NotFound(w, r)
				return
			}
			w.Write(fileBytes)
		default:
			http.Error(w, "unimplemented method", http.StatusMethodNotAllowed)
		}
	}
}

// Splits a path-style request into bucket and object key. Slashes inside the
// key are flattened so every object maps to a single file in the bucket's
// folder.
func bucketKey(r *http.Request) (string, string) {
	slashIdx := strings.IndexByte(r.URL.Path[1:], '/')
	if slashIdx == -1 {
		return r.URL.Path[1:], ""
	}
	return r.URL.Path[1 : 1+slashIdx], strings.Replace(r.URL.Path[2+slashIdx:], "/", "~", -1)
}
