package store

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"regexp"

	"git.handmade.network/hmn/pngkit/src/config"
	"git.handmade.network/hmn/pngkit/src/db"
	"git.handmade.network/hmn/pngkit/src/inspect"
	"git.handmade.network/hmn/pngkit/src/logging"
	"git.handmade.network/hmn/pngkit/src/models"
	"git.handmade.network/hmn/pngkit/src/oops"
	"git.handmade.network/hmn/pngkit/src/png"
	"git.handmade.network/hmn/pngkit/src/transform"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

const thumbnailMaxDim = 256

var client *s3.Client

func init() {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.Config.Spaces.Key,
				config.Config.Spaces.Secret,
				"",
			),
		),
		awsconfig.WithRegion(config.Config.Spaces.Region),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL: config.Config.Spaces.Endpoint,
			}, nil
		})),
	)
	if err != nil {
		panic(err)
	}
	client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

type PublishInput struct {
	Content  []byte
	Filename string
}

var REIllegalFilenameChars = regexp.MustCompile(`[^\w\-.]`)

func SanitizeFilename(filename string) string {
	if filename == "" {
		return "unnamed"
	}
	return REIllegalFilenameChars.ReplaceAllString(filename, "_")
}

func AssetKey(id, filename string) string {
	return fmt.Sprintf("%s/%s", id, filename)
}

// Publishes a PNG file to object storage along with its inspection report
// and a thumbnail, and records the result in the asset table. The file must
// parse cleanly; files that do not are rejected rather than published.
func Publish(ctx context.Context, dbConn db.ConnOrTx, in PublishInput) (*models.Asset, error) {
	filename := SanitizeFilename(in.Filename)

	if len(in.Content) == 0 {
		return nil, oops.New(nil, "could not publish asset '%s': no bytes of data were provided", filename)
	}

	report, err := inspect.Bytes(filename, in.Content)
	if err != nil {
		return nil, oops.New(err, "could not publish asset '%s'", filename)
	}

	id := uuid.New()
	key := AssetKey(id.String(), filename)
	checksum := fmt.Sprintf("%x", sha1.Sum(in.Content))

	pngType := "image/png"
	err = putObject(ctx, key, in.Content, pngType)
	if err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) && apiError.ErrorCode() == "NoSuchBucket" {
			_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
				Bucket: &config.Config.Spaces.Bucket,
			})
			if err != nil {
				return nil, oops.New(err, "failed to create assets bucket")
			}

			err = putObject(ctx, key, in.Content, pngType)
			if err != nil {
				return nil, oops.New(err, "failed to upload asset")
			}
		} else {
			return nil, oops.New(err, "failed to upload asset")
		}
	}

	reportJson, err := inspect.RenderJSON([]*inspect.Report{report})
	if err != nil {
		return nil, oops.New(err, "failed to render report for asset")
	}
	reportKey := AssetKey(id.String(), fmt.Sprintf("%s_report.json", id.String()))
	err = putObject(ctx, reportKey, []byte(reportJson), "application/json")
	if err != nil {
		return nil, oops.New(err, "failed to upload asset report")
	}

	var thumbnailKey string
	thumbBytes, err := makeThumbnail(in.Content, thumbnailMaxDim)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to generate thumbnail for asset")
	} else {
		thumbnailKey = AssetKey(id.String(), fmt.Sprintf("%s_thumb.png", id.String()))
		err = putObject(ctx, thumbnailKey, thumbBytes, pngType)
		if err != nil {
			logging.Error().Err(err).Msg("Failed to upload thumbnail for asset")
			thumbnailKey = ""
		}
	}

	asset, err := db.QueryOne[models.Asset](ctx, dbConn,
		`
		INSERT INTO asset (id, s3_key, report_s3_key, thumbnail_s3_key, filename, size, sha1sum, width, height)
		VALUES            ($1, $2,     $3,            $4,               $5,       $6,   $7,      $8,    $9)
		RETURNING *
		`,
		id,
		key,
		reportKey,
		thumbnailKey,
		filename,
		len(in.Content),
		checksum,
		report.Header.Width,
		report.Header.Height,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save asset record")
	}

	return asset, nil
}

func putObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &config.Config.Spaces.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: &contentType,
	})
	return err
}

// Decodes the image, scales it down, and re-encodes it as a standalone PNG.
// Fails for images whose pixels cannot be decoded, such as indexed or
// interlaced ones; those are published without a thumbnail.
func makeThumbnail(data []byte, maxDim int) ([]byte, error) {
	chunks, err := png.ReadChunks(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	header, err := png.FindHeader(chunks)
	if err != nil {
		return nil, err
	}

	raster, err := png.DecodePixels(png.ImageData(chunks), header)
	if err != nil {
		return nil, err
	}

	thumb, thumbHeader, err := transform.Thumbnail(raster, header, maxDim)
	if err != nil {
		return nil, err
	}

	idat, err := png.EncodePixels(thumb, png.FilterPaeth)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = png.WriteChunks(&buf, png.ImageChunks(thumbHeader, idat))
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
