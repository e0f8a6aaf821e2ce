package models

import (
	"github.com/google/uuid"
)

type Asset struct {
	ID uuid.UUID `db:"id"`

	S3Key          string `db:"s3_key"`
	ReportS3Key    string `db:"report_s3_key"`
	ThumbnailS3Key string `db:"thumbnail_s3_key"`
	Filename       string `db:"filename"`
	Size           int    `db:"size"`
	Sha1Sum        string `db:"sha1sum"`
	Width          int    `db:"width"`
	Height         int    `db:"height"`
}
