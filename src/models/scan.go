package models

import (
	"time"

	"github.com/google/uuid"
)

type Scan struct {
	ID        uuid.UUID `db:"id"`
	Path      string    `db:"path"`
	Size      int64     `db:"size"`
	Sha1Sum   string    `db:"sha1sum"`
	ScannedAt time.Time `db:"scanned_at"`

	Width     int `db:"width"`
	Height    int `db:"height"`
	BitDepth  int `db:"bit_depth"`
	ColorType int `db:"color_type"`

	ChunkCount      int  `db:"chunk_count"`
	HasTransparency bool `db:"has_transparency"`
}
