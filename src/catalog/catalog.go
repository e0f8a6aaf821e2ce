package catalog

import (
	"context"
	"time"

	"git.handmade.network/hmn/pngkit/src/db"
	"git.handmade.network/hmn/pngkit/src/inspect"
	"git.handmade.network/hmn/pngkit/src/models"
	"git.handmade.network/hmn/pngkit/src/oops"
	"github.com/google/uuid"
)

// Creates the catalog tables if they do not exist yet. Safe to run on
// every startup.
func EnsureSchema(ctx context.Context, conn db.ConnOrTx) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scan (
			id UUID PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			size BIGINT NOT NULL,
			sha1sum TEXT NOT NULL,
			scanned_at TIMESTAMP WITH TIME ZONE NOT NULL,
			width INT NOT NULL,
			height INT NOT NULL,
			bit_depth INT NOT NULL,
			color_type INT NOT NULL,
			chunk_count INT NOT NULL,
			has_transparency BOOLEAN NOT NULL
		);
	`)
	if err != nil {
		return oops.New(err, "failed to create scan table")
	}

	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS asset (
			id UUID PRIMARY KEY,
			s3_key TEXT NOT NULL,
			report_s3_key TEXT NOT NULL,
			thumbnail_s3_key TEXT NOT NULL,
			filename TEXT NOT NULL,
			size INT NOT NULL,
			sha1sum TEXT NOT NULL,
			width INT NOT NULL,
			height INT NOT NULL
		);
	`)
	if err != nil {
		return oops.New(err, "failed to create asset table")
	}

	return nil
}

// Records the results of an inspection in the catalog. Scans are keyed by
// path, so rescanning a file updates its existing row.
func Save(ctx context.Context, conn db.ConnOrTx, report *inspect.Report) (*models.Scan, error) {
	hasTransparency := false
	if report.Pixels != nil {
		hasTransparency = report.Pixels.HasTransparency
	}

	scan, err := db.QueryOne[models.Scan](ctx, conn,
		`
		INSERT INTO scan (
			id, path, size, sha1sum, scanned_at,
			width, height, bit_depth, color_type,
			chunk_count, has_transparency
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (path) DO UPDATE SET
			size = EXCLUDED.size,
			sha1sum = EXCLUDED.sha1sum,
			scanned_at = EXCLUDED.scanned_at,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			bit_depth = EXCLUDED.bit_depth,
			color_type = EXCLUDED.color_type,
			chunk_count = EXCLUDED.chunk_count,
			has_transparency = EXCLUDED.has_transparency
		RETURNING *
		`,
		uuid.New(),
		report.Path,
		report.FileSize,
		report.Sha1,
		time.Now(),
		report.Header.Width,
		report.Header.Height,
		int(report.Header.BitDepth),
		int(report.Header.ColorType),
		len(report.Chunks),
		hasTransparency,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save scan")
	}

	return scan, nil
}

type ScanQuery struct {
	ColorTypes      []int
	HasTransparency *bool
	PathPrefix      string

	Limit, Offset int // if empty, no pagination
}

func FetchScans(ctx context.Context, conn db.ConnOrTx, q ScanQuery) ([]*models.Scan, error) {
	var qb db.QueryBuilder
	qb.Add(
		`
		SELECT *
		FROM scan
		WHERE
			TRUE
		`,
	)
	if len(q.ColorTypes) > 0 {
		qb.Add(`AND color_type = ANY ($?)`, q.ColorTypes)
	}
	if q.HasTransparency != nil {
		qb.Add(`AND has_transparency = $?`, *q.HasTransparency)
	}
	if q.PathPrefix != "" {
		qb.Add(`AND path LIKE $? || '%'`, q.PathPrefix)
	}
	qb.Add(`ORDER BY scanned_at DESC`)
	if q.Limit > 0 {
		qb.Add(`LIMIT $? OFFSET $?`, q.Limit, q.Offset)
	}

	scans, err := db.Query[models.Scan](ctx, conn, qb.String(), qb.Args()...)
	if err != nil {
		return nil, oops.New(err, "failed to fetch scans")
	}

	return scans, nil
}

// Returns the most recently scanned files, newest first.
func Recent(ctx context.Context, conn db.ConnOrTx, limit int) ([]*models.Scan, error) {
	return FetchScans(ctx, conn, ScanQuery{Limit: limit})
}

func CountScans(ctx context.Context, conn db.ConnOrTx) (int, error) {
	count, err := db.QueryOneScalar[int](ctx, conn, `SELECT COUNT(*) FROM scan`)
	if err != nil {
		return 0, oops.New(err, "failed to count scans")
	}
	return count, nil
}
