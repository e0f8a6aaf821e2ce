/*
This package contains lowish-level APIs for making database queries to our Postgres database. It streamlines the process of mapping query results to Go types, while allowing you to write arbitrary SQL queries.

The primary functions are Query and QueryScalar. See the function documentation for detailed usage.

Query syntax

Arguments can be provided using placeholders like $1, $2, etc. All arguments will be safely escaped and mapped from their Go type to the correct Postgres type. (This is a direct proxy to pgx.)

	paths, err := db.QueryScalar[string](ctx, conn,
		`
		SELECT path
		FROM scan
		WHERE
			color_type = ANY($1)
			AND has_transparency = $2
		`,
		[]int{4, 6},
		true,
	)

(This also demonstrates a useful tip: if you want to use a slice in your query, use Postgres arrays instead of IN.)

When querying individual fields, use QueryScalar and simply select the field like so:

	paths, err := db.QueryScalar[string](ctx, conn, `SELECT path FROM scan`)

To query multiple columns at once, use Query with a struct type with `db:"column_name"` tags. Result columns are matched to struct fields by tag, and struct fields with no matching column are left at their zero value:

	type Scan struct {
		ID        uuid.UUID `db:"id"`
		Path      string    `db:"path"`
		ScannedAt time.Time `db:"scanned_at"`
	}
	scans, err := db.Query[Scan](ctx, conn, `SELECT id, path, scanned_at FROM scan`)
*/
package db
