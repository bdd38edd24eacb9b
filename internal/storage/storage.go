// Package storage defines the row-level contract between the persistence
// gateway and the backing stores. Rows are loosely typed key/value records
// because the column-naming convention of the backing table is not known up
// front; the gateway and schema adapter deal with naming, the stores only
// move rows.
package storage

import "context"

// Row is a single persisted record keyed by column name.
type Row = map[string]any

// RowStore is the minimal create/read/update/delete-by-filter surface the
// gateway consumes. Implementations report unknown columns and uniqueness
// violations through the error types in this package (or their native
// equivalents, e.g. pgconn.PgError).
type RowStore interface {
	// SelectBy returns all rows whose column equals value, in the store's
	// own naming convention.
	SelectBy(ctx context.Context, column string, value any) ([]Row, error)
	// Insert writes a new row and returns it as stored.
	Insert(ctx context.Context, row Row) (Row, error)
	// UpdateBy patches the row whose pkColumn equals pkValue and returns the
	// updated row as stored.
	UpdateBy(ctx context.Context, pkColumn string, pkValue any, patch Row) (Row, error)
	// DeleteBy removes every row whose column equals value.
	DeleteBy(ctx context.Context, column string, value any) error
}
