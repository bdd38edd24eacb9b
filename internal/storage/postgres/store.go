package postgres

// Package postgres provides a pgx-backed row store over the loans table.
//
// The column-naming convention of the table is deliberately unknown here:
// statements are built from the column names present in the row the gateway
// hands over, with identifiers quoted so camelCase conventions survive
// postgres' folding. Unknown columns come back as undefined-column errors
// (42703) and duplicate contract ids as unique violations (23505); the
// gateway classifies both.

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vqtran/loanbook/internal/storage"
)

const table = "loans"

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// SelectBy returns all rows whose column equals value, keyed by the table's
// own column names.
func (s *Store) SelectBy(ctx context.Context, column string, value any) ([]storage.Row, error) {
	sql := fmt.Sprintf(`select * from %s where %s = $1`, table, quote(column))
	rows, err := s.pool.Query(ctx, sql, encode(value))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

// Insert writes a row built from exactly the columns present in it and
// returns the stored row.
func (s *Store) Insert(ctx context.Context, row storage.Row) (storage.Row, error) {
	cols := sortedColumns(row)
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = quote(c)
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = encode(row[c])
	}
	sql := fmt.Sprintf(`insert into %s (%s) values (%s) returning *`,
		table, strings.Join(names, ", "), strings.Join(marks, ", "))
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToMap)
}

// UpdateBy patches the row whose pkColumn equals pkValue and returns it.
func (s *Store) UpdateBy(ctx context.Context, pkColumn string, pkValue any, patch storage.Row) (storage.Row, error) {
	cols := sortedColumns(patch)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", quote(c), i+1)
		args = append(args, encode(patch[c]))
	}
	args = append(args, encode(pkValue))
	sql := fmt.Sprintf(`update %s set %s where %s = $%d returning *`,
		table, strings.Join(sets, ", "), quote(pkColumn), len(cols)+1)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToMap)
}

// DeleteBy removes every row whose column equals value.
func (s *Store) DeleteBy(ctx context.Context, column string, value any) error {
	sql := fmt.Sprintf(`delete from %s where %s = $1`, table, quote(column))
	_, err := s.pool.Exec(ctx, sql, encode(value))
	return err
}

func quote(identifier string) string {
	return pgx.Identifier{identifier}.Sanitize()
}

func sortedColumns(row storage.Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// encode passes scalars through and serializes composite values (the
// payment history) as JSON text for json/jsonb columns.
func encode(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, float64, time.Time, []byte:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	return string(b)
}
