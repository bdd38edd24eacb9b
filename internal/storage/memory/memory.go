package memory

// Package memory provides an in-memory row store used for development and
// tests. It behaves like a single loans table created under one specific
// naming convention: rows referencing columns outside that convention are
// rejected with the same error shape a real database would produce, and the
// primary-key column carries a uniqueness constraint.
import (
	"context"
	"strings"
	"sync"

	"github.com/vqtran/loanbook/internal/errs"
	"github.com/vqtran/loanbook/internal/schema"
	"github.com/vqtran/loanbook/internal/storage"
)

const tableName = "loans"

// Store is an in-memory RowStore guarded by an RWMutex.
type Store struct {
	mu       sync.RWMutex
	mode     schema.Mode
	pkColumn string
	columns  map[string]struct{}
	rows     map[int64]storage.Row
	order    []int64
}

// Option configures a Store.
type Option func(*Store)

// WithMode fixes the naming convention of the simulated table.
func WithMode(m schema.Mode) Option { return func(s *Store) { s.mode = m } }

// WithPrimaryKey overrides the primary-key column name (e.g. "id").
func WithPrimaryKey(pk string) Option { return func(s *Store) { s.pkColumn = pk } }

// New constructs an empty store. The default table uses the canonical
// camelCase convention with contractId as primary key.
func New(opts ...Option) *Store {
	s := &Store{
		mode: schema.ModeCamel,
		rows: make(map[int64]storage.Row),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pkColumn == "" {
		s.pkColumn = schema.Rename("contractId", s.mode)
	}
	s.columns = columnSet(s.mode, s.pkColumn)
	return s
}

// columnSet enumerates the columns of the simulated table.
func columnSet(m schema.Mode, pk string) map[string]struct{} {
	cols := make(map[string]struct{})
	for _, f := range []string{
		"contractId", "name", "phone", "imei",
		"loanAmount", "givenAmount", "paidTotal", "repayAmount",
		"loanDays", "payInterval", "startDate", "status", "history",
	} {
		cols[schema.Rename(f, m)] = struct{}{}
	}
	cols["owner"] = struct{}{}
	cols[pk] = struct{}{}
	return cols
}

// Reset drops all rows. Test helper.
func (s *Store) Reset() {
	s.mu.Lock()
	s.rows = make(map[int64]storage.Row)
	s.order = nil
	s.mu.Unlock()
}

// Ready reports the store as always available.
func (s *Store) Ready(ctx context.Context) error { return nil }

func (s *Store) checkColumns(row storage.Row) error {
	for k := range row {
		if _, ok := s.columns[k]; !ok {
			return &storage.ColumnError{Table: tableName, Column: k}
		}
	}
	return nil
}

// rowKey extracts the primary-key value from a row, accepting either the
// configured pk column or the mode's contractId rendering.
func (s *Store) rowKey(row storage.Row) int64 {
	if v, ok := row[s.pkColumn]; ok {
		return toInt64(v)
	}
	return toInt64(row[schema.Rename("contractId", s.mode)])
}

// SelectBy returns copies of all rows whose column equals value.
func (s *Store) SelectBy(_ context.Context, column string, value any) ([]storage.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.columns[column]; !ok {
		return nil, &storage.ColumnError{Table: tableName, Column: column}
	}
	out := make([]storage.Row, 0)
	for _, id := range s.order {
		row := s.rows[id]
		if matches(row[column], value) {
			out = append(out, copyRow(row))
		}
	}
	return out, nil
}

// Insert stores a new row, enforcing the column set and the primary-key
// uniqueness constraint.
func (s *Store) Insert(_ context.Context, row storage.Row) (storage.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkColumns(row); err != nil {
		return nil, err
	}
	id := s.rowKey(row)
	if _, exists := s.rows[id]; exists {
		return nil, &storage.ConflictError{Constraint: tableName + "_pkey", Value: id}
	}
	stored := copyRow(row)
	if s.pkColumn == "id" {
		stored["id"] = id
	}
	s.rows[id] = stored
	s.order = append(s.order, id)
	return copyRow(stored), nil
}

// UpdateBy patches the row whose pkColumn equals pkValue.
func (s *Store) UpdateBy(_ context.Context, pkColumn string, pkValue any, patch storage.Row) (storage.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.columns[pkColumn]; !ok {
		return nil, &storage.ColumnError{Table: tableName, Column: pkColumn}
	}
	if err := s.checkColumns(patch); err != nil {
		return nil, err
	}
	row, ok := s.rows[toInt64(pkValue)]
	if !ok {
		return nil, errs.ErrNotFound
	}
	for k, v := range patch {
		row[k] = v
	}
	return copyRow(row), nil
}

// DeleteBy removes every row whose column equals value.
func (s *Store) DeleteBy(_ context.Context, column string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.columns[column]; !ok {
		return &storage.ColumnError{Table: tableName, Column: column}
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if matches(s.rows[id][column], value) {
			delete(s.rows, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return nil
}

func copyRow(row storage.Row) storage.Row {
	out := make(storage.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// matches compares loosely: numeric columns may arrive as different integer
// widths and the owner tag may be a fmt.Stringer on one side.
func matches(a, b any) bool {
	if a == b {
		return true
	}
	if ai, aok := tryInt64(a); aok {
		if bi, bok := tryInt64(b); bok {
			return ai == bi
		}
	}
	return asText(a) != "" && asText(a) == asText(b)
}

func toInt64(v any) int64 {
	n, _ := tryInt64(v)
	return n
}

func tryInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func asText(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case interface{ String() string }:
		return s.String()
	}
	return ""
}
