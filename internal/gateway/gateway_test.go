package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/vqtran/loanbook/internal/errs"
	"github.com/vqtran/loanbook/internal/loan"
	"github.com/vqtran/loanbook/internal/schema"
	"github.com/vqtran/loanbook/internal/storage"
)

// scriptedStore accepts writes only under one naming convention and rejects
// configured identifiers, mimicking a remote table of unknown shape.
type scriptedStore struct {
	mode     schema.Mode
	existing map[int64]struct{}
	rows     []storage.Row

	inserts int
	updates int
	deletes int
}

func (s *scriptedStore) discriminator() string {
	return schema.Rename("givenAmount", s.mode)
}

func (s *scriptedStore) SelectBy(ctx context.Context, column string, value any) ([]storage.Row, error) {
	return s.rows, nil
}

func (s *scriptedStore) Insert(ctx context.Context, row storage.Row) (storage.Row, error) {
	s.inserts++
	if _, ok := row[s.discriminator()]; !ok {
		return nil, &storage.ColumnError{Table: "loans", Column: s.discriminator()}
	}
	id, _ := row[schema.Rename("contractId", s.mode)].(int64)
	if _, taken := s.existing[id]; taken {
		return nil, &storage.ConflictError{Constraint: "loans_pkey", Value: id}
	}
	return row, nil
}

func (s *scriptedStore) UpdateBy(ctx context.Context, pkColumn string, pkValue any, patch storage.Row) (storage.Row, error) {
	s.updates++
	if _, ok := patch[schema.Rename("paidTotal", s.mode)]; !ok {
		return nil, &storage.ColumnError{Table: "loans", Column: schema.Rename("paidTotal", s.mode)}
	}
	out := storage.Row{schema.Rename("contractId", s.mode): pkValue}
	for k, v := range patch {
		out[k] = v
	}
	return out, nil
}

func (s *scriptedStore) DeleteBy(ctx context.Context, column string, value any) error {
	s.deletes++
	return nil
}

func testGateway(s storage.RowStore) *Gateway {
	return New(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleLoan() loan.Loan {
	return loan.Loan{
		ContractID:  123456,
		Name:        "borrower",
		GivenAmount: 3000,
		LoanAmount:  3000,
		RepayAmount: 3000,
		LoanDays:    30,
		PayInterval: 10,
		StartDate:   "2025-01-01",
		Status:      loan.StatusActive,
		History:     []loan.PaymentEntry{},
		Owner:       uuid.New(),
	}
}

func TestCreate_FallsBackToStoreMode(t *testing.T) {
	store := &scriptedStore{mode: schema.ModeSnake}
	g := testGateway(store)

	got, err := g.Create(context.Background(), sampleLoan(), map[int64]struct{}{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// candidate order camel, lower, snake: the snake store accepts third
	if store.inserts != 3 {
		t.Errorf("inserts = %d, want 3", store.inserts)
	}
	if g.Config().Mode != schema.ModeSnake {
		t.Errorf("locked mode = %v, want snake", g.Config().Mode)
	}
	if got.ContractID != 123456 || got.GivenAmount != 3000 {
		t.Errorf("normalized loan = %+v", got)
	}
}

func TestCreate_ReissuesOnUniqueViolation(t *testing.T) {
	store := &scriptedStore{
		mode:     schema.ModeCamel,
		existing: map[int64]struct{}{123456: {}},
	}
	g := testGateway(store)
	taken := map[int64]struct{}{}

	got, err := g.Create(context.Background(), sampleLoan(), taken)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.inserts != 2 {
		t.Errorf("inserts = %d, want 2", store.inserts)
	}
	if got.ContractID == 123456 {
		t.Error("rejected identifier was not replaced")
	}
	if _, ok := taken[123456]; !ok {
		t.Error("rejected identifier missing from the taken-set")
	}
}

func TestCreate_GivesUpAfterSevenAttempts(t *testing.T) {
	store := &scriptedStore{mode: schema.ModeCamel, existing: map[int64]struct{}{}}
	// every identifier collides
	allTaken := store.existing
	for n := int64(100000); n <= 999999; n++ {
		allTaken[n] = struct{}{}
	}
	g := testGateway(store)

	_, err := g.Create(context.Background(), sampleLoan(), map[int64]struct{}{})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !errors.Is(err, errs.ErrConflict) {
		t.Errorf("err = %v, want a uniqueness violation", err)
	}
	if store.inserts != maxCreateAttempts {
		t.Errorf("inserts = %d, want %d", store.inserts, maxCreateAttempts)
	}
}

func TestCreate_AllModesRejected(t *testing.T) {
	store := &rejectAllStore{}
	g := testGateway(store)

	_, err := g.Create(context.Background(), sampleLoan(), map[int64]struct{}{})
	if err == nil {
		t.Fatal("expected error after exhausting naming modes")
	}
	if !errors.Is(err, errs.ErrInvalid) {
		t.Errorf("err = %v, want the last column error", err)
	}
	if store.inserts != 3 {
		t.Errorf("inserts = %d, want one per naming mode", store.inserts)
	}
}

type rejectAllStore struct {
	inserts int
}

func (s *rejectAllStore) SelectBy(ctx context.Context, column string, value any) ([]storage.Row, error) {
	return nil, nil
}

func (s *rejectAllStore) Insert(ctx context.Context, row storage.Row) (storage.Row, error) {
	s.inserts++
	return nil, &storage.ColumnError{Table: "loans", Column: "givenAmount"}
}

func (s *rejectAllStore) UpdateBy(ctx context.Context, pkColumn string, pkValue any, patch storage.Row) (storage.Row, error) {
	return nil, &storage.ColumnError{Table: "loans", Column: "givenAmount"}
}

func (s *rejectAllStore) DeleteBy(ctx context.Context, column string, value any) error {
	return nil
}

func TestUpdate_LocksDiscoveredMode(t *testing.T) {
	store := &scriptedStore{mode: schema.ModeLower}
	g := testGateway(store)

	_, err := g.Update(context.Background(), 123456, storage.Row{"paidTotal": int64(500)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.updates != 2 {
		t.Errorf("updates = %d, want camel then lower", store.updates)
	}
	if g.Config().Mode != schema.ModeLower {
		t.Errorf("locked mode = %v, want lower", g.Config().Mode)
	}

	// the locked mode is attempted first on the next write
	store.updates = 0
	if _, err := g.Update(context.Background(), 123456, storage.Row{"paidTotal": int64(600)}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if store.updates != 1 {
		t.Errorf("updates after lock = %d, want 1", store.updates)
	}
}

func TestLoad_DetectsModeAndPrimaryKey(t *testing.T) {
	owner := uuid.New()
	store := &scriptedStore{
		mode: schema.ModeSnake,
		rows: []storage.Row{
			{"contract_id": int64(222222), "given_amount": int64(100), "owner": owner.String()},
			{"contract_id": int64(111111), "given_amount": int64(200), "owner": owner.String()},
		},
	}
	g := testGateway(store)

	loans, err := g.Load(context.Background(), owner)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("loaded %d loans, want 2", len(loans))
	}
	if loans[0].ContractID != 111111 || loans[1].ContractID != 222222 {
		t.Errorf("loans not sorted by contract id: %d, %d", loans[0].ContractID, loans[1].ContractID)
	}
	cfg := g.Config()
	if cfg.Mode != schema.ModeSnake {
		t.Errorf("detected mode = %v, want snake", cfg.Mode)
	}
	if cfg.PrimaryKey != "contractId" {
		t.Errorf("detected pk = %q, want the canonical contractId", cfg.PrimaryKey)
	}
	if loans[0].Owner != owner {
		t.Errorf("owner = %v, want %v", loans[0].Owner, owner)
	}
}

func TestLoad_ResolvesOncePerSession(t *testing.T) {
	owner := uuid.New()
	store := &scriptedStore{
		mode: schema.ModeSnake,
		rows: []storage.Row{
			{"contract_id": int64(111111), "given_amount": int64(100), "owner": owner.String()},
		},
	}
	g := testGateway(store)
	if _, err := g.Load(context.Background(), owner); err != nil {
		t.Fatalf("load: %v", err)
	}
	if g.Config().Mode != schema.ModeSnake {
		t.Fatalf("detected mode = %v, want snake", g.Config().Mode)
	}

	// later loads keep the held state even if a sample looks different
	store.rows = []storage.Row{
		{"contractId": int64(111111), "givenAmount": int64(100), "owner": owner.String()},
	}
	if _, err := g.Load(context.Background(), owner); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if g.Config().Mode != schema.ModeSnake {
		t.Errorf("mode after second load = %v, want snake held for the session", g.Config().Mode)
	}
}

func TestDeleteOwner(t *testing.T) {
	store := &scriptedStore{mode: schema.ModeCamel}
	g := testGateway(store)
	if err := g.DeleteOwner(context.Background(), uuid.New()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.deletes != 1 {
		t.Errorf("deletes = %d, want 1", store.deletes)
	}
}
