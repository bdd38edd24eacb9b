// Package book applies payments, edits, and closures to loan contracts,
// keeping a per-owner in-memory collection as a cache over the durable
// store. Every mutation goes through the persistence gateway and commits to
// the cache only after the store confirms; failed operations leave the
// collection and loan status unchanged.
package book

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vqtran/loanbook/internal/contractid"
	"github.com/vqtran/loanbook/internal/errs"
	"github.com/vqtran/loanbook/internal/gateway"
	"github.com/vqtran/loanbook/internal/loan"
	"github.com/vqtran/loanbook/internal/storage"
)

// Service owns the loaded collections and identifier bookkeeping. Mutating
// calls are serialized: retries inside the gateway depend on the taken-set
// staying coherent, so operations never run concurrently against it.
type Service struct {
	mu      sync.Mutex
	gw      *gateway.Gateway
	byOwner map[uuid.UUID][]loan.Loan
	// taken is the best-effort snapshot of contract ids already in use,
	// across owners since the store's uniqueness constraint is global.
	taken map[int64]struct{}
}

// New constructs the service over a gateway.
func New(gw *gateway.Gateway) *Service {
	return &Service{
		gw:      gw,
		byOwner: make(map[uuid.UUID][]loan.Loan),
		taken:   make(map[int64]struct{}),
	}
}

// Load refreshes the owner's collection from the store.
func (s *Service) Load(ctx context.Context, owner uuid.UUID) ([]loan.Loan, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, owner)
}

func (s *Service) loadLocked(ctx context.Context, owner uuid.UUID) ([]loan.Loan, error) {
	loans, err := s.gw.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	s.byOwner[owner] = loans
	for _, l := range loans {
		s.taken[l.ContractID] = struct{}{}
	}
	return snapshot(loans), nil
}

// List returns the owner's collection, loading it on first access, along
// with the portfolio total (sum of stated principals).
func (s *Service) List(ctx context.Context, owner uuid.UUID) ([]loan.Loan, int64, error) {
	if owner == uuid.Nil {
		return nil, 0, errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	loans, ok := s.byOwner[owner]
	if !ok {
		var err error
		if _, err = s.loadLocked(ctx, owner); err != nil {
			return nil, 0, err
		}
		loans = s.byOwner[owner]
	}
	var total int64
	for _, l := range loans {
		total += l.LoanAmount
	}
	return snapshot(loans), total, nil
}

// Create issues a fresh contract identifier and persists a new contract.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, terms loan.Terms) (loan.Loan, error) {
	if owner == uuid.Nil {
		return loan.Loan{}, errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byOwner[owner]; !ok {
		if _, err := s.loadLocked(ctx, owner); err != nil {
			return loan.Loan{}, err
		}
	}
	terms = terms.Trimmed()
	l := loan.Loan{
		ContractID:  contractid.Issue(s.taken, loan.IDDigits),
		Name:        terms.Name,
		Phone:       terms.Phone,
		IMEI:        terms.IMEI,
		LoanAmount:  terms.LoanAmount,
		GivenAmount: terms.GivenAmount,
		PaidTotal:   0,
		RepayAmount: terms.GivenAmount,
		LoanDays:    terms.LoanDays,
		PayInterval: terms.PayInterval,
		StartDate:   terms.StartDate,
		Status:      loan.StatusActive,
		History:     []loan.PaymentEntry{},
		Owner:       owner,
	}
	if l.GivenAmount <= 0 {
		l.Status = loan.StatusSettled
	}
	created, err := s.gw.Create(ctx, l, s.taken)
	if err != nil {
		return loan.Loan{}, err
	}
	s.taken[created.ContractID] = struct{}{}
	loans := append(s.byOwner[owner], created)
	sort.Slice(loans, func(i, j int) bool { return loans[i].ContractID < loans[j].ContractID })
	s.byOwner[owner] = loans
	return created, nil
}

// Edit replaces a contract's terms. The paid total and payment history are
// untouched; the remaining balance and status are recomputed from the
// edited disbursed amount.
func (s *Service) Edit(ctx context.Context, owner uuid.UUID, id int64, terms loan.Terms) (loan.Loan, error) {
	if owner == uuid.Nil {
		return loan.Loan{}, errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, idx, err := s.findLocked(ctx, owner, id)
	if err != nil {
		return loan.Loan{}, err
	}
	terms = terms.Trimmed()
	remaining := loan.Remaining(terms.GivenAmount, target.PaidTotal)
	patch := storage.Row{
		"name":        terms.Name,
		"phone":       terms.Phone,
		"imei":        terms.IMEI,
		"loanAmount":  terms.LoanAmount,
		"givenAmount": terms.GivenAmount,
		"loanDays":    int64(terms.LoanDays),
		"payInterval": int64(terms.PayInterval),
		"startDate":   terms.StartDate,
		"repayAmount": remaining,
		"status":      string(nextStatus(target.Status, remaining)),
	}
	updated, err := s.gw.Update(ctx, id, patch)
	if err != nil {
		return loan.Loan{}, err
	}
	s.byOwner[owner][idx] = updated
	return updated, nil
}

// ApplyPayment records a repayment against a contract. The amount must be
// positive; nothing is mutated and the store is never called otherwise.
func (s *Service) ApplyPayment(ctx context.Context, owner uuid.UUID, id int64, amount int64, date string) (loan.Loan, error) {
	if owner == uuid.Nil {
		return loan.Loan{}, errs.ErrUnauthorized
	}
	if amount <= 0 {
		return loan.Loan{}, fmt.Errorf("%w: payment amount must be positive", errs.ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, idx, err := s.findLocked(ctx, owner, id)
	if err != nil {
		return loan.Loan{}, err
	}
	newPaid := target.PaidTotal + amount
	newRemain := loan.Remaining(target.GivenAmount, newPaid)
	history := make([]loan.PaymentEntry, len(target.History), len(target.History)+1)
	copy(history, target.History)
	history = append(history, loan.PaymentEntry{Date: date, Amount: amount, RemainingAfter: newRemain})
	patch := storage.Row{
		"paidTotal":   newPaid,
		"repayAmount": newRemain,
		"status":      string(nextStatus(target.Status, newRemain)),
		"history":     history,
	}
	updated, err := s.gw.Update(ctx, id, patch)
	if err != nil {
		return loan.Loan{}, err
	}
	s.byOwner[owner][idx] = updated
	return updated, nil
}

// Close marks a contract closed. Terminal, regardless of balance.
func (s *Service) Close(ctx context.Context, owner uuid.UUID, id int64) (loan.Loan, error) {
	if owner == uuid.Nil {
		return loan.Loan{}, errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, idx, err := s.findLocked(ctx, owner, id)
	if err != nil {
		return loan.Loan{}, err
	}
	updated, err := s.gw.Update(ctx, id, storage.Row{"status": string(loan.StatusClosed)})
	if err != nil {
		return loan.Loan{}, err
	}
	s.byOwner[owner][idx] = updated
	return updated, nil
}

// DeleteAll wipes every contract carrying the owner tag and resets the
// owner's collection and identifier bookkeeping.
func (s *Service) DeleteAll(ctx context.Context, owner uuid.UUID) error {
	if owner == uuid.Nil {
		return errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gw.DeleteOwner(ctx, owner); err != nil {
		return err
	}
	for _, l := range s.byOwner[owner] {
		delete(s.taken, l.ContractID)
	}
	delete(s.byOwner, owner)
	return nil
}

// findLocked resolves a contract in the owner's collection, loading it from
// the store first when this process has not seen the owner yet. A cold cache
// is not "not found": the store is the source of truth.
func (s *Service) findLocked(ctx context.Context, owner uuid.UUID, id int64) (loan.Loan, int, error) {
	loans, ok := s.byOwner[owner]
	if !ok {
		if _, err := s.loadLocked(ctx, owner); err != nil {
			return loan.Loan{}, 0, err
		}
		loans = s.byOwner[owner]
	}
	for i, l := range loans {
		if l.ContractID == id {
			return l, i, nil
		}
	}
	return loan.Loan{}, 0, errs.ErrNotFound
}

// nextStatus recomputes a contract's status from its remaining balance.
// Transitions are one-directional: Closed is terminal and Settled never
// returns to Active.
func nextStatus(current loan.Status, remaining int64) loan.Status {
	switch {
	case current == loan.StatusClosed:
		return loan.StatusClosed
	case remaining <= 0, current == loan.StatusSettled:
		return loan.StatusSettled
	default:
		return loan.StatusActive
	}
}

func snapshot(loans []loan.Loan) []loan.Loan {
	out := make([]loan.Loan, len(loans))
	copy(out, loans)
	return out
}
