package httpapi

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vqtran/loanbook/internal/loan"
	"github.com/vqtran/loanbook/internal/service/book"
)

// Book abstracts the contract mutation and query operations the handlers use.
type Book interface {
	// List returns the owner's contracts and the portfolio total.
	List(ctx context.Context, owner uuid.UUID) ([]loan.Loan, int64, error)
	// Create persists a new contract with a freshly issued identifier.
	Create(ctx context.Context, owner uuid.UUID, terms loan.Terms) (loan.Loan, error)
	// Edit replaces a contract's terms without touching payment state.
	Edit(ctx context.Context, owner uuid.UUID, id int64, terms loan.Terms) (loan.Loan, error)
	// ApplyPayment records a repayment against a contract.
	ApplyPayment(ctx context.Context, owner uuid.UUID, id int64, amount int64, date string) (loan.Loan, error)
	// Close marks a contract closed.
	Close(ctx context.Context, owner uuid.UUID, id int64) (loan.Loan, error)
	// DeleteAll wipes every contract carrying the owner tag.
	DeleteAll(ctx context.Context, owner uuid.UUID) error
	// Warnings derives due/overdue warnings for the owner's active contracts.
	Warnings(ctx context.Context, owner uuid.UUID, today time.Time) ([]book.Warning, error)
}

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
