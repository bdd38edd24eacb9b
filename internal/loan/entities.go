package loan

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status enumerates the lifecycle of a contract. Transitions are
// one-directional: Active -> Settled when the remaining balance reaches
// zero, any state -> Closed manually. A contract never returns to Active.
type Status string

const (
	// StatusActive marks a contract still being repaid.
	StatusActive Status = "active"
	// StatusSettled marks a contract whose remaining balance reached zero.
	StatusSettled Status = "settled"
	// StatusClosed marks a manually closed contract. Terminal.
	StatusClosed Status = "closed"
)

// IDDigits is the fixed width of a contract identifier.
const IDDigits = 6

// PaymentEntry records a single repayment. History is append-only and kept
// in call order, not re-sorted by date.
type PaymentEntry struct {
	Date           string `json:"date"`
	Amount         int64  `json:"amount"`
	RemainingAfter int64  `json:"remaining"`
}

// Loan is the sole entity of the system. All monetary fields are plain
// non-negative integers; dates are ISO-8601 date-only strings matching the
// persisted row shape.
type Loan struct {
	ContractID  int64
	Name        string
	Phone       string
	IMEI        string
	LoanAmount  int64
	GivenAmount int64
	PaidTotal   int64
	RepayAmount int64
	LoanDays    int
	PayInterval int
	StartDate   string
	Status      Status
	History     []PaymentEntry
	Owner       uuid.UUID
}

// Terms carries the caller-supplied fields for creation and edits.
type Terms struct {
	Name        string
	Phone       string
	IMEI        string
	LoanAmount  int64
	GivenAmount int64
	LoanDays    int
	PayInterval int
	StartDate   string
}

// Trimmed returns a copy with the free-text attributes trimmed.
func (t Terms) Trimmed() Terms {
	t.Name = strings.TrimSpace(t.Name)
	t.Phone = strings.TrimSpace(t.Phone)
	t.IMEI = strings.TrimSpace(t.IMEI)
	return t
}

// Remaining returns the amount still owed: max(givenAmount - paidTotal, 0).
// RepayAmount is always recomputed through this; it is never stored
// independently of the invariant.
func Remaining(givenAmount, paidTotal int64) int64 {
	if r := givenAmount - paidTotal; r > 0 {
		return r
	}
	return 0
}

// FormatID renders a contract id zero-padded to the fixed display width.
// Generation never truncates; padding is display-only.
func FormatID(id int64) string {
	return fmt.Sprintf("%0*d", IDDigits, id)
}
