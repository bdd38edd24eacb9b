package book

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vqtran/loanbook/internal/errs"
	"github.com/vqtran/loanbook/internal/loan"
)

// soonThresholdDays is how close a due date must be before an upcoming
// cycle is flagged.
const soonThresholdDays = 3

// WarningKind distinguishes the two warning flavours.
type WarningKind string

const (
	WarnOverdue WarningKind = "overdue"
	WarnSoon    WarningKind = "soon"
)

// Warning flags a contract that is overdue or due soon.
type Warning struct {
	ContractID    int64
	Kind          WarningKind
	OverdueCycles int
	// DaysUntilDue is negative when the next unpaid cycle is already past.
	DaysUntilDue *int
}

// Warnings derives the warning list for the owner's active contracts at the
// given day: one overdue item per contract with uncovered elapsed cycles,
// otherwise a soon-due item when the next due date is within the threshold
// and the borrower is not more than a cycle ahead. Overdue items order
// first.
func (s *Service) Warnings(ctx context.Context, owner uuid.UUID, today time.Time) ([]Warning, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	loans, ok := s.byOwner[owner]
	if !ok {
		var err error
		if _, err = s.loadLocked(ctx, owner); err != nil {
			return nil, err
		}
		loans = s.byOwner[owner]
	}
	out := make([]Warning, 0)
	for _, l := range loans {
		if l.Status != loan.StatusActive {
			continue
		}
		st := loan.Schedule(l.StartDate, l.PayInterval, l.LoanDays, l.GivenAmount, l.PaidTotal, today)
		if st == nil {
			continue
		}
		switch {
		case st.OverdueCycles > 0:
			out = append(out, Warning{
				ContractID:    l.ContractID,
				Kind:          WarnOverdue,
				OverdueCycles: st.OverdueCycles,
				DaysUntilDue:  st.DaysUntilDue,
			})
		case !st.SuppressSoonWarning && st.DaysUntilDue != nil && *st.DaysUntilDue <= soonThresholdDays:
			out = append(out, Warning{
				ContractID:   l.ContractID,
				Kind:         WarnSoon,
				DaysUntilDue: st.DaysUntilDue,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind == WarnOverdue && out[j].Kind != WarnOverdue
	})
	return out, nil
}
