package loan

import "time"

// DateLayout is the calendar date format used across the persisted row
// shape and payment history.
const DateLayout = "2006-01-02"

// DueStatus is the derived repayment schedule position of a contract at a
// given day. All values follow from the raw terms and the cumulative paid
// total; nothing here is stored.
type DueStatus struct {
	// PerCycleAmount is the amortized obligation per cycle, rounded up so
	// cumulative collection never under-shoots the disbursed amount.
	PerCycleAmount int64
	// ExpectedDueCycles is how many full cycles have elapsed since the start date.
	ExpectedDueCycles int
	// CyclesPaidEquivalent is how many full cycles the paid total covers.
	CyclesPaidEquivalent int
	// MaxCycles bounds the schedule when the term length is known.
	// Zero means unbounded (no term length).
	MaxCycles int
	// NextUnpaidDueDate is the due date of the first cycle not yet covered
	// by payments. Nil once every cycle of a bounded schedule is covered.
	NextUnpaidDueDate *time.Time
	// DaysUntilDue counts days from today to NextUnpaidDueDate; negative
	// means overdue. Nil when NextUnpaidDueDate is nil.
	DaysUntilDue *int
	// OverdueCycles is the number of elapsed cycles not covered by payments.
	OverdueCycles int
	// SuppressSoonWarning is set when the borrower is more than one cycle
	// ahead. It silences "due soon" only; overdue detection depends solely
	// on OverdueCycles and is unaffected.
	SuppressSoonWarning bool
}

// Schedule derives the due status of a contract from its raw terms, the
// cumulative paid total, and an injected "today". Returns nil when the start
// date is absent or unparseable, or when intervalDays is not positive.
// Pure and deterministic.
func Schedule(startDate string, intervalDays, totalDays int, givenAmount, paidTotal int64, today time.Time) *DueStatus {
	if startDate == "" || intervalDays <= 0 {
		return nil
	}
	start, err := time.ParseInLocation(DateLayout, startDate, time.UTC)
	if err != nil {
		return nil
	}
	d0 := midnight(start)
	dT := midnight(today)

	daysPassed := daysBetween(d0, dT)
	if daysPassed < 0 {
		daysPassed = 0
	}
	expected := daysPassed / intervalDays

	maxCycles := 0
	if totalDays > 0 {
		maxCycles = int(ceilDiv(int64(totalDays), int64(intervalDays)))
	}

	var perCycle int64
	if totalDays > 0 {
		perCycle = ceilDiv(givenAmount*int64(intervalDays), int64(totalDays))
	}

	paidEq := 0
	if perCycle > 0 {
		paidEq = int(paidTotal / perCycle)
	}

	st := &DueStatus{
		PerCycleAmount:       perCycle,
		ExpectedDueCycles:    expected,
		CyclesPaidEquivalent: paidEq,
		MaxCycles:            maxCycles,
	}

	if maxCycles == 0 || paidEq < maxCycles {
		due := d0.AddDate(0, 0, (paidEq+1)*intervalDays)
		diff := daysBetween(dT, due)
		st.NextUnpaidDueDate = &due
		st.DaysUntilDue = &diff
	}

	if over := expected - paidEq; over > 0 {
		st.OverdueCycles = over
	}
	st.SuppressSoonWarning = paidEq >= expected+1
	return st
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole number of days from a to b. Both arguments
// are UTC midnights, so the difference is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// ceilDiv divides non-negative a by positive b, rounding up.
func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
