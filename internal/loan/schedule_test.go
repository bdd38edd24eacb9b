package loan

import (
	"testing"
	"time"
)

var testToday = time.Date(2025, 6, 30, 15, 4, 5, 0, time.UTC)

func dateStr(daysAgo int) string {
	return testToday.AddDate(0, 0, -daysAgo).Format(DateLayout)
}

func TestSchedule_TwentyDaysIn(t *testing.T) {
	st := Schedule(dateStr(20), 10, 30, 3000, 0, testToday)
	if st == nil {
		t.Fatal("expected a due status")
	}
	if st.PerCycleAmount != 1000 {
		t.Errorf("per cycle = %d, want 1000", st.PerCycleAmount)
	}
	if st.ExpectedDueCycles != 2 {
		t.Errorf("expected cycles = %d, want 2", st.ExpectedDueCycles)
	}
	if st.CyclesPaidEquivalent != 0 {
		t.Errorf("cycles paid = %d, want 0", st.CyclesPaidEquivalent)
	}
	if st.OverdueCycles != 2 {
		t.Errorf("overdue cycles = %d, want 2", st.OverdueCycles)
	}
	if st.MaxCycles != 3 {
		t.Errorf("max cycles = %d, want 3", st.MaxCycles)
	}
}

func TestSchedule_OneCyclePaid(t *testing.T) {
	st := Schedule(dateStr(20), 10, 30, 3000, 1000, testToday)
	if st == nil {
		t.Fatal("expected a due status")
	}
	if st.CyclesPaidEquivalent != 1 {
		t.Errorf("cycles paid = %d, want 1", st.CyclesPaidEquivalent)
	}
	if st.OverdueCycles != 1 {
		t.Errorf("overdue cycles = %d, want 1", st.OverdueCycles)
	}
	if st.NextUnpaidDueDate == nil {
		t.Fatal("expected a next due date")
	}
	// second cycle's due date is start + 2*interval = today
	if got := st.NextUnpaidDueDate.Format(DateLayout); got != dateStr(0) {
		t.Errorf("next due = %s, want %s", got, dateStr(0))
	}
	if st.DaysUntilDue == nil || *st.DaysUntilDue != 0 {
		t.Errorf("days until due = %v, want 0", st.DaysUntilDue)
	}
}

func TestSchedule_Overdue(t *testing.T) {
	// 25 days in, nothing paid: first cycle was due 15 days ago
	st := Schedule(dateStr(25), 10, 30, 3000, 0, testToday)
	if st == nil {
		t.Fatal("expected a due status")
	}
	if st.DaysUntilDue == nil || *st.DaysUntilDue != -15 {
		t.Errorf("days until due = %v, want -15", st.DaysUntilDue)
	}
	if st.OverdueCycles != 2 {
		t.Errorf("overdue cycles = %d, want 2", st.OverdueCycles)
	}
}

func TestSchedule_PrepaySuppressesSoonWarningOnly(t *testing.T) {
	// 5 days in, two full cycles already paid: more than one cycle ahead
	st := Schedule(dateStr(5), 10, 30, 3000, 2000, testToday)
	if st == nil {
		t.Fatal("expected a due status")
	}
	if !st.SuppressSoonWarning {
		t.Error("expected soon warning suppressed")
	}
	if st.OverdueCycles != 0 {
		t.Errorf("overdue cycles = %d, want 0", st.OverdueCycles)
	}
}

func TestSchedule_AllCyclesCovered(t *testing.T) {
	st := Schedule(dateStr(10), 10, 30, 3000, 3000, testToday)
	if st == nil {
		t.Fatal("expected a due status")
	}
	if st.CyclesPaidEquivalent != 3 || st.MaxCycles != 3 {
		t.Fatalf("cycles paid = %d max = %d, want 3/3", st.CyclesPaidEquivalent, st.MaxCycles)
	}
	if st.NextUnpaidDueDate != nil || st.DaysUntilDue != nil {
		t.Error("expected no next due date once every cycle is covered")
	}
}

func TestSchedule_UnboundedTerm(t *testing.T) {
	st := Schedule(dateStr(20), 10, 0, 3000, 0, testToday)
	if st == nil {
		t.Fatal("expected a due status")
	}
	if st.MaxCycles != 0 {
		t.Errorf("max cycles = %d, want 0 (unbounded)", st.MaxCycles)
	}
	if st.PerCycleAmount != 0 {
		t.Errorf("per cycle = %d, want 0 without a term length", st.PerCycleAmount)
	}
	if st.NextUnpaidDueDate == nil {
		t.Error("unbounded schedule still has a next due date")
	}
}

func TestSchedule_FutureStartDateClampsToZero(t *testing.T) {
	st := Schedule(dateStr(-5), 10, 30, 3000, 0, testToday)
	if st == nil {
		t.Fatal("expected a due status")
	}
	if st.ExpectedDueCycles != 0 || st.OverdueCycles != 0 {
		t.Errorf("expected no elapsed cycles before the start date, got %d/%d",
			st.ExpectedDueCycles, st.OverdueCycles)
	}
}

func TestSchedule_InvalidInputs(t *testing.T) {
	if Schedule("", 10, 30, 3000, 0, testToday) != nil {
		t.Error("empty start date should yield nil")
	}
	if Schedule("not-a-date", 10, 30, 3000, 0, testToday) != nil {
		t.Error("unparseable start date should yield nil")
	}
	if Schedule(dateStr(20), 0, 30, 3000, 0, testToday) != nil {
		t.Error("non-positive interval should yield nil")
	}
}

func TestSchedule_PerCycleRoundsUp(t *testing.T) {
	// 1000 over 30 days in 7-day cycles: 1000*7/30 = 233.3..., rounds to 234
	st := Schedule(dateStr(0), 7, 30, 1000, 0, testToday)
	if st == nil {
		t.Fatal("expected a due status")
	}
	if st.PerCycleAmount != 234 {
		t.Errorf("per cycle = %d, want 234", st.PerCycleAmount)
	}
}

func TestRemaining(t *testing.T) {
	if got := Remaining(3000, 2000); got != 1000 {
		t.Errorf("remaining = %d, want 1000", got)
	}
	if got := Remaining(3000, 5000); got != 0 {
		t.Errorf("overpaid remaining = %d, want 0", got)
	}
}

func TestFormatID(t *testing.T) {
	if got := FormatID(1); got != "000001" {
		t.Errorf("FormatID(1) = %q, want 000001", got)
	}
	if got := FormatID(987654); got != "987654" {
		t.Errorf("FormatID(987654) = %q, want 987654", got)
	}
}
