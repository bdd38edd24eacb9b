package contractid

import "testing"

func TestIssue_Width(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := Issue(nil, Digits)
		if id < 100000 || id > 999999 {
			t.Fatalf("issued %d, want exactly %d digits", id, Digits)
		}
	}
}

func TestIssue_AvoidsTaken(t *testing.T) {
	taken := map[int64]struct{}{}
	for i := 0; i < 200; i++ {
		id := Issue(taken, Digits)
		if _, ok := taken[id]; ok {
			t.Fatalf("issued %d twice", id)
		}
		taken[id] = struct{}{}
	}
}

func TestIssue_DefaultWidth(t *testing.T) {
	id := Issue(nil, 0)
	if id < 100000 || id > 999999 {
		t.Errorf("issued %d, want the default %d-digit range", id, Digits)
	}
}

func TestIssue_FallbackStaysInRange(t *testing.T) {
	// Two-digit space fully taken: the fallback must still be in range.
	taken := map[int64]struct{}{}
	for n := int64(10); n <= 99; n++ {
		taken[n] = struct{}{}
	}
	id := Issue(taken, 2)
	if id < 10 || id > 99 {
		t.Errorf("fallback issued %d, want a 2-digit value", id)
	}
}
