package booking

import "testing"

func TestOverlapsSeparateSlots(t *testing.T) {
	if Overlaps(540, 600, 600, 660) {
		t.Fatalf("expected abutting slots not to overlap")
	}
	if Overlaps(600, 660, 540, 600) {
		t.Fatalf("expected abutting slots not to overlap in either order")
	}
	if Overlaps(540, 600, 720, 780) {
		t.Fatalf("expected disjoint slots not to overlap")
	}
}

func TestOverlapsIntersectingSlots(t *testing.T) {
	if !Overlaps(540, 600, 570, 630) {
		t.Fatalf("expected partially intersecting slots to overlap")
	}
	if !Overlaps(540, 600, 540, 600) {
		t.Fatalf("expected identical slots to overlap")
	}
	if !Overlaps(540, 660, 570, 600) {
		t.Fatalf("expected contained slot to overlap")
	}
	if !Overlaps(570, 600, 540, 660) {
		t.Fatalf("expected containing slot to overlap")
	}
}

func TestOverlapsSharedBoundaryOnly(t *testing.T) {
	// A slot ending exactly when another starts shares minute 600 on the
	// clock but not any booked time.
	cases := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"end touches start", 540, 600, 600, 720, false},
		{"start touches end", 600, 720, 540, 600, false},
		{"one minute in", 540, 601, 600, 720, true},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
			t.Errorf("%s: Overlaps(%d,%d,%d,%d) = %v, want %v", tc.name, tc.s1, tc.e1, tc.s2, tc.e2, got, tc.want)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	minute, err := MinuteOfDay("09:30")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if minute != 570 {
		t.Fatalf("expected 570, got %d", minute)
	}

	if _, err := MinuteOfDay("25:00"); err == nil {
		t.Fatalf("expected error for out-of-range hour")
	}
	if _, err := MinuteOfDay("junk"); err == nil {
		t.Fatalf("expected error for malformed clock")
	}
}

func TestClockOfMinute(t *testing.T) {
	if got := ClockOfMinute(570); got != "09:30" {
		t.Fatalf("expected 09:30, got %s", got)
	}
	if got := ClockOfMinute(0); got != "00:00" {
		t.Fatalf("expected 00:00, got %s", got)
	}
}
