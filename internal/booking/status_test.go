package booking

import "testing"

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("CONFIRMED")
	if !ok || status != StatusConfirmed {
		t.Fatalf("expected StatusConfirmed, got %v (ok=%v)", status, ok)
	}
	if _, ok := ParseStatus("ARCHIVED"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanBeCancelled(t *testing.T) {
	if !StatusPending.CanBeCancelled() {
		t.Fatalf("expected PENDING to be cancellable")
	}
	if !StatusConfirmed.CanBeCancelled() {
		t.Fatalf("expected CONFIRMED to be cancellable")
	}
	if StatusCancelled.CanBeCancelled() {
		t.Fatalf("expected CANCELLED not to be cancellable")
	}
	if StatusCompleted.CanBeCancelled() {
		t.Fatalf("expected COMPLETED not to be cancellable")
	}
}

func TestIsActive(t *testing.T) {
	if !StatusPending.IsActive() || !StatusConfirmed.IsActive() {
		t.Fatalf("expected PENDING and CONFIRMED to be active")
	}
	if StatusCancelled.IsActive() || StatusCompleted.IsActive() {
		t.Fatalf("expected CANCELLED and COMPLETED to be inactive")
	}
}

func TestMayCancel(t *testing.T) {
	reservation := &Reservation{ID: 1, UserID: 7}

	owner := Principal{UserID: 7, Role: RoleUser}
	other := Principal{UserID: 8, Role: RoleUser}
	admin := Principal{UserID: 9, Role: RoleAdmin}

	if !MayCancel(reservation, owner) {
		t.Fatalf("expected owner to be allowed")
	}
	if MayCancel(reservation, other) {
		t.Fatalf("expected non-owner to be denied")
	}
	if !MayCancel(reservation, admin) {
		t.Fatalf("expected admin to be allowed")
	}
}
