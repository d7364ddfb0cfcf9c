package status

import (
	"errors"
	"testing"
)

func TestAllowedTargets_Pending(t *testing.T) {
	got := AllowedTargets(StatusPending)
	want := []Status{StatusInProgress, StatusCancelled}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestAllowedTargets_InProgress(t *testing.T) {
	got := AllowedTargets(StatusInProgress)
	if len(got) != 1 || got[0] != StatusCompleted {
		t.Fatalf("expected only completed, got %v", got)
	}
}

func TestAllowedTargets_Terminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if got := AllowedTargets(s); len(got) != 0 {
			t.Fatalf("expected no targets from %s, got %v", s, got)
		}
	}
}

func TestAllowedTargets_Unknown(t *testing.T) {
	if got := AllowedTargets(Status("bogus")); len(got) != 0 {
		t.Fatalf("expected no targets from unknown status, got %v", got)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		current, target Status
		want            bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.current, c.target); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.current, c.target, got, c.want)
		}
	}
}

func TestResolve_PendingToCompletedRedirects(t *testing.T) {
	target, delivered, err := Resolve(StatusPending, StatusCompleted, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != StatusInProgress {
		t.Fatalf("expected redirect to in_progress, got %s", target)
	}
	if delivered {
		t.Fatal("expected delivered to be forced back to false")
	}
}

func TestResolve_AllowedTransitionPreservesDelivered(t *testing.T) {
	target, delivered, err := Resolve(StatusInProgress, StatusCompleted, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != StatusCompleted || !delivered {
		t.Fatalf("expected completed/delivered, got %s/%v", target, delivered)
	}
}

func TestResolve_InvalidTransition(t *testing.T) {
	_, _, err := Resolve(StatusInProgress, StatusCancelled, false)
	if err == nil {
		t.Fatal("expected error for in_progress -> cancelled")
	}
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected *InvalidTransitionError, got %T", err)
	}
	if ite.Current != StatusInProgress || ite.Requested != StatusCancelled {
		t.Fatalf("error carries wrong statuses: %v", ite)
	}
}

func TestResolve_TerminalRejectsEverything(t *testing.T) {
	for _, current := range []Status{StatusCompleted, StatusCancelled} {
		for _, target := range []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled} {
			if _, _, err := Resolve(current, target, false); err == nil {
				t.Errorf("expected rejection for %s -> %s", current, target)
			}
		}
	}
}

func TestForceCancel_FromInProgress(t *testing.T) {
	got, err := ForceCancel(StatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got)
	}
}

func TestForceCancel_FromTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if _, err := ForceCancel(s); err == nil {
			t.Errorf("expected error force-cancelling from %s", s)
		}
	}
}
