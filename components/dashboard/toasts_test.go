package dashboard

import (
	"testing"
	"time"
)

func TestToastTTLBySeverity(t *testing.T) {
	cases := map[ToastSeverity]time.Duration{
		ToastInfo:    5 * time.Second,
		ToastSuccess: 5 * time.Second,
		ToastWarning: 6 * time.Second,
		ToastError:   8 * time.Second,
	}
	for severity, want := range cases {
		if got := severity.TTL(); got != want {
			t.Fatalf("severity %s: expected TTL %v, got %v", severity, want, got)
		}
	}
}

func TestPushSetsExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	center := NewToastCenter(WithToastClock(func() time.Time { return now }))
	toast := center.Error("Fetch failed", "Trends API unreachable")
	if toast.ID == "" {
		t.Fatalf("expected toast id assigned")
	}
	if !toast.ExpiresAt.Equal(now.Add(8 * time.Second)) {
		t.Fatalf("expected error expiry at +8s, got %v", toast.ExpiresAt)
	}
}

func TestActivePrunesExpiredToasts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	center := NewToastCenter(WithToastClock(func() time.Time { return now }))
	center.Info("First", "one")

	now = now.Add(3 * time.Second)
	center.Warning("Second", "two")

	now = now.Add(3 * time.Second) // first is now 6s old, past its 5s TTL
	active := center.Active()
	if len(active) != 1 || active[0].Title != "Second" {
		t.Fatalf("expected only the warning toast, got %#v", active)
	}
}

func TestDismissRemovesToast(t *testing.T) {
	center := NewToastCenter()
	toast := center.Info("Dismiss me", "")
	center.Dismiss(toast.ID)
	if active := center.Active(); len(active) != 0 {
		t.Fatalf("expected toast dismissed, got %#v", active)
	}
}

func TestSubscribeReceivesToasts(t *testing.T) {
	center := NewToastCenter()
	ch, cancel := center.Subscribe()
	defer cancel()

	pushed := center.Success("Saved", "Preferences stored")

	select {
	case got := <-ch:
		if got.ID != pushed.ID {
			t.Fatalf("expected pushed toast, got %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for toast")
	}
}

func TestSubscribeCancelIsIdempotent(t *testing.T) {
	center := NewToastCenter()
	_, cancel := center.Subscribe()
	cancel()
	cancel()
	// A push after cancellation must not panic on the closed channel.
	center.Info("After cancel", "")
}

func TestAnnunciatorPanicIsContained(t *testing.T) {
	center := NewToastCenter(WithToastAnnunciator(AnnunciatorFunc(func(Toast) {
		panic("speaker missing")
	})))
	center.Warning("Still works", "")
	if len(center.Active()) != 1 {
		t.Fatalf("expected toast stored despite annunciator panic")
	}
}

func TestAnnunciatorObservesEveryPush(t *testing.T) {
	var seen []Toast
	center := NewToastCenter(WithToastAnnunciator(AnnunciatorFunc(func(toast Toast) {
		seen = append(seen, toast)
	})))
	center.Info("a", "")
	center.Error("b", "")
	if len(seen) != 2 || seen[1].Severity != ToastError {
		t.Fatalf("expected annunciator to observe pushes, got %#v", seen)
	}
}
