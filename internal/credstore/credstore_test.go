package credstore

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "token"))
}

func TestTokenEmptyWhenMissing(t *testing.T) {
	store := newTestStore(t)
	if got := store.Token(); got != "" {
		t.Errorf("Token() = %q, want empty", got)
	}
}

func TestSaveAndToken(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("abc.def.ghi"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := store.Token(); got != "abc.def.ghi" {
		t.Errorf("Token() = %q, want %q", got, "abc.def.ghi")
	}
}

func TestSaveSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	if err := New(path).Save("persisted-token"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := New(path).Token(); got != "persisted-token" {
		t.Errorf("Token() after reopen = %q, want %q", got, "persisted-token")
	}
}

func TestClearRemovesToken(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ChangeLogout); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := store.Token(); got != "" {
		t.Errorf("Token() after clear = %q, want empty", got)
	}
}

func TestClearMissingTokenIsNoop(t *testing.T) {
	store := newTestStore(t)

	var notified []Change
	store.Subscribe(func(c Change) { notified = append(notified, c) })

	if err := store.Clear(ChangeLogout); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}
	if len(notified) != 0 {
		t.Errorf("notifications = %v, want none", notified)
	}
}

func TestSubscribersObserveTransitions(t *testing.T) {
	store := newTestStore(t)

	var notified []Change
	store.Subscribe(func(c Change) { notified = append(notified, c) })

	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Evict(); err != nil {
		t.Fatalf("Evict: %v", err)
	}
	if err := store.Save("tok2"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ChangeLogout); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	want := []Change{ChangeLogin, ChangeExpired, ChangeLogin, ChangeLogout}
	if len(notified) != len(want) {
		t.Fatalf("notifications = %v, want %v", notified, want)
	}
	for i := range want {
		if notified[i] != want[i] {
			t.Errorf("notification[%d] = %v, want %v", i, notified[i], want[i])
		}
	}
}

func TestChangeString(t *testing.T) {
	tests := []struct {
		change Change
		want   string
	}{
		{ChangeLogin, "login"},
		{ChangeLogout, "logout"},
		{ChangeExpired, "expired"},
		{Change(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.change.String(); got != tt.want {
			t.Errorf("Change(%d).String() = %q, want %q", tt.change, got, tt.want)
		}
	}
}
