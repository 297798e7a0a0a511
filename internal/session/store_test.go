package session_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/fitflex/internal/session"
)

// generateTime produces an arbitrary time.Time value truncated to second
// precision to match JSON round-trip fidelity.
func generateTime(t *rapid.T) time.Time {
	sec := rapid.Int64Range(0, 1_700_000_000).Draw(t, "unix_sec")
	return time.Unix(sec, 0).UTC()
}

func generateSession(t *rapid.T) *session.Session {
	return &session.Session{
		Token:    rapid.StringMatching(`[A-Za-z0-9_-]{10,40}\.[A-Za-z0-9_-]{10,40}\.[A-Za-z0-9_-]{10,40}`).Draw(t, "token"),
		Username: rapid.StringN(1, 30, -1).Draw(t, "username"),
		Email:    rapid.StringMatching(`[a-z]{1,10}@[a-z]{1,10}\.com`).Draw(t, "email"),
		SavedAt:  generateTime(t),
	}
}

// Feature: fitflex, Property: session persistence round-trip
func TestSessionPersistenceRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := session.NewSessionStore()
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}

	rapid.Check(t, func(t *rapid.T) {
		original := generateSession(t)

		if err := store.Save(original); err != nil {
			t.Fatalf("Save: %v", err)
		}

		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}

		if loaded.Token != original.Token {
			t.Errorf("Token mismatch: got %q, want %q", loaded.Token, original.Token)
		}
		if loaded.Username != original.Username {
			t.Errorf("Username mismatch: got %q, want %q", loaded.Username, original.Username)
		}
		if loaded.Email != original.Email {
			t.Errorf("Email mismatch: got %q, want %q", loaded.Email, original.Email)
		}
		if !loaded.SavedAt.Equal(original.SavedAt) {
			t.Errorf("SavedAt mismatch: got %v, want %v", loaded.SavedAt, original.SavedAt)
		}
	})
}

func TestSaveWritesOwnerOnlyFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := session.NewSessionStore()
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	if err := store.Save(&session.Session{Token: "a.b.c"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode: got %o, want 600", perm)
	}
}

// TestLoadReturnsErrNoSession verifies that Load returns ErrNoSession when no
// session file exists on disk.
func TestLoadReturnsErrNoSession(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := session.NewSessionStore()
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}

	_, err = store.Load()
	if !errors.Is(err, session.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got: %v", err)
	}
}

func TestDeleteMissingFileIsNotAnError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := session.NewSessionStore()
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Errorf("Delete on empty store: %v", err)
	}
}

// TestNewStoreFailsInUnwritableDirectory verifies that store creation fails
// when the data directory cannot be created.
func TestNewStoreFailsInUnwritableDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission checks are ineffective")
	}

	tmp := t.TempDir()
	if err := os.Chmod(tmp, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(tmp, 0o755) })

	t.Setenv("XDG_DATA_HOME", tmp)

	if _, err := session.NewSessionStore(); err == nil {
		t.Fatal("expected error creating store in unwritable directory, got nil")
	}
}

func TestLoadDiscardsUnusableFile(t *testing.T) {
	cases := map[string]string{
		"not json": "{broken",
		"no token": `{"username":"ana"}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("XDG_DATA_HOME", t.TempDir())
			store, err := session.NewSessionStore()
			if err != nil {
				t.Fatalf("NewSessionStore: %v", err)
			}
			if err := os.WriteFile(store.Path(), []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}

			if _, err := store.Load(); !errors.Is(err, session.ErrNoSession) {
				t.Fatalf("expected ErrNoSession, got %v", err)
			}
			if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("unusable session file was not removed: %v", err)
			}
		})
	}
}

func TestLoadRestrictsLoosePermissions(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	store, err := session.NewSessionStore()
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte(`{"token":"a.b.c","username":"ana"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(store.Path(), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Token != "a.b.c" {
		t.Errorf("Token: got %q", s.Token)
	}
	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode: got %o, want 600", perm)
	}
}

func TestSaveRefusesEmptyToken(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	store, err := session.NewSessionStore()
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	if err := store.Save(&session.Session{Username: "ana"}); err == nil {
		t.Fatal("expected an error saving a session without a token")
	}
	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("no file should be written: %v", err)
	}
}
