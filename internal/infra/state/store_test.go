package state

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir(), slog.Default())
}

func TestFileStore_AbsentMeansZero(t *testing.T) {
	s := newTestStore(t)
	if got := s.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0 for absent file", got)
	}
}

func TestFileStore_IncrementSequence(t *testing.T) {
	s := newTestStore(t)

	for want := 1; want <= 5; want++ {
		got, err := s.Increment()
		if err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		if got != want {
			t.Fatalf("Increment() = %d, want %d", got, want)
		}
	}

	// A fresh store over the same directory sees the persisted value.
	reopened := NewFileStore(s.Dir(), slog.Default())
	if got := reopened.Count(); got != 5 {
		t.Errorf("reopened Count() = %d, want 5", got)
	}
}

func TestFileStore_ResetReturnsToAbsent(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Increment(); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.Dir(), failuresFile)); !os.IsNotExist(err) {
		t.Error("counter file still present after Reset")
	}
	if got := s.Count(); got != 0 {
		t.Errorf("Count() after Reset = %d, want 0", got)
	}

	// Resetting an already-absent counter is not an error.
	if err := s.Reset(); err != nil {
		t.Errorf("Reset on absent counter failed: %v", err)
	}
}

func TestFileStore_CorruptCounterDefaultsToZero(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(filepath.Join(s.Dir(), failuresFile), []byte("not-a-number\n"), 0o644); err != nil {
		t.Fatalf("failed to seed corrupt file: %v", err)
	}
	if got := s.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0 for corrupt content", got)
	}

	// Increment recovers from corruption by counting up from 0.
	got, err := s.Increment()
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if got != 1 {
		t.Errorf("Increment() after corruption = %d, want 1", got)
	}
}

func TestFileStore_NegativeCounterDefaultsToZero(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(filepath.Join(s.Dir(), failuresFile), []byte("-3\n"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}
	if got := s.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0 for negative content", got)
	}
}

func TestFileStore_RebootMarkerRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.ConsumeRebootMarker(); ok {
		t.Fatal("marker present on a fresh store")
	}

	at := time.Now().Truncate(time.Second)
	if err := s.MarkReboot(at); err != nil {
		t.Fatalf("MarkReboot failed: %v", err)
	}

	got, ok := s.ConsumeRebootMarker()
	if !ok {
		t.Fatal("marker missing after MarkReboot")
	}
	if !got.Equal(at) {
		t.Errorf("marker time = %v, want %v", got, at)
	}

	// Consuming deletes: a second read finds nothing.
	if _, ok := s.ConsumeRebootMarker(); ok {
		t.Error("marker still present after consumption")
	}
}

func TestFileStore_RebootMarkerNonConsumingRead(t *testing.T) {
	s := newTestStore(t)

	if err := s.MarkReboot(time.Now()); err != nil {
		t.Fatalf("MarkReboot failed: %v", err)
	}
	if _, ok := s.RebootMarker(); !ok {
		t.Fatal("RebootMarker sees nothing")
	}
	if _, ok := s.RebootMarker(); !ok {
		t.Error("RebootMarker must not consume the marker")
	}
}

func TestFileStore_CounterIsPlainInteger(t *testing.T) {
	// External tooling reads the counter file directly; keep the format a
	// plain decimal.
	s := newTestStore(t)
	if _, err := s.Increment(); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), failuresFile))
	if err != nil {
		t.Fatalf("failed to read counter file: %v", err)
	}
	if string(data) != "1\n" {
		t.Errorf("counter file content = %q, want \"1\\n\"", data)
	}
}
