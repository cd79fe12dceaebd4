package state

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	failuresFile = "failures"
	markerFile   = "reboot_marker"
)

// FileStore persists the consecutive failure counter and the reboot marker
// as plain files under a fixed directory, so they survive process exit and
// OS reboot and stay readable by external tooling.
//
// Counter invariant: file absent means count 0. Writes are whole-value
// replace (temp file + rename); there is no partial update and no lock —
// the scheduler is expected to serialize invocations.
type FileStore struct {
	dir string
	log *slog.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created
// lazily on first write.
func NewFileStore(dir string, log *slog.Logger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

// Dir returns the state directory path.
func (s *FileStore) Dir() string {
	return s.dir
}

// Count returns the persisted consecutive failure count. A missing file is
// count 0. Unreadable or corrupt content is also treated as 0 with a
// warning: keeping the watchdog running matters more than an exact count.
func (s *FileStore) Count() int {
	data, err := os.ReadFile(filepath.Join(s.dir, failuresFile))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("Failure counter unreadable, assuming 0", "error", err)
		}
		return 0
	}

	count, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || count < 0 {
		s.log.Warn("Failure counter corrupt, assuming 0", "content", strings.TrimSpace(string(data)))
		return 0
	}
	return count
}

// Increment adds 1 to the persisted count and returns the new value. The
// new value is returned even when persisting it fails, so the caller can
// keep making decisions on the in-memory count.
func (s *FileStore) Increment() (int, error) {
	count := s.Count() + 1
	if err := s.writeFile(failuresFile, strconv.Itoa(count)+"\n"); err != nil {
		return count, fmt.Errorf("failed to persist failure count: %w", err)
	}
	return count, nil
}

// Reset returns the counter to its absent/0 state.
func (s *FileStore) Reset() error {
	err := os.Remove(filepath.Join(s.dir, failuresFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to reset failure count: %w", err)
	}
	return nil
}

// MarkReboot persists the reboot marker with the given timestamp.
func (s *FileStore) MarkReboot(at time.Time) error {
	if err := s.writeFile(markerFile, at.Format(time.RFC3339)+"\n"); err != nil {
		return fmt.Errorf("failed to persist reboot marker: %w", err)
	}
	return nil
}

// RebootMarker reads the reboot marker without consuming it.
func (s *FileStore) RebootMarker() (time.Time, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, markerFile))
	if err != nil {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		s.log.Warn("Reboot marker corrupt", "content", strings.TrimSpace(string(data)))
		return time.Time{}, true
	}
	return at, true
}

// ConsumeRebootMarker reads and deletes the reboot marker. The second
// return value reports whether a marker was present.
func (s *FileStore) ConsumeRebootMarker() (time.Time, bool) {
	at, ok := s.RebootMarker()
	if !ok {
		return time.Time{}, false
	}
	if err := os.Remove(filepath.Join(s.dir, markerFile)); err != nil && !os.IsNotExist(err) {
		s.log.Warn("Failed to remove reboot marker", "error", err)
	}
	return at, true
}

// writeFile replaces a state file wholesale via temp file + rename.
func (s *FileStore) writeFile(name, content string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}
