// Package runs keeps a local history of generation runs so results
// outlive the terminal session. One JSON file per run, flock-guarded
// so concurrent CLI invocations don't clobber each other.
package runs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// Record is one persisted generation run.
type Record struct {
	ID        string            `json:"id"`
	Operation string            `json:"operation"`
	Request   any               `json:"request,omitempty"`
	Events    []json.RawMessage `json:"events"`
	Result    json.RawMessage   `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	Started   time.Time         `json:"started"`
	Finished  time.Time         `json:"finished"`
}

// Store is a file-per-run record store rooted at one directory.
type Store struct {
	baseDir string
}

// Open creates the store, defaulting to ~/.martool/runs.
func Open(baseDir string) (*Store, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".martool", "runs")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runs directory: %w", err)
	}

	return &Store{baseDir: baseDir}, nil
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// NewID builds a run id from the start time and operation name.
func NewID(op string, started time.Time) string {
	return started.Format("20060102-150405") + "-" + op
}

// validateID rejects run ids that could escape the store directory or
// break on some filesystem.
func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if strings.ContainsAny(id, "/\\:*?\"<>|") {
		return fmt.Errorf("run id contains invalid characters")
	}
	if id == "." || id == ".." || strings.HasPrefix(id, ".") {
		return fmt.Errorf("run id cannot start with a dot")
	}
	for _, r := range id {
		if r < 32 || r == 127 {
			return fmt.Errorf("run id contains control characters")
		}
	}
	return nil
}

// Save persists a record, taking an exclusive lock on the run file for
// the duration of the write.
func (s *Store) Save(rec *Record) error {
	if err := validateID(rec.ID); err != nil {
		return fmt.Errorf("invalid run id '%s': %w", rec.ID, err)
	}

	path := filepath.Join(s.baseDir, rec.ID+".json")
	fileLock := flock.New(path)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock for run '%s'", rec.ID)
	}
	defer fileLock.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Get loads a record by id.
func (s *Store) Get(id string) (*Record, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("invalid run id '%s': %w", id, err)
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, id+".json"))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("corrupt run record '%s': %w", id, err)
	}
	return &rec, nil
}

// List returns all run ids, oldest first (ids sort chronologically).
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".json" {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return ids, nil
}

// Last returns the most recently written run id, or "" if the store is
// empty.
func (s *Store) Last() string {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return ""
	}

	var lastID string
	var lastTime time.Time
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(lastTime) {
			lastTime = info.ModTime()
			lastID = strings.TrimSuffix(entry.Name(), ".json")
		}
	}
	return lastID
}

// Delete removes a run record. Missing records are not an error.
func (s *Store) Delete(id string) {
	if validateID(id) != nil {
		return
	}
	_ = os.Remove(filepath.Join(s.baseDir, id+".json"))
}

// Expire removes records older than the retention window. Records
// locked by another process are skipped.
func (s *Store) Expire(retention time.Duration) {
	now := time.Now()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.baseDir, entry.Name())
		fileLock := flock.New(path)
		locked, err := fileLock.TryLock()
		if err != nil || !locked {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fileLock.Unlock()
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			fileLock.Unlock()
			continue
		}

		if now.Sub(rec.Finished) > retention {
			os.Remove(path)
		}
		fileLock.Unlock()
	}
}
