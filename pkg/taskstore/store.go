// Package taskstore persists accepted task records as one JSON file each.
// Files are written once and never updated or deleted; the local copy is the
// source of truth regardless of ticket-filing outcome.
package taskstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"taskdesk/pkg/logx"
	"taskdesk/pkg/task"
)

// Store writes task records to a directory using timestamp-derived names.
type Store struct {
	dir    string
	logger *logx.Logger
	mu     sync.Mutex
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tasks directory %s: %w", dir, err)
	}
	return &Store{
		dir:    dir,
		logger: logx.NewLogger("taskstore"),
	}, nil
}

// Save writes the record to a new file and returns its path. The name is
// derived from the record's creation timestamp; collisions within the same
// second get a numeric suffix so no file is ever overwritten.
func (s *Store) Save(rec *task.Record) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("record cannot be nil")
	}
	if rec.Content == "" {
		return "", fmt.Errorf("record content cannot be empty")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal task record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := rec.CreatedAt.In(task.Zone).Format("20060102_150405")
	path := filepath.Join(s.dir, fmt.Sprintf("task_%s.json", stamp))
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(s.dir, fmt.Sprintf("task_%s_%d.json", stamp, n))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write task file %s: %w", path, err)
	}

	s.logger.Info("task saved: %s", path)
	return path, nil
}

// Load reads a record back from a file. Used by tests and tooling; the
// pipeline itself never reads tasks back.
func (s *Store) Load(path string) (*task.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file %s: %w", path, err)
	}
	var rec task.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task file %s: %w", path, err)
	}
	return &rec, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
