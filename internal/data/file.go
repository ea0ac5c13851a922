package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
	"github.com/rfrbot/roles-for-reactions/internal/biz/repo"
)

// fileRepo persists monitors as a single JSON file, rewritten in full on
// every save.
type fileRepo struct {
	path string
}

// NewFileRepo creates a JSON file monitor repository
func NewFileRepo(path string) (repo.MonitorRepo, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &fileRepo{path: path}, nil
}

// Load reads the full monitor record. A missing file is an empty store, not
// an error.
func (r *fileRepo) Load(ctx context.Context) ([]domain.Monitor, error) {
	content, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []domain.Monitor{}, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}

	var monitors []domain.Monitor
	if err := json.Unmarshal(content, &monitors); err != nil {
		return nil, &domain.StorageError{Op: "load", Err: fmt.Errorf("failed to parse %s: %w", r.path, err)}
	}
	return monitors, nil
}

// Save rewrites the full monitor record
func (r *fileRepo) Save(ctx context.Context, monitors []domain.Monitor) error {
	content, err := json.MarshalIndent(monitors, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	if err := os.WriteFile(r.path, content, 0644); err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	return nil
}

// Close is a no-op for the file backend
func (r *fileRepo) Close() error { return nil }
