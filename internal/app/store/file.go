package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dcg/internal/app/user"
	"dcg/internal/pkg/logx"
)

// FileStore persists the application document as a JSON file under the data
// directory. This is the default backend and requires no infrastructure.
type FileStore struct {
	path string
}

// NewFileStore creates the data directory if necessary and returns a store
// writing to <dataDir>/<StorageKey>.json.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	return &FileStore{
		path: filepath.Join(dataDir, StorageKey+".json"),
	}, nil
}

// Load implements Store. A missing file seeds the default state; an
// unreadable or unparseable file is logged and replaced by the default state.
func (f *FileStore) Load(ctx context.Context) (*user.State, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return f.seed(ctx)
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", f.path, err)
	}

	state := &user.State{}
	if err := json.Unmarshal(raw, state); err != nil {
		logx.Warn("Stored document is corrupt, reseeding default state", "path", f.path, "error", err.Error())
		return f.seed(ctx)
	}

	return state, nil
}

// Save implements Store. The document is written to a temporary file first and
// moved into place, so a crash mid-write never leaves a truncated document.
func (f *FileStore) Save(ctx context.Context, state *user.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// Close implements Store. The file backend holds no resources.
func (f *FileStore) Close() {}

func (f *FileStore) seed(ctx context.Context) (*user.State, error) {
	state := user.DefaultState()
	if err := f.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}
