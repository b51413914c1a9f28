package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	apperrors "wordgraph/backend/pkg/errors"
)

// FileStore keeps the snapshot as a JSON document on local disk
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file location
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the record to a temporary file and renames it into place, so
// readers never see a partial snapshot
func (s *FileStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewStoreFailed("save snapshot", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperrors.NewStoreFailed("save snapshot", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := json.NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		return apperrors.NewStoreFailed("save snapshot", fmt.Errorf("encode: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStoreFailed("save snapshot", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperrors.NewStoreFailed("save snapshot", err)
	}
	return nil
}

// Load reads the snapshot file
func (s *FileStore) Load(ctx context.Context) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewSnapshotNotFound(s.path)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailed("load snapshot", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperrors.NewStoreFailed("load snapshot", fmt.Errorf("decode %s: %w", s.path, err))
	}
	return &rec, nil
}
