package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps both slots as files on the local filesystem, the
// single-client analog of browser local storage. Writes go through a
// temp file followed by rename so a crash never leaves a half-written
// slot behind.
type FileStore struct {
	snapshotPath string
	tokenPath    string
	bcryptCost   int
}

// NewFileStore returns a store persisting the snapshot and the bearer
// token at the given paths. Parent directories are created on first
// write. bcryptCost is only used when seeding an empty snapshot slot.
func NewFileStore(snapshotPath, tokenPath string, bcryptCost int) *FileStore {
	return &FileStore{snapshotPath: snapshotPath, tokenPath: tokenPath, bcryptCost: bcryptCost}
}

// Load reads the snapshot slot, falling back to the seed dataset when
// the file does not exist yet.
func (f *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(f.snapshotPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SeedSnapshot(f.bcryptCost)
		}
		return nil, fmt.Errorf("%w: read snapshot: %v", ErrUnavailable, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", ErrUnavailable, err)
	}
	return &snap, nil
}

// Save overwrites the snapshot slot.
func (f *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", ErrUnavailable, err)
	}
	return f.writeAtomic(f.snapshotPath, data)
}

// Get reads the bearer-token slot; "" means no token is set.
func (f *FileStore) Get(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.tokenPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: read token slot: %v", ErrUnavailable, err)
	}
	return string(data), nil
}

// Set stores the bearer token.
func (f *FileStore) Set(ctx context.Context, token string) error {
	return f.writeAtomic(f.tokenPath, []byte(token))
}

// Clear empties the bearer-token slot. Clearing an already empty
// slot is not an error.
func (f *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.tokenPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: clear token slot: %v", ErrUnavailable, err)
	}
	return nil
}

func (f *FileStore) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrUnavailable, dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write temp: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close temp: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", ErrUnavailable, err)
	}
	return nil
}
