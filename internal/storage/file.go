package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileGateway keeps one JSON array file per collection inside a data
// directory. Saves go to a temp file in the same directory followed by a
// rename, so a crash mid-write never corrupts the previous snapshot.
type FileGateway struct {
	dir string
}

// NewFileGateway creates the data directory if needed.
func NewFileGateway(dir string) (*FileGateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileGateway{dir: dir}, nil
}

func (g *FileGateway) path(name string) string {
	return filepath.Join(g.dir, name+".json")
}

// LoadCollection reads <dir>/<name>.json. A missing file means the
// collection is empty and out is left untouched.
func (g *FileGateway) LoadCollection(_ context.Context, name string, out any) error {
	data, err := os.ReadFile(g.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	return nil
}

// SaveCollection writes the whole collection atomically.
func (g *FileGateway) SaveCollection(_ context.Context, name string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(g.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), g.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace collection %s: %w", name, err)
	}
	return nil
}

func (g *FileGateway) Close(context.Context) error {
	return nil
}
