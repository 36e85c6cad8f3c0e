package filerepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-maint-dashboard/session"
)

var _ session.Repo = (*FileRepo)(nil)

// FileRepo stores the session entries as a flat JSON object in a single file. Writes go to
// a temp file that is renamed over the original so a crash never leaves a half-written file.
type FileRepo struct {
	path string
	lock sync.Mutex
}

func New(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (fr *FileRepo) Get(_ context.Context, key string) (string, bool, error) {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	entries, err := fr.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

func (fr *FileRepo) Put(_ context.Context, entries map[string]string) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	current, err := fr.load()
	if err != nil {
		return err
	}
	for k, v := range entries {
		current[k] = v
	}
	return fr.save(current)
}

func (fr *FileRepo) Delete(_ context.Context, keys ...string) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	current, err := fr.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		if err := os.Remove(fr.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("[filerepo Delete] failed to remove %s: %w", fr.path, err)
		}
		return nil
	}
	return fr.save(current)
}

func (fr *FileRepo) load() (map[string]string, error) {
	entries := make(map[string]string)

	data, err := os.ReadFile(fr.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[filerepo load] failed to read %s: %w", fr.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("[filerepo load] failed to decode %s: %w", fr.path, err)
	}
	return entries, nil
}

func (fr *FileRepo) save(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(fr.path), 0o700); err != nil {
		return fmt.Errorf("[filerepo save] failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("[filerepo save] failed to encode entries: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fr.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("[filerepo save] failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[filerepo save] failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[filerepo save] failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[filerepo save] failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, fr.path); err != nil {
		return fmt.Errorf("[filerepo save] failed to replace %s: %w", fr.path, err)
	}
	return nil
}
