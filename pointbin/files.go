package pointbin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// -----------------------------------------------------------------------------
// Filesystem
// -----------------------------------------------------------------------------

// osFS implements FileSystem on the local filesystem.
// An empty root means paths are used as given.
type osFS struct {
	root string
}

// NewOSFileSystem creates a FileSystem that accepts any local path, as
// chosen by a user in a file dialog.
func NewOSFileSystem() FileSystem {
	return &osFS{}
}

// NewRootedFileSystem creates a FileSystem confined to root.
// The directory must exist. Paths are relative to root and may not escape it.
func NewRootedFileSystem(root string) (FileSystem, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, os.ErrNotExist
	}
	return &osFS{root: root}, nil
}

func (f *osFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	fullPath, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
	}
	return data, nil
}

func (f *osFS) WriteFile(_ context.Context, path string, r io.Reader) error {
	fullPath, err := f.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (f *osFS) Exists(_ context.Context, path string) (bool, error) {
	fullPath, err := f.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (f *osFS) List(_ context.Context, prefix string) ([]string, error) {
	searchPath, err := f.resolvePrefix(prefix)
	if err != nil {
		return nil, err
	}
	var paths []string

	err = filepath.Walk(searchPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if f.root == "" {
			paths = append(paths, path)
			return nil
		}
		relPath, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (f *osFS) Remove(_ context.Context, path string) error {
	fullPath, err := f.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *osFS) resolve(path string) (string, error) {
	if path == "" {
		return "", ErrInvalidPath
	}
	if f.root == "" {
		return path, nil
	}

	cleaned := filepath.Clean(path)
	if cleaned == "." || filepath.IsAbs(cleaned) {
		return "", ErrInvalidPath
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}

	fullPath := filepath.Join(f.root, cleaned)

	absRoot, err := filepath.Abs(f.root)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}

	return fullPath, nil
}

func (f *osFS) resolvePrefix(prefix string) (string, error) {
	if f.root == "" {
		if prefix == "" {
			return ".", nil
		}
		return prefix, nil
	}
	if prefix == "" {
		return f.root, nil
	}

	cleaned := filepath.Clean(prefix)
	if cleaned == "." {
		return f.root, nil
	}
	if filepath.IsAbs(cleaned) {
		return "", ErrInvalidPath
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}

	return filepath.Join(f.root, cleaned), nil
}

// -----------------------------------------------------------------------------
// Memory Filesystem
// -----------------------------------------------------------------------------

// MemoryFileSystem implements FileSystem using an in-memory map.
// It is safe for concurrent use.
type MemoryFileSystem struct {
	mu     sync.RWMutex
	data   map[string][]byte
	writes int
}

// NewMemoryFileSystem creates an empty in-memory FileSystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		data: make(map[string][]byte),
	}
}

// ReadFile returns a copy of the stored content.
func (m *MemoryFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	normalized, valid := normalizePath(path)
	if !valid {
		return nil, ErrInvalidPath
	}

	m.mu.RLock()
	data, exists := m.data[normalized]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return bytes.Clone(data), nil
}

// WriteFile replaces any existing content at path.
func (m *MemoryFileSystem) WriteFile(_ context.Context, path string, r io.Reader) error {
	normalized, valid := normalizePath(path)
	if !valid {
		return ErrInvalidPath
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data[normalized] = data
	m.writes++
	m.mu.Unlock()

	return nil
}

// Exists checks whether a path exists.
func (m *MemoryFileSystem) Exists(_ context.Context, path string) (bool, error) {
	normalized, valid := normalizePath(path)
	if !valid {
		return false, ErrInvalidPath
	}

	m.mu.RLock()
	_, exists := m.data[normalized]
	m.mu.RUnlock()

	return exists, nil
}

// List returns stored paths under prefix, sorted.
func (m *MemoryFileSystem) List(_ context.Context, prefix string) ([]string, error) {
	normalized := ""
	if prefix != "" {
		var valid bool
		normalized, valid = normalizePath(prefix)
		if !valid {
			return nil, ErrInvalidPath
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var paths []string
	for path := range m.data {
		if strings.HasPrefix(path, normalized) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Remove deletes the path if it exists.
func (m *MemoryFileSystem) Remove(_ context.Context, path string) error {
	normalized, valid := normalizePath(path)
	if !valid {
		return ErrInvalidPath
	}

	m.mu.Lock()
	delete(m.data, normalized)
	m.mu.Unlock()

	return nil
}

// Writes returns the number of WriteFile calls that stored data.
func (m *MemoryFileSystem) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func normalizePath(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	cleaned := filepath.ToSlash(filepath.Clean(path))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}

	return cleaned, true
}
