// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Disk implements [Store] on the local filesystem beneath a fixed root.
//
// # Layout
//
// The root is typically served directly by a reverse proxy or CDN, so a
// stored key equals its public URL path. All mutating operations validate
// the key first; a key can never resolve outside the root.
type Disk struct {
	root string
}

// NewDisk creates the root directory if needed and returns a disk store.
func NewDisk(root string) (*Disk, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root %q: %w", root, err)
	}

	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %q: %w", absRoot, err)
	}

	return &Disk{root: absRoot}, nil
}

// Exists reports whether a file or directory is present at key.
func (disk *Disk) Exists(_ context.Context, key string) (bool, error) {
	path, err := disk.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %q: %w", key, err)
	}
	return true, nil
}

// WriteFile stores the reader's contents at key, creating parents as needed.
func (disk *Disk) WriteFile(_ context.Context, key string, data io.Reader) error {
	path, err := disk.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage: create parent of %q: %w", key, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage: create %q: %w", key, err)
	}

	if _, err := io.Copy(file, data); err != nil {
		_ = file.Close()
		return fmt.Errorf("storage: write %q: %w", key, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("storage: close %q: %w", key, err)
	}
	return nil
}

// DeleteFile removes the single file at key. Absence is not an error.
func (disk *Disk) DeleteFile(_ context.Context, key string) error {
	path, err := disk.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %q: %w", key, err)
	}
	return nil
}

// MoveDir renames the directory at oldKey to newKey.
//
// os.Rename is atomic within a filesystem, which is what makes the
// slug-change folder rename safe against concurrent readers.
func (disk *Disk) MoveDir(_ context.Context, oldKey, newKey string) error {
	oldPath, err := disk.resolve(oldKey)
	if err != nil {
		return err
	}
	newPath, err := disk.resolve(newKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("storage: create parent of %q: %w", newKey, err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("storage: move %q to %q: %w", oldKey, newKey, err)
	}
	return nil
}

// DeleteDir recursively removes the directory at key. Absence is not an error.
func (disk *Disk) DeleteDir(_ context.Context, key string) error {
	path, err := disk.resolve(key)
	if err != nil {
		return err
	}

	// Refuse to operate on the root itself.
	if path == disk.root {
		return ErrInvalidKey
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("storage: remove dir %q: %w", key, err)
	}
	return nil
}

// resolve maps a storage key onto an absolute path under the root,
// rejecting empty, absolute, and traversing keys.
func (disk *Disk) resolve(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasPrefix(key, "\\") {
		return "", ErrInvalidKey
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}

	return filepath.Join(disk.root, cleaned), nil
}
