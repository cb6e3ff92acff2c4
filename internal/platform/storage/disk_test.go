// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panelku/panelku/internal/platform/storage"
)

func newDisk(t *testing.T) *storage.Disk {
	t.Helper()
	disk, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	return disk
}

/*
TestDisk_WriteExistsDelete covers the basic file round-trip.
*/
func TestDisk_WriteExistsDelete(t *testing.T) {
	ctx := context.Background()
	disk := newDisk(t)

	key := "comics/15-naruto/cover.jpg"
	require.NoError(t, disk.WriteFile(ctx, key, strings.NewReader("jpeg-bytes")))

	ok, err := disk.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	// The parent folder also answers Exists.
	ok, err = disk.Exists(ctx, "comics/15-naruto")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, disk.DeleteFile(ctx, key))
	ok, err = disk.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent file is not an error.
	assert.NoError(t, disk.DeleteFile(ctx, key))
}

/*
TestDisk_MoveDir verifies the folder rename used on slug changes: nested
files travel with the directory and the old key disappears.
*/
func TestDisk_MoveDir(t *testing.T) {
	ctx := context.Background()
	disk := newDisk(t)

	require.NoError(t, disk.WriteFile(ctx, "comics/15-naruto/cover.jpg", strings.NewReader("cover")))
	require.NoError(t, disk.WriteFile(ctx, "comics/15-naruto/chapter-1/001.jpg", strings.NewReader("page")))

	require.NoError(t, disk.MoveDir(ctx, "comics/15-naruto", "comics/15-naruto-renamed"))

	ok, err := disk.Exists(ctx, "comics/15-naruto")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = disk.Exists(ctx, "comics/15-naruto-renamed/chapter-1/001.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
}

/*
TestDisk_DeleteDir verifies recursive deletion of a comic folder.
*/
func TestDisk_DeleteDir(t *testing.T) {
	ctx := context.Background()
	disk := newDisk(t)

	require.NoError(t, disk.WriteFile(ctx, "comics/7-bleach/cover.png", strings.NewReader("cover")))
	require.NoError(t, disk.WriteFile(ctx, "comics/7-bleach/chapter-2/004.png", strings.NewReader("page")))

	require.NoError(t, disk.DeleteDir(ctx, "comics/7-bleach"))

	ok, err := disk.Exists(ctx, "comics/7-bleach")
	require.NoError(t, err)
	assert.False(t, ok)

	// Absent directories delete without error.
	assert.NoError(t, disk.DeleteDir(ctx, "comics/7-bleach"))
}

/*
TestDisk_KeyValidation ensures traversal and absolute keys are rejected
before touching the filesystem.
*/
func TestDisk_KeyValidation(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk, err := storage.NewDisk(root)
	require.NoError(t, err)

	// Plant a file outside the root that a traversal would reach.
	outside := filepath.Join(root, "..", "escape.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	badKeys := []string{"", "/etc/passwd", "../escape.txt", "comics/../../escape.txt", ".."}
	for _, key := range badKeys {
		_, err := disk.Exists(ctx, key)
		assert.ErrorIs(t, err, storage.ErrInvalidKey, "key %q", key)
	}

	// DeleteDir must refuse the store root.
	assert.ErrorIs(t, disk.DeleteDir(ctx, "."), storage.ErrInvalidKey)
}
