// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package comic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panelku/panelku/internal/catalog/comic"
)

/*
TestFolderKey verifies the deterministic asset folder naming scheme.
*/
func TestFolderKey(t *testing.T) {
	assert.Equal(t, "comics/15-naruto", comic.FolderKey(15, "naruto"))
	assert.Equal(t, "15-naruto", comic.FolderSegment(15, "naruto"))
	assert.Equal(t, "comics/15-naruto/cover.jpg", comic.CoverKey(15, "naruto", "jpg"))
}

/*
TestExtFromFilename verifies extension extraction and normalization.
*/
func TestExtFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{name: "simple jpg", filename: "shonen.jpg", expected: "jpg"},
		{name: "uppercase", filename: "COVER.PNG", expected: "png"},
		{name: "multiple dots", filename: "my.comic.cover.webp", expected: "webp"},
		{name: "no extension", filename: "cover", expected: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, comic.ExtFromFilename(test.filename))
		})
	}
}

/*
TestAllowedCoverExt verifies the cover extension allow-list.
*/
func TestAllowedCoverExt(t *testing.T) {
	for _, ext := range []string{"jpeg", "jpg", "png", "webp"} {
		assert.True(t, comic.AllowedCoverExt(ext), ext)
	}

	for _, ext := range []string{"gif", "svg", "exe", "", "php"} {
		assert.False(t, comic.AllowedCoverExt(ext), ext)
	}
}

/*
TestRewritePathSegment verifies that only exact folder segments are swapped,
never arbitrary substrings.
*/
func TestRewritePathSegment(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		oldSeg   string
		newSeg   string
		expected string
	}{
		{
			name:     "cover path rename",
			path:     "comics/15-naruto/cover.jpg",
			oldSeg:   "15-naruto",
			newSeg:   "15-naruto-renamed",
			expected: "comics/15-naruto-renamed/cover.jpg",
		},
		{
			name:     "chapter image path rename",
			path:     "comics/15-naruto/chapter-1/01.png",
			oldSeg:   "15-naruto",
			newSeg:   "15-boruto",
			expected: "comics/15-boruto/chapter-1/01.png",
		},
		{
			// A file name containing the old segment as a substring must
			// survive untouched.
			name:     "substring in file name is not replaced",
			path:     "comics/15-naruto/15-naruto-extra.jpg",
			oldSeg:   "15-naruto",
			newSeg:   "15-boruto",
			expected: "comics/15-boruto/15-naruto-extra.jpg",
		},
		{
			name:     "no match",
			path:     "comics/9-bleach/cover.jpg",
			oldSeg:   "15-naruto",
			newSeg:   "15-boruto",
			expected: "comics/9-bleach/cover.jpg",
		},
		{
			name:     "identical segments",
			path:     "comics/15-naruto/cover.jpg",
			oldSeg:   "15-naruto",
			newSeg:   "15-naruto",
			expected: "comics/15-naruto/cover.jpg",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, comic.RewritePathSegment(test.path, test.oldSeg, test.newSeg))
		})
	}
}

/*
TestSniffIsImage verifies the content sniff accepts real image headers and
rejects arbitrary bytes.
*/
func TestSniffIsImage(t *testing.T) {
	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}

	assert.True(t, comic.SniffIsImage(pngHeader))
	assert.True(t, comic.SniffIsImage(jpegHeader))
	assert.False(t, comic.SniffIsImage([]byte("<?php echo 'not an image'; ?>")))
	assert.False(t, comic.SniffIsImage([]byte{}))
}
