// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package comic

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/panelku/panelku/internal/platform/constants"
)

// # Asset Folder Naming
//
// Every comic owns exactly one storage folder keyed by its generated id and
// current slug. The id prefix guarantees the key is unique even when two
// comics share a slugified title history, and it means the folder name can
// only be computed after the database row exists.

// FolderSegment returns the folder name for a comic: "{id}-{slug}".
func FolderSegment(id int64, slug string) string {
	return fmt.Sprintf("%d-%s", id, slug)
}

// FolderKey returns the full storage key of a comic's asset folder:
// "comics/{id}-{slug}".
func FolderKey(id int64, slug string) string {
	return constants.ComicFolderPrefix + "/" + FolderSegment(id, slug)
}

// CoverFilename returns the cover file name for a given extension,
// e.g. "cover.jpg".
func CoverFilename(ext string) string {
	return constants.CoverFileStem + "." + ext
}

// CoverKey returns the full storage key of a comic's cover image:
// "comics/{id}-{slug}/cover.{ext}".
func CoverKey(id int64, slug, ext string) string {
	return FolderKey(id, slug) + "/" + CoverFilename(ext)
}

// # Upload Validation

// allowedCoverExts is the set of accepted cover image extensions.
var allowedCoverExts = map[string]struct{}{
	"jpeg": {},
	"jpg":  {},
	"png":  {},
	"webp": {},
}

// ExtFromFilename extracts the lowercase extension (without the dot) from
// an uploaded file's name. Returns "" when the name has no extension.
func ExtFromFilename(filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedCoverExt reports whether ext is an accepted cover extension.
func AllowedCoverExt(ext string) bool {
	_, ok := allowedCoverExts[ext]
	return ok
}

// SniffIsImage reports whether the uploaded bytes look like an image.
//
// The first 512 bytes are enough for [http.DetectContentType]; this guards
// against a renamed non-image file slipping through the extension check.
func SniffIsImage(data []byte) bool {
	if len(data) > 512 {
		data = data[:512]
	}
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}

// # Path Rewriting

// RewritePathSegment replaces exact path segments equal to oldSegment with
// newSegment.
//
// Raw substring substitution corrupts paths whose file names happen to
// contain the old slug (e.g. a page image named "15-naruto-extra.jpg"), so
// the rewrite operates on parsed components and only swaps whole folder
// segments.
func RewritePathSegment(storagePath, oldSegment, newSegment string) string {
	if oldSegment == "" || oldSegment == newSegment {
		return storagePath
	}

	segments := strings.Split(storagePath, "/")
	for i, segment := range segments {
		if segment == oldSegment {
			segments[i] = newSegment
		}
	}
	return strings.Join(segments, "/")
}
