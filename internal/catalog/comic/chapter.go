// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
Package comic provides the domain models for chapters and their images.

Chapters order a comic's serialized releases; each chapter owns a sequence
of page images whose storage paths live under the comic's asset folder and
must therefore survive slug-driven folder renames.
*/
package comic

import "time"

// # Chapter Aggregate

// Chapter represents a single chapter (episode) of a comic.
// It acts as the container for a sequence of image pages.
type Chapter struct {
	ID      int64  `json:"id"`
	ComicID int64  `json:"comic_id"`
	Number  int    `json:"number"` // Ordering key, unique within a comic
	Title   string `json:"title"`  // Optional; may be empty for untitled chapters
	Slug    string `json:"slug"`   // Derived from title when absent

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Chapter Images

// ChapterImage represents a single page image within a [Chapter].
//
// ImagePath is a storage key under the owning comic's folder; the lifecycle
// manager rewrites its folder segment whenever the comic's slug changes.
type ChapterImage struct {
	ID         int64     `json:"id"`
	ChapterID  int64     `json:"chapter_id"`
	PageNumber int       `json:"page_number"`
	ImagePath  string    `json:"image_path"`
	CreatedAt  time.Time `json:"created_at"`
}
