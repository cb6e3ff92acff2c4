// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package comic

import "context"

// PlaceCoverFunc stores a comic's cover asset once the generated id is
// known and returns the resulting storage path.
//
// The repository invokes it from inside the Create transaction, after the
// row insert has produced the id but before the commit, so a placement
// failure rolls the row back while the caller compensates the filesystem.
type PlaceCoverFunc func(context context.Context, id int64, slug string) (coverPath string, err error)

// UpdateSet carries a validated, resolved partial update into the store.
//
// Nil pointer fields are left untouched. A nil GenreIDs slice leaves the
// associations alone; a non-nil slice synchronizes them to exactly that
// set. When the slug changed, OldSegment/NewSegment trigger the exact
// path-segment rewrite of every chapter image path inside the same
// transaction as the scalar update.
type UpdateSet struct {
	ID int64

	Title    *string
	Slug     *string
	Author   *string
	Status   *Status
	Type     *Type
	Synopsis *string

	// CoverImage is set when a new cover was staged or when the persisted
	// path needs its folder segment rewritten after a rename.
	CoverImage *string

	GenreIDs []int64

	// Folder segments for the chapter image path rewrite; both empty when
	// the slug did not change.
	OldSegment string
	NewSegment string
}

// # Comic Data Access

// Repository defines the data access contract for the comic domain.
type Repository interface {

	/*
		List returns a filtered slice of comics with genres and chapters
		eager-loaded, plus the total count matching the filter.

		A limit of zero disables pagination and returns the full set.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Search, status, type, genre slug)
		  - limit: int (0 = unlimited)
		  - offset: int

		Returns:
		  - []*Comic: Matching publications, newest-created first
		  - int: Total count matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Comic, int, error)

	/*
		FindByID returns the non-deleted comic with the given id, with
		genres and chapters eager-loaded.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Comic: The hydrated domain entity
		  - error: apperr.NotFound if missing or soft-deleted
	*/
	FindByID(context context.Context, id int64) (*Comic, error)

	/*
		FindAnyByID returns the comic with the given id irrespective of its
		soft-deletion state. Used by Delete, which must hard-remove even
		soft-deleted rows.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Comic: Core columns only (no eager loading)
		  - error: apperr.NotFound if no row exists at all
	*/
	FindAnyByID(context context.Context, id int64) (*Comic, error)

	/*
		SlugTaken reports whether another non-deleted comic already uses the
		slug. excludeID ignores the caller's own row during updates (0 for
		creates).

		Parameters:
		  - context: context.Context
		  - slug: string
		  - excludeID: int64

		Returns:
		  - bool: Slug collision among non-deleted comics
		  - error: Database retrieval failures
	*/
	SlugTaken(context context.Context, slug string, excludeID int64) (bool, error)

	/*
		Create persists a new comic in a single transaction: insert the row
		with the "pending" cover sentinel, attach the genres, invoke place
		to store the cover asset, and set the real path.

		On success the comic's ID, CoverImage, and timestamps are populated.
		On failure the transaction is rolled back; compensating the asset
		write is the caller's responsibility (the store cannot undo a
		filesystem effect).

		Parameters:
		  - context: context.Context
		  - comic: *Comic (Validated scalar fields)
		  - genreIDs: []int64 (Non-empty, pre-verified)
		  - place: PlaceCoverFunc

		Returns:
		  - error: Storage, constraint, or placement failures
	*/
	Create(context context.Context, comic *Comic, genreIDs []int64, place PlaceCoverFunc) error

	/*
		ApplyUpdate persists a resolved partial update in one transaction:
		scalar columns, genre synchronization, and the chapter image path
		segment rewrite when the slug changed.

		Parameters:
		  - context: context.Context
		  - update: *UpdateSet

		Returns:
		  - error: apperr.NotFound if the row is missing or soft-deleted,
		    otherwise constraint or execution failures
	*/
	ApplyUpdate(context context.Context, update *UpdateSet) error

	/*
		HardDelete removes the comic's chapter rows and the comic row itself
		in one transaction, bypassing soft-delete. Chapter image rows follow
		their chapters via the FK cascade.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Deletion failures
	*/
	HardDelete(context context.Context, id int64) error

	// # Chapter Metadata

	/*
		ListChapters returns all chapters of a comic ordered by number.

		Parameters:
		  - context: context.Context
		  - comicID: int64

		Returns:
		  - []*Chapter: Ordered chapter metadata
		  - error: Retrieval failures
	*/
	ListChapters(context context.Context, comicID int64) ([]*Chapter, error)

	/*
		CreateChapter persists a new chapter metadata row.

		Parameters:
		  - context: context.Context
		  - chapter: *Chapter (ComicID, Number, Title, Slug)

		Returns:
		  - error: apperr.Conflict on a duplicate number within the comic
	*/
	CreateChapter(context context.Context, chapter *Chapter) error
}

// # Cross-Domain Contracts

// GenreChecker verifies genre id references during comic creation and
// update. Implemented by the genre registry's repository.
type GenreChecker interface {

	/*
		MissingIDs returns the subset of ids that do not exist in the genre
		registry. An empty result means every reference is valid.

		Parameters:
		  - context: context.Context
		  - ids: []int64

		Returns:
		  - []int64: Ids with no matching genre row
		  - error: Database retrieval failures
	*/
	MissingIDs(context context.Context, ids []int64) ([]int64, error)
}
