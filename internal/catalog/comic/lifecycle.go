// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
Lifecycle operations for the comic aggregate.

Create, Update, and Delete each span two systems that are not jointly
transactional: the relational store and the asset store. Every operation
therefore follows a saga shape: stage filesystem effects around a single
database transaction, compensate what can be compensated on failure, and
log what cannot for manual reconciliation. Update and Delete additionally
run inside a per-comic-id exclusive section so concurrent requests cannot
race on the shared folder.
*/
package comic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/panelku/panelku/internal/platform/apperr"
	"github.com/panelku/panelku/internal/platform/cache"
	"github.com/panelku/panelku/internal/platform/constants"
	"github.com/panelku/panelku/internal/platform/validate"
	"github.com/panelku/panelku/pkg/slug"
)

// # Lifecycle Inputs

// CoverUpload carries an uploaded cover image into the service layer.
type CoverUpload struct {
	Filename string
	Size     int64
	Data     io.Reader
}

// CreateInput is the validated-at-the-service payload for comic creation.
type CreateInput struct {
	Title    string
	Slug     string
	Author   string
	Status   Status
	Type     Type
	Synopsis string
	GenreIDs []int64
	Cover    *CoverUpload
}

// UpdateInput is the partial payload for comic updates. Nil pointer fields
// are left untouched; a nil GenreIDs slice leaves associations alone.
type UpdateInput struct {
	Title    *string
	Slug     *string
	Author   *string
	Status   *Status
	Type     *Type
	Synopsis *string
	GenreIDs []int64
	Cover    *CoverUpload
}

// ChapterInput is the payload for chapter metadata creation.
type ChapterInput struct {
	Number int
	Title  string
	Slug   string
}

// # Comic Creation

/*
Create initialises a new comic, its genre associations, and its cover asset.

Description: Validates the input, then executes the creation saga: the row
is inserted with the "pending" cover sentinel (the folder name embeds the
generated id, so the row must exist first), genres are attached, the cover
is stored under comics/{id}-{slug}, and the real path is written back, all
inside one database transaction. Any failure rolls the transaction back and
deletes the partially-created folder before propagating.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Comic: The persisted comic with genres loaded
  - error: Validation, conflict, storage, or persistence errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Comic, error) {

	// Repeated genre references collapse to a single association
	input.GenreIDs = dedupeGenreIDs(input.GenreIDs)

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 255)
	validator.Required(FieldSlug, input.Slug)
	validator.Required(FieldAuthor, input.Author).MaxLen(FieldAuthor, input.Author, 255)
	validator.Required(FieldSynopsis, input.Synopsis)

	// Lifecycle state validation
	validator.Required(FieldStatus, string(input.Status)).OneOf(FieldStatus, string(input.Status),
		string(StatusOngoing),
		string(StatusCompleted),
	)

	// Publication type validation
	validator.Required(FieldType, string(input.Type)).OneOf(FieldType, string(input.Type),
		string(TypeManga),
		string(TypeManhwa),
		string(TypeManhua),
	)

	// Genre references are mandatory on creation
	validator.Custom(FieldGenreIDs, len(input.GenreIDs) == 0, "At least one genre is required")

	// Cover upload is mandatory on creation
	if input.Cover == nil {
		validator.Custom(FieldCover, true, "A cover image is required")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Slug normalization (explicit pre-persist step, never a hidden hook)
	normalizedSlug := slug.From(input.Slug)
	if normalizedSlug == "" {
		return nil, validate.RequiredError(FieldSlug, "Slug must contain at least one letter or digit")
	}

	// Cover payload validation (extension, size ceiling, content sniff)
	coverData, coverExt, err := service.readCover(input.Cover)
	if err != nil {
		return nil, err
	}

	// Every referenced genre must exist
	missing, err := service.genres.MissingIDs(context, input.GenreIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, validate.RequiredError(FieldGenreIDs, fmt.Sprintf("Unknown genre ids: %v", missing))
	}

	// Slug uniqueness among non-deleted comics (the partial unique index
	// backstops racing creates)
	taken, err := service.repo.SlugTaken(context, normalizedSlug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Comic slug already in use")
	}

	// Row insert uses the sentinel; the real path is set once the asset
	// placement succeeds inside the same transaction
	comic := &Comic{
		Title:      input.Title,
		Slug:       normalizedSlug,
		Author:     input.Author,
		Status:     input.Status,
		Type:       input.Type,
		Synopsis:   input.Synopsis,
		CoverImage: constants.CoverPendingSentinel,
	}

	// The placement callback records the folder it creates so the saga can
	// compensate a mid-transaction failure
	var createdFolder string
	place := service.coverPlacer(coverData, coverExt, &createdFolder)

	// Transactional persistence
	if err := service.repo.Create(context, comic, input.GenreIDs, place); err != nil {

		// Compensating action: the DB transaction rolled back on its own,
		// but a filesystem write cannot be undone by it
		if createdFolder != "" {
			if cleanupErr := service.assets.DeleteDir(context, createdFolder); cleanupErr != nil {
				service.logger.ErrorContext(context, "comic_create_folder_cleanup_failed",
					slog.String("folder", createdFolder),
					slog.Any("error", cleanupErr),
				)
			}
		}
		return nil, err
	}

	service.logger.InfoContext(context, "comic_created",
		slog.Int64("comic_id", comic.ID),
		slog.String("slug", comic.Slug),
	)

	// Return the persisted comic with its genre associations loaded
	return service.repo.FindByID(context, comic.ID)
}

// # Comic Update

/*
Update applies a partial modification to a comic, its genre associations,
and its asset folder.

Description: Runs inside the comic's exclusive section. The effective slug
is resolved first (an explicit normalized slug wins over a title-derived
one); if it changed, uniqueness is re-checked and the storage folder is
renamed (a no-op when the old folder does not exist). A new cover is staged
before the database commit and the replaced file is deleted only after it;
when the slug changed without a new cover, the persisted cover path and
every chapter image path are rewritten by exact path-segment replacement
inside the same transaction. On a database failure the rename and the
staged file are compensated; steps that cannot be compensated are logged
for manual reconciliation.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateInput

Returns:
  - *Comic: The persisted comic with genres loaded
  - error: Validation, not-found, conflict, storage, or persistence errors
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Comic, error) {

	// Per-comic exclusive section
	unlock := service.locks.Lock(id)
	defer unlock()

	// Target row lookup
	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Integrity validation for supplied fields
	validator := &validate.Validator{}

	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 255)
	}
	if input.Author != nil {
		validator.Required(FieldAuthor, *input.Author).MaxLen(FieldAuthor, *input.Author, 255)
	}
	if input.Status != nil {
		validator.OneOf(FieldStatus, string(*input.Status),
			string(StatusOngoing),
			string(StatusCompleted),
		)
	}
	if input.Type != nil {
		validator.OneOf(FieldType, string(*input.Type),
			string(TypeManga),
			string(TypeManhwa),
			string(TypeManhua),
		)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Effective slug resolution: explicit wins, title-derived is fallback
	effectiveSlug := current.Slug
	if input.Slug != nil {
		normalized := slug.From(*input.Slug)
		if normalized == "" {
			return nil, validate.RequiredError(FieldSlug, "Slug must contain at least one letter or digit")
		}
		effectiveSlug = normalized
	} else if input.Title != nil && *input.Title != current.Title {
		// A derived slug must be usable too; an empty one would corrupt the
		// folder key and collide on the unique index
		effectiveSlug = slug.From(*input.Title)
		if effectiveSlug == "" {
			return nil, validate.RequiredError(FieldSlug, "Title does not produce a usable slug")
		}
	}
	slugChanged := effectiveSlug != current.Slug

	// Uniqueness is re-checked only when the slug actually changes
	if slugChanged {
		taken, err := service.repo.SlugTaken(context, effectiveSlug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Comic slug already in use")
		}
	}

	// Repeated genre references collapse to a single association
	input.GenreIDs = dedupeGenreIDs(input.GenreIDs)

	// Supplied genre references must exist
	if len(input.GenreIDs) > 0 {
		missing, err := service.genres.MissingIDs(context, input.GenreIDs)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, validate.RequiredError(FieldGenreIDs, fmt.Sprintf("Unknown genre ids: %v", missing))
		}
	}

	// New cover payload validation happens before any filesystem effect
	var coverData []byte
	var coverExt string
	if input.Cover != nil {
		coverData, coverExt, err = service.readCover(input.Cover)
		if err != nil {
			return nil, err
		}
	}

	oldSegment := FolderSegment(id, current.Slug)
	newSegment := FolderSegment(id, effectiveSlug)
	oldFolder := FolderKey(id, current.Slug)
	newFolder := FolderKey(id, effectiveSlug)

	// ── Filesystem phase 1: folder rename ─────────────────────────────────
	renamed := false
	if slugChanged {
		present, err := service.assets.Exists(context, oldFolder)
		if err != nil {
			return nil, apperr.Storage(err)
		}

		// A missing old folder is a legal no-op; the comic may predate any
		// asset upload
		if present {
			if err := service.assets.MoveDir(context, oldFolder, newFolder); err != nil {
				return nil, apperr.Storage(err)
			}
			renamed = true
		}
	}

	// compensateRename undoes the folder move after a later failure
	compensateRename := func() {
		if !renamed {
			return
		}
		if err := service.assets.MoveDir(context, newFolder, oldFolder); err != nil {
			service.logger.ErrorContext(context, "comic_update_rename_compensation_failed",
				slog.Int64("comic_id", id),
				slog.String("from", newFolder),
				slog.String("to", oldFolder),
				slog.Any("error", err),
			)
		}
	}

	// ── Filesystem phase 2: stage the new cover ───────────────────────────
	var newCoverPath string // persisted into cover_image when non-empty
	var stagedKey string    // written file that a failure must remove
	var replacedKey string  // old file deleted only after a successful commit

	switch {
	case input.Cover != nil:
		newCoverPath = CoverKey(id, effectiveSlug, coverExt)

		if current.CoverImage != "" && current.CoverImage != constants.CoverPendingSentinel {
			// The existing cover already sits in the renamed folder
			existingAtCurrent := RewritePathSegment(current.CoverImage, oldSegment, newSegment)
			if existingAtCurrent != newCoverPath {
				stagedKey = newCoverPath
				replacedKey = existingAtCurrent
			}
		} else {
			stagedKey = newCoverPath
		}

		if err := service.assets.WriteFile(context, newCoverPath, bytes.NewReader(coverData)); err != nil {
			compensateRename()
			return nil, apperr.Storage(err)
		}

		// Same extension means the write replaced the old file in place;
		// that step has no compensation if the commit fails below
		if stagedKey == "" {
			service.logger.WarnContext(context, "comic_cover_overwritten_in_place",
				slog.Int64("comic_id", id),
				slog.String("path", newCoverPath),
			)
		}

	case slugChanged && current.CoverImage != "" && current.CoverImage != constants.CoverPendingSentinel:
		// The rename already relocated the file; only the persisted path
		// needs its folder segment swapped
		newCoverPath = RewritePathSegment(current.CoverImage, oldSegment, newSegment)
	}

	// ── Database phase: one transaction for scalars, genres, image paths ──
	update := &UpdateSet{
		ID:       id,
		Title:    input.Title,
		Author:   input.Author,
		Status:   input.Status,
		Type:     input.Type,
		Synopsis: input.Synopsis,
		GenreIDs: input.GenreIDs,
	}
	if slugChanged {
		update.Slug = &effectiveSlug
		update.OldSegment = oldSegment
		update.NewSegment = newSegment
	}
	if newCoverPath != "" {
		update.CoverImage = &newCoverPath
	}

	if err := service.repo.ApplyUpdate(context, update); err != nil {

		// Compensating actions, newest effect first
		if stagedKey != "" {
			if cleanupErr := service.assets.DeleteFile(context, stagedKey); cleanupErr != nil {
				service.logger.ErrorContext(context, "comic_update_staged_cover_cleanup_failed",
					slog.String("path", stagedKey),
					slog.Any("error", cleanupErr),
				)
			}
		}
		compensateRename()
		return nil, err
	}

	// ── Finalization: retire the replaced cover after the commit ──────────
	if replacedKey != "" {
		if err := service.assets.DeleteFile(context, replacedKey); err != nil {
			service.logger.WarnContext(context, "comic_replaced_cover_delete_failed",
				slog.Int64("comic_id", id),
				slog.String("path", replacedKey),
				slog.Any("error", err),
			)
		}
	}

	service.cache.Invalidate(context, cache.ComicKey(id))

	service.logger.InfoContext(context, "comic_updated",
		slog.Int64("comic_id", id),
		slog.String("slug", effectiveSlug),
		slog.Bool("slug_changed", slugChanged),
	)

	return service.repo.FindByID(context, id)
}

// # Comic Deletion

/*
Delete irreversibly removes a comic, its chapters, and its asset folder.

Description: Runs inside the comic's exclusive section. The comic is
located irrespective of soft-deletion state; if absent, NotFound is
returned with zero filesystem action. The chapter rows and the comic row
are hard-deleted in one transaction first, then the asset folder is
removed recursively. A post-commit folder failure cannot orphan database
rows, so it is logged as a partial failure for manual reconciliation
rather than failing the request.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound if absent, or persistence failures
*/
func (service *Service) Delete(context context.Context, id int64) error {

	// Per-comic exclusive section
	unlock := service.locks.Lock(id)
	defer unlock()

	// Deletion bypasses soft-delete, so the lookup must too
	comic, err := service.repo.FindAnyByID(context, id)
	if err != nil {
		return err
	}

	// Database rows go first: an orphaned folder is recoverable by a
	// sweep, orphaned rows pointing at deleted assets are user-visible
	if err := service.repo.HardDelete(context, id); err != nil {
		return err
	}

	// Recursive folder removal takes the cover and every chapter image
	// in one operation
	folder := FolderKey(id, comic.Slug)
	if err := service.assets.DeleteDir(context, folder); err != nil {
		partial := apperr.PartialFailure("Comic removed but asset folder could not be deleted", err)
		service.logger.ErrorContext(context, "comic_delete_folder_failed",
			slog.Int64("comic_id", id),
			slog.String("folder", folder),
			slog.Any("error", partial),
		)
	}

	service.cache.Invalidate(context, cache.ComicKey(id))

	service.logger.InfoContext(context, "comic_deleted",
		slog.Int64("comic_id", id),
		slog.String("slug", comic.Slug),
	)

	return nil
}

// # Chapter Metadata

/*
CreateChapter appends a chapter metadata row to a comic.

Description: The owning comic must exist and be visible. The chapter number
must be positive and unique within the comic; the slug is derived from the
title when absent. Page-image ingestion is external to this service.

Parameters:
  - context: context.Context
  - comicID: int64
  - input: ChapterInput

Returns:
  - *Chapter: The persisted chapter
  - error: Validation, not-found, or conflict errors
*/
func (service *Service) CreateChapter(context context.Context, comicID int64, input ChapterInput) (*Chapter, error) {

	// The owning comic must exist
	if _, err := service.repo.FindByID(context, comicID); err != nil {
		return nil, err
	}

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Custom(FieldChapterNumber, input.Number < 1, "Chapter number must be positive")
	validator.MaxLen(FieldChapterTitle, input.Title, 255)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Slug derivation (explicit pre-persist normalization)
	chapterSlug := input.Slug
	if chapterSlug != "" {
		chapterSlug = slug.From(chapterSlug)
	} else if input.Title != "" {
		chapterSlug = slug.From(input.Title)
	}

	chapter := &Chapter{
		ComicID: comicID,
		Number:  input.Number,
		Title:   input.Title,
		Slug:    chapterSlug,
	}

	if err := service.repo.CreateChapter(context, chapter); err != nil {
		return nil, err
	}

	// The cached comic payload embeds its chapters
	service.cache.Invalidate(context, cache.ComicKey(comicID))

	return chapter, nil
}

// # Internal Helpers

// dedupeGenreIDs drops repeated ids while preserving first-occurrence
// order. A nil input stays nil so "leave associations alone" survives.
func dedupeGenreIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}

	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

// coverPlacer builds the cover placement callback for the create
// transaction. The callback writes into createdFolder so the caller can
// compensate a mid-transaction failure.
func (service *Service) coverPlacer(coverData []byte, coverExt string, createdFolder *string) PlaceCoverFunc {
	return func(context context.Context, id int64, comicSlug string) (string, error) {
		*createdFolder = FolderKey(id, comicSlug)
		coverPath := CoverKey(id, comicSlug, coverExt)

		if err := service.assets.WriteFile(context, coverPath, bytes.NewReader(coverData)); err != nil {
			return "", apperr.Storage(err)
		}
		return coverPath, nil
	}
}

// readCover validates an uploaded cover and buffers its contents.
func (service *Service) readCover(upload *CoverUpload) ([]byte, string, error) {

	// Extension allow-list
	ext := ExtFromFilename(upload.Filename)
	if !AllowedCoverExt(ext) {
		return nil, "", validate.RequiredError(FieldCover, "Cover must be a jpeg, jpg, png, or webp image")
	}

	// Declared size fast-path before buffering anything
	if upload.Size > service.maxCoverBytes {
		return nil, "", validate.RequiredError(FieldCover, fmt.Sprintf("Cover exceeds the %d byte limit", service.maxCoverBytes))
	}

	// Bounded read; one extra byte exposes an understated declared size
	data, err := io.ReadAll(io.LimitReader(upload.Data, service.maxCoverBytes+1))
	if err != nil {
		return nil, "", validate.RequiredError(FieldCover, "Could not read the uploaded cover")
	}
	if int64(len(data)) > service.maxCoverBytes {
		return nil, "", validate.RequiredError(FieldCover, fmt.Sprintf("Cover exceeds the %d byte limit", service.maxCoverBytes))
	}

	// Content sniff guards against renamed non-image files
	if !SniffIsImage(data) {
		return nil, "", validate.RequiredError(FieldCover, "Uploaded file is not a valid image")
	}

	return data, ext, nil
}
