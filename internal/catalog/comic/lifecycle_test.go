// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package comic_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panelku/panelku/internal/catalog/comic"
	"github.com/panelku/panelku/internal/platform/apperr"
	"github.com/panelku/panelku/internal/platform/cache"
	"github.com/panelku/panelku/internal/platform/storage"
)

// # Test Doubles

// fakeRepository is an in-memory [comic.Repository] that mirrors the
// transactional semantics of the Postgres store: Create invokes the
// placement callback between the row insert and the commit, ApplyUpdate
// applies everything or nothing, and forced failures leave prior state
// untouched.
type fakeRepository struct {
	nextID   int64
	comics   map[int64]*comic.Comic
	chapters map[int64][]*comic.Chapter
	images   map[int64][]*comic.ChapterImage // keyed by comic id

	failCreateCommit bool
	failApplyUpdate  bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		nextID:   15, // matches the canonical create example
		comics:   map[int64]*comic.Comic{},
		chapters: map[int64][]*comic.Chapter{},
		images:   map[int64][]*comic.ChapterImage{},
	}
}

func (repo *fakeRepository) List(_ context.Context, filter comic.Filter, limit, offset int) ([]*comic.Comic, int, error) {
	var matched []*comic.Comic
	for _, candidate := range repo.comics {
		if candidate.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && candidate.Status != filter.Status {
			continue
		}
		if filter.Type != "" && candidate.Type != filter.Type {
			continue
		}
		matched = append(matched, candidate)
	}

	// Newest-created first
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if limit > 0 {
		if offset >= len(matched) {
			matched = nil
		} else {
			end := offset + limit
			if end > len(matched) {
				end = len(matched)
			}
			matched = matched[offset:end]
		}
	}
	return matched, total, nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id int64) (*comic.Comic, error) {
	found, ok := repo.comics[id]
	if !ok || found.DeletedAt != nil {
		return nil, apperr.NotFound("Comic")
	}
	clone := *found
	return &clone, nil
}

func (repo *fakeRepository) FindAnyByID(_ context.Context, id int64) (*comic.Comic, error) {
	found, ok := repo.comics[id]
	if !ok {
		return nil, apperr.NotFound("Comic")
	}
	clone := *found
	return &clone, nil
}

func (repo *fakeRepository) SlugTaken(_ context.Context, slug string, excludeID int64) (bool, error) {
	for _, candidate := range repo.comics {
		if candidate.DeletedAt == nil && candidate.Slug == slug && candidate.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *fakeRepository) Create(ctx context.Context, entity *comic.Comic, genreIDs []int64, place comic.PlaceCoverFunc) error {
	entity.ID = repo.nextID
	repo.nextID++
	entity.CreatedAt = time.Unix(entity.ID, 0)
	entity.UpdatedAt = entity.CreatedAt

	coverPath, err := place(ctx, entity.ID, entity.Slug)
	if err != nil {
		return err
	}

	if repo.failCreateCommit {
		return apperr.Internal(errors.New("forced commit failure"))
	}

	entity.CoverImage = coverPath
	stored := *entity
	for _, genreID := range genreIDs {
		stored.Genres = append(stored.Genres, comic.Genre{ID: genreID, Name: fmt.Sprintf("genre-%d", genreID)})
	}
	repo.comics[entity.ID] = &stored
	return nil
}

func (repo *fakeRepository) ApplyUpdate(_ context.Context, update *comic.UpdateSet) error {
	if repo.failApplyUpdate {
		return apperr.Internal(errors.New("forced update failure"))
	}

	found, ok := repo.comics[update.ID]
	if !ok || found.DeletedAt != nil {
		return apperr.NotFound("Comic")
	}

	if update.Title != nil {
		found.Title = *update.Title
	}
	if update.Slug != nil {
		found.Slug = *update.Slug
	}
	if update.Author != nil {
		found.Author = *update.Author
	}
	if update.Status != nil {
		found.Status = *update.Status
	}
	if update.Type != nil {
		found.Type = *update.Type
	}
	if update.Synopsis != nil {
		found.Synopsis = *update.Synopsis
	}
	if update.CoverImage != nil {
		found.CoverImage = *update.CoverImage
	}
	if update.GenreIDs != nil {
		found.Genres = nil
		for _, genreID := range update.GenreIDs {
			found.Genres = append(found.Genres, comic.Genre{ID: genreID, Name: fmt.Sprintf("genre-%d", genreID)})
		}
	}
	found.UpdatedAt = found.UpdatedAt.Add(time.Second)

	if update.OldSegment != "" {
		for _, image := range repo.images[update.ID] {
			image.ImagePath = comic.RewritePathSegment(image.ImagePath, update.OldSegment, update.NewSegment)
		}
	}
	return nil
}

func (repo *fakeRepository) HardDelete(_ context.Context, id int64) error {
	delete(repo.comics, id)
	delete(repo.chapters, id)
	delete(repo.images, id)
	return nil
}

func (repo *fakeRepository) ListChapters(_ context.Context, comicID int64) ([]*comic.Chapter, error) {
	return repo.chapters[comicID], nil
}

func (repo *fakeRepository) CreateChapter(_ context.Context, chapter *comic.Chapter) error {
	for _, existing := range repo.chapters[chapter.ComicID] {
		if existing.Number == chapter.Number {
			return apperr.Conflict("Chapter already exists")
		}
	}
	chapter.ID = repo.nextID
	repo.nextID++
	repo.chapters[chapter.ComicID] = append(repo.chapters[chapter.ComicID], chapter)
	return nil
}

// fakeGenres is an in-memory [comic.GenreChecker].
type fakeGenres struct {
	known map[int64]bool
}

func (genres *fakeGenres) MissingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if !genres.known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// # Test Harness

type lifecycleFixture struct {
	service *comic.Service
	repo    *fakeRepository
	assets  storage.Store
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	disk, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)

	repo := newFakeRepository()
	genres := &fakeGenres{known: map[int64]bool{1: true, 2: true, 3: true}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := comic.NewService(repo, genres, disk, cache.New(nil, logger), logger, 5*1024*1024)
	return &lifecycleFixture{service: service, repo: repo, assets: disk}
}

// jpegUpload builds a minimal but sniffable JPEG cover upload.
func jpegUpload(filename string) *comic.CoverUpload {
	payload := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x00}, 64)...)
	return &comic.CoverUpload{
		Filename: filename,
		Size:     int64(len(payload)),
		Data:     bytes.NewReader(payload),
	}
}

func validCreateInput(title, slug string) comic.CreateInput {
	return comic.CreateInput{
		Title:    title,
		Slug:     slug,
		Author:   "Kishimoto",
		Status:   comic.StatusOngoing,
		Type:     comic.TypeManga,
		Synopsis: "A ninja story",
		GenreIDs: []int64{1, 2},
		Cover:    jpegUpload("shonen.jpg"),
	}
}

func (fixture *lifecycleFixture) exists(t *testing.T, key string) bool {
	t.Helper()
	present, err := fixture.assets.Exists(context.Background(), key)
	require.NoError(t, err)
	return present
}

// # Creation

/*
TestCreate_CoverPathMatchesFolderConvention verifies the canonical example:
id 15 with slug "naruto" and an uploaded "shonen.jpg" yields
comics/15-naruto/cover.jpg, with both genres loaded.
*/
func TestCreate_CoverPathMatchesFolderConvention(t *testing.T) {
	fixture := newLifecycleFixture(t)

	created, err := fixture.service.Create(context.Background(), validCreateInput("Naruto", "naruto"))
	require.NoError(t, err)

	assert.Equal(t, int64(15), created.ID)
	assert.Equal(t, "comics/15-naruto/cover.jpg", created.CoverImage)
	assert.True(t, fixture.exists(t, "comics/15-naruto/cover.jpg"))

	// Both genres present, order irrelevant
	genreIDs := []int64{created.Genres[0].ID, created.Genres[1].ID}
	assert.ElementsMatch(t, []int64{1, 2}, genreIDs)
}

/*
TestCreate_DuplicateSlugConflict verifies that a second comic with the same
slug fails with a conflict and leaves no partial folder behind.
*/
func TestCreate_DuplicateSlugConflict(t *testing.T) {
	fixture := newLifecycleFixture(t)

	_, err := fixture.service.Create(context.Background(), validCreateInput("Naruto", "naruto"))
	require.NoError(t, err)

	_, err = fixture.service.Create(context.Background(), validCreateInput("Naruto Clone", "naruto"))
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// The losing create must not leave a folder for the id it would have taken
	assert.False(t, fixture.exists(t, "comics/16-naruto"))
}

/*
TestCreate_CommitFailureDeletesFolder verifies the compensating action: a
database failure after the asset write removes the partially-created folder.
*/
func TestCreate_CommitFailureDeletesFolder(t *testing.T) {
	fixture := newLifecycleFixture(t)
	fixture.repo.failCreateCommit = true

	_, err := fixture.service.Create(context.Background(), validCreateInput("Naruto", "naruto"))
	require.Error(t, err)

	assert.False(t, fixture.exists(t, "comics/15-naruto"))
}

/*
TestGenreIDsDeduplicated verifies that repeated genre ids collapse to a
single association on both create and update instead of tripping the
junction table's primary key.
*/
func TestGenreIDsDeduplicated(t *testing.T) {
	fixture := newLifecycleFixture(t)

	input := validCreateInput("Naruto", "naruto")
	input.GenreIDs = []int64{1, 1, 2, 2, 1}

	created, err := fixture.service.Create(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, created.Genres, 2)
	assert.ElementsMatch(t, []int64{1, 2}, []int64{created.Genres[0].ID, created.Genres[1].ID})

	updated, err := fixture.service.Update(context.Background(), created.ID, comic.UpdateInput{
		GenreIDs: []int64{3, 3, 2},
	})
	require.NoError(t, err)
	require.Len(t, updated.Genres, 2)
	assert.ElementsMatch(t, []int64{2, 3}, []int64{updated.Genres[0].ID, updated.Genres[1].ID})
}

/*
TestCreate_RejectsInvalidInput covers the validation gate: bad enums, bad
cover extensions, unknown genres, and non-image payloads never reach the
repository or the filesystem.
*/
func TestCreate_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(input *comic.CreateInput)
	}{
		{
			name:   "missing title",
			mutate: func(input *comic.CreateInput) { input.Title = "" },
		},
		{
			name:   "invalid status",
			mutate: func(input *comic.CreateInput) { input.Status = "paused" },
		},
		{
			name:   "invalid type",
			mutate: func(input *comic.CreateInput) { input.Type = "webnovel" },
		},
		{
			name:   "empty genre list",
			mutate: func(input *comic.CreateInput) { input.GenreIDs = nil },
		},
		{
			name:   "unknown genre id",
			mutate: func(input *comic.CreateInput) { input.GenreIDs = []int64{1, 99} },
		},
		{
			name:   "missing cover",
			mutate: func(input *comic.CreateInput) { input.Cover = nil },
		},
		{
			name:   "disallowed extension",
			mutate: func(input *comic.CreateInput) { input.Cover = jpegUpload("cover.gif") },
		},
		{
			name: "payload is not an image",
			mutate: func(input *comic.CreateInput) {
				payload := []byte("#!/bin/sh\necho not an image")
				input.Cover = &comic.CoverUpload{
					Filename: "cover.jpg",
					Size:     int64(len(payload)),
					Data:     bytes.NewReader(payload),
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fixture := newLifecycleFixture(t)

			input := validCreateInput("Naruto", "naruto")
			test.mutate(&input)

			_, err := fixture.service.Create(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			assert.Empty(t, fixture.repo.comics)
		})
	}
}

// # Update

func seedComic(t *testing.T, fixture *lifecycleFixture) *comic.Comic {
	t.Helper()
	created, err := fixture.service.Create(context.Background(), validCreateInput("Naruto", "naruto"))
	require.NoError(t, err)
	return created
}

func stringPtr(s string) *string { return &s }

/*
TestUpdate_TitleDerivesSlug verifies that a title-only update derives the
new slug via the slugify transform.
*/
func TestUpdate_TitleDerivesSlug(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)

	updated, err := fixture.service.Update(context.Background(), created.ID, comic.UpdateInput{
		Title: stringPtr("Boruto: Next Generations"),
	})
	require.NoError(t, err)

	assert.Equal(t, "boruto-next-generations", updated.Slug)
	assert.True(t, fixture.exists(t, "comics/15-boruto-next-generations"))
	assert.False(t, fixture.exists(t, "comics/15-naruto"))
}

/*
TestUpdate_UnusableTitleIsRejected verifies that a title which slugifies to
nothing fails validation instead of persisting an empty slug and corrupting
the folder key.
*/
func TestUpdate_UnusableTitleIsRejected(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)

	_, err := fixture.service.Update(context.Background(), created.ID, comic.UpdateInput{
		Title: stringPtr("!!!"),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Row and folder are untouched
	reloaded, err := fixture.service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "naruto", reloaded.Slug)
	assert.True(t, fixture.exists(t, "comics/15-naruto"))
	assert.False(t, fixture.exists(t, "comics/15-"))
}

/*
TestUpdate_ExplicitSlugOverridesTitle verifies that an explicit slug wins
over the title-derived one and is itself normalized.
*/
func TestUpdate_ExplicitSlugOverridesTitle(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)

	updated, err := fixture.service.Update(context.Background(), created.ID, comic.UpdateInput{
		Title: stringPtr("Boruto"),
		Slug:  stringPtr("Custom Slug!"),
	})
	require.NoError(t, err)

	assert.Equal(t, "custom-slug", updated.Slug)
}

/*
TestUpdate_SlugChangeMovesFolderAndRewritesPaths verifies the rename
cascade: the folder moves, the persisted cover path follows, and every
chapter image path carries the new segment and not the old one.
*/
func TestUpdate_SlugChangeMovesFolderAndRewritesPaths(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)

	// Seed chapter image rows under the old folder
	fixture.repo.images[created.ID] = []*comic.ChapterImage{
		{ID: 1, ChapterID: 100, PageNumber: 1, ImagePath: "comics/15-naruto/chapter-1/01.jpg"},
		{ID: 2, ChapterID: 100, PageNumber: 2, ImagePath: "comics/15-naruto/chapter-1/02.jpg"},
	}

	updated, err := fixture.service.Update(context.Background(), created.ID, comic.UpdateInput{
		Slug: stringPtr("naruto-renamed"),
	})
	require.NoError(t, err)

	// Folder moved
	assert.False(t, fixture.exists(t, "comics/15-naruto"))
	assert.True(t, fixture.exists(t, "comics/15-naruto-renamed"))

	// Cover path rewritten without a new upload, file relocated by the move
	assert.Equal(t, "comics/15-naruto-renamed/cover.jpg", updated.CoverImage)
	assert.True(t, fixture.exists(t, "comics/15-naruto-renamed/cover.jpg"))

	// Every chapter image path carries the new segment only
	for _, image := range fixture.repo.images[created.ID] {
		assert.Contains(t, image.ImagePath, "15-naruto-renamed")
		assert.NotContains(t, image.ImagePath, "/15-naruto/")
	}
}

/*
TestUpdate_DuplicateSlugConflict verifies uniqueness is re-checked when the
slug changes, excluding the comic's own row.
*/
func TestUpdate_DuplicateSlugConflict(t *testing.T) {
	fixture := newLifecycleFixture(t)
	first := seedComic(t, fixture)

	_, err := fixture.service.Create(context.Background(), validCreateInput("Bleach", "bleach"))
	require.NoError(t, err)

	// Colliding with another comic fails
	_, err = fixture.service.Update(context.Background(), first.ID, comic.UpdateInput{
		Slug: stringPtr("bleach"),
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// Re-submitting the comic's own slug is not a collision
	_, err = fixture.service.Update(context.Background(), first.ID, comic.UpdateInput{
		Slug: stringPtr("naruto"),
	})
	assert.NoError(t, err)
}

/*
TestUpdate_NewCoverReplacesOld verifies that a new cover with a different
extension lands in the current folder and the replaced file is removed
after the commit.
*/
func TestUpdate_NewCoverReplacesOld(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)

	pngPayload := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x00}, 64)...)
	updated, err := fixture.service.Update(context.Background(), created.ID, comic.UpdateInput{
		Cover: &comic.CoverUpload{
			Filename: "new-cover.png",
			Size:     int64(len(pngPayload)),
			Data:     bytes.NewReader(pngPayload),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "comics/15-naruto/cover.png", updated.CoverImage)
	assert.True(t, fixture.exists(t, "comics/15-naruto/cover.png"))
	assert.False(t, fixture.exists(t, "comics/15-naruto/cover.jpg"))
}

/*
TestUpdate_DatabaseFailureRestoresFolder verifies the compensation path: a
failed transaction renames the folder back so filesystem and database stay
consistent.
*/
func TestUpdate_DatabaseFailureRestoresFolder(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)
	fixture.repo.failApplyUpdate = true

	_, err := fixture.service.Update(context.Background(), created.ID, comic.UpdateInput{
		Slug: stringPtr("naruto-renamed"),
	})
	require.Error(t, err)

	assert.True(t, fixture.exists(t, "comics/15-naruto"))
	assert.False(t, fixture.exists(t, "comics/15-naruto-renamed"))
}

/*
TestUpdate_NotFound verifies a missing id fails before any filesystem work.
*/
func TestUpdate_NotFound(t *testing.T) {
	fixture := newLifecycleFixture(t)

	_, err := fixture.service.Update(context.Background(), 404, comic.UpdateInput{
		Title: stringPtr("Ghost"),
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Deletion

/*
TestDelete_RemovesFolderAndRows verifies the full cascade: chapters, the
comic row, and the nested asset folder are all gone afterwards.
*/
func TestDelete_RemovesFolderAndRows(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)

	// Chapters plus nested image files under the folder
	_, err := fixture.service.CreateChapter(context.Background(), created.ID, comic.ChapterInput{Number: 1, Title: "Enter Naruto"})
	require.NoError(t, err)
	require.NoError(t, fixture.assets.WriteFile(context.Background(), "comics/15-naruto/chapter-1/01.jpg", bytes.NewReader([]byte{0xFF})))

	require.NoError(t, fixture.service.Delete(context.Background(), created.ID))

	assert.False(t, fixture.exists(t, "comics/15-naruto"))
	assert.Empty(t, fixture.repo.comics)
	assert.Empty(t, fixture.repo.chapters[created.ID])
}

/*
TestDelete_MissingIDPerformsNoFilesystemAction verifies NotFound deletes
touch nothing on disk.
*/
func TestDelete_MissingIDPerformsNoFilesystemAction(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)

	err := fixture.service.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// The unrelated comic's folder is untouched
	assert.True(t, fixture.exists(t, comic.FolderKey(created.ID, created.Slug)))
}

// # Catalog Queries

/*
TestList_FiltersCombineWithAnd verifies status and type predicates combine
and results come back newest-created first.
*/
func TestList_FiltersCombineWithAnd(t *testing.T) {
	fixture := newLifecycleFixture(t)

	seed := func(title, slug string, status comic.Status, comicType comic.Type) {
		input := validCreateInput(title, slug)
		input.Status = status
		input.Type = comicType
		_, err := fixture.service.Create(context.Background(), input)
		require.NoError(t, err)
	}

	seed("Naruto", "naruto", comic.StatusCompleted, comic.TypeManga)
	seed("Solo Leveling", "solo-leveling", comic.StatusCompleted, comic.TypeManhwa)
	seed("One Piece", "one-piece", comic.StatusOngoing, comic.TypeManga)
	seed("Monster", "monster", comic.StatusCompleted, comic.TypeManga)

	results, total, err := fixture.service.List(context.Background(), comic.Filter{
		Status: comic.StatusCompleted,
		Type:   comic.TypeManga,
	}, 0, 0)
	require.NoError(t, err)

	require.Equal(t, 2, total)
	require.Len(t, results, 2)

	// Newest-created first: Monster was seeded after Naruto
	assert.Equal(t, "monster", results[0].Slug)
	assert.Equal(t, "naruto", results[1].Slug)
}

// # Chapter Metadata

/*
TestCreateChapter_DerivesSlugAndRejectsDuplicates verifies slug derivation
from the title and uniqueness of the number within a comic.
*/
func TestCreateChapter_DerivesSlugAndRejectsDuplicates(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)

	chapter, err := fixture.service.CreateChapter(context.Background(), created.ID, comic.ChapterInput{
		Number: 1,
		Title:  "Enter Naruto!",
	})
	require.NoError(t, err)
	assert.Equal(t, "enter-naruto", chapter.Slug)

	_, err = fixture.service.CreateChapter(context.Background(), created.ID, comic.ChapterInput{
		Number: 1,
		Title:  "Duplicate",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = fixture.service.CreateChapter(context.Background(), created.ID, comic.ChapterInput{Number: 0})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
