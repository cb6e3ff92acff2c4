// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
PostgreSQL implementation of the comic repository.

It leans on Postgres features to keep list hydration to a single round-trip:
  - JSON Aggregation: Sub-queries aggregate genres and chapters per comic.
  - Window Functions: COUNT(*) OVER() yields totals without a second query.
  - ACID Transactions: Create, ApplyUpdate, and HardDelete each run their
    multi-statement work inside one transaction.
  - Batching: Junction synchronization and chapter image path rewrites use
    pgx.Batch to bound network round-trips.

The cover placement callback runs inside the Create transaction so the row
insert and the asset path write commit or roll back together.
*/
package comic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/panelku/panelku/internal/platform/apperr"
	"github.com/panelku/panelku/internal/platform/database/schema"
	"github.com/panelku/panelku/internal/platform/dberr"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed comic store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// comicSelectColumns is the shared projection for hydrated comic reads:
// core columns, the window-function total, and the aggregated relations.
const comicSelectColumns = `
	c.id, c.title, c.slug, c.author, c.status, c.type, c.synopsis,
	c.cover_image, c.created_at, c.updated_at, c.deleted_at,
	COUNT(*) OVER() AS total_count,
	COALESCE((
		SELECT json_agg(json_build_object('id', g.id, 'name', g.name, 'slug', g.slug) ORDER BY g.name)
		FROM genres g
		JOIN comic_genre cg ON g.id = cg.genre_id
		WHERE cg.comic_id = c.id
	), '[]') AS genres,
	COALESCE((
		SELECT json_agg(json_build_object(
			'id', ch.id, 'comic_id', ch.comic_id, 'number', ch.number,
			'title', ch.title, 'slug', ch.slug,
			'created_at', ch.created_at, 'updated_at', ch.updated_at
		) ORDER BY ch.number)
		FROM chapters ch
		WHERE ch.comic_id = c.id
	), '[]') AS chapters`

// scanHydrated maps one row of the shared projection into a [Comic].
func scanHydrated(row pgx.Row) (*Comic, int, error) {
	comic := &Comic{}
	var totalCount int
	var genresJSON, chaptersJSON []byte

	err := row.Scan(
		&comic.ID,
		&comic.Title,
		&comic.Slug,
		&comic.Author,
		&comic.Status,
		&comic.Type,
		&comic.Synopsis,
		&comic.CoverImage,
		&comic.CreatedAt,
		&comic.UpdatedAt,
		&comic.DeletedAt,
		&totalCount,
		&genresJSON,
		&chaptersJSON,
	)
	if err != nil {
		return nil, 0, err
	}

	// Relations arrive as aggregated JSON in the same round-trip
	if err := json.Unmarshal(genresJSON, &comic.Genres); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to unmarshal genres: %w", err)
	}
	if err := json.Unmarshal(chaptersJSON, &comic.Chapters); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to unmarshal chapters: %w", err)
	}

	return comic, totalCount, nil
}

// # Catalog Reads

/*
List returns a filtered slice of comics with relations eager-loaded.

Description: Builds the WHERE clause dynamically from the independently
optional filters; all predicates combine with AND. Ordering is fixed at
newest-created first. A zero limit omits the LIMIT/OFFSET clause entirely,
preserving the full-result-set base contract.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int (0 = unlimited)
  - offset: int

Returns:
  - []*Comic: Matching publications
  - int: Total count matching the filter
  - error: Database execution errors
*/
func (repository *repository) List(context context.Context, filter Filter, limit, offset int) ([]*Comic, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString("SELECT " + comicSelectColumns + `
		FROM comics c
		WHERE c.deleted_at IS NULL
	`)

	// Case-insensitive substring title search
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.title ILIKE $%d", argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	// Exact status match
	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}

	// Exact type match
	if filter.Type != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.type = $%d", argID))
		args = append(args, filter.Type)
		argID++
	}

	// Genre membership by genre slug
	if filter.GenreSlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM comic_genre cg
			JOIN genres g ON g.id = cg.genre_id
			WHERE cg.comic_id = c.id AND g.slug = $%d
		)`, argID))
		args = append(args, filter.GenreSlug)
		argID++
	}

	// Newest-created first
	queryBuilder.WriteString(" ORDER BY c.created_at DESC, c.id DESC")

	// Pagination is opt-in; the base contract returns everything
	if limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, limit, offset)
	}

	// Query Execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list comics: %w", err)
	}
	defer rows.Close()

	comics := []*Comic{}
	var totalCount int

	for rows.Next() {
		comic, total, err := scanHydrated(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan comic: %w", err)
		}
		totalCount = total
		comics = append(comics, comic)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: comic rows iteration failed: %w", err)
	}

	return comics, totalCount, nil
}

/*
FindByID retrieves a non-deleted comic with genres and chapters loaded.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Comic: The fully hydrated comic entity
  - error: apperr.NotFound if the comic does not exist or is soft-deleted
*/
func (repository *repository) FindByID(context context.Context, id int64) (*Comic, error) {

	query := "SELECT " + comicSelectColumns + `
		FROM comics c
		WHERE c.id = $1 AND c.deleted_at IS NULL
	`

	comic, _, err := scanHydrated(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comic")
		}
		return nil, fmt.Errorf("postgres: failed to find comic by id: %w", err)
	}

	return comic, nil
}

/*
FindAnyByID retrieves a comic's core columns irrespective of soft-deletion.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Comic: Core columns only
  - error: apperr.NotFound if no row exists at all
*/
func (repository *repository) FindAnyByID(context context.Context, id int64) (*Comic, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.CatalogComic.ID, schema.CatalogComic.Title, schema.CatalogComic.Slug,
		schema.CatalogComic.Author, schema.CatalogComic.Status, schema.CatalogComic.Type,
		schema.CatalogComic.Synopsis, schema.CatalogComic.CoverImage,
		schema.CatalogComic.CreatedAt, schema.CatalogComic.UpdatedAt, schema.CatalogComic.DeletedAt,
		schema.CatalogComic.Table,
		schema.CatalogComic.ID,
	)

	comic := &Comic{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comic.ID,
		&comic.Title,
		&comic.Slug,
		&comic.Author,
		&comic.Status,
		&comic.Type,
		&comic.Synopsis,
		&comic.CoverImage,
		&comic.CreatedAt,
		&comic.UpdatedAt,
		&comic.DeletedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comic")
		}
		return nil, fmt.Errorf("postgres: failed to find comic by id: %w", err)
	}

	return comic, nil
}

/*
SlugTaken reports whether another non-deleted comic already uses the slug.

Parameters:
  - context: context.Context
  - slug: string
  - excludeID: int64 (0 for creates)

Returns:
  - bool: Collision among non-deleted comics
  - error: Database execution errors
*/
func (repository *repository) SlugTaken(context context.Context, slug string, excludeID int64) (bool, error) {

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND %s IS NULL AND %s <> $2
		)`,
		schema.CatalogComic.Table,
		schema.CatalogComic.Slug, schema.CatalogComic.DeletedAt, schema.CatalogComic.ID,
	)

	var taken bool
	if err := repository.pool.QueryRow(context, query, slug, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("postgres: failed to check slug: %w", err)
	}

	return taken, nil
}

// # Lifecycle Writes

/*
Create persists a new comic, its genre links, and its cover path in one
transaction.

Description: The row is inserted with the sentinel cover value and RETURNING
produces the generated id, which the placement callback needs to compute the
asset folder. Once the callback reports the stored path, the row is updated
to the real value and the transaction commits. Any error, including a
placement failure, rolls everything back; the caller compensates the
filesystem side.

Parameters:
  - context: context.Context
  - comic: *Comic
  - genreIDs: []int64
  - place: PlaceCoverFunc

Returns:
  - error: Constraint, placement, or execution failures
*/
func (repository *repository) Create(context context.Context, comic *Comic, genreIDs []int64, place PlaceCoverFunc) error {

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin create transaction: %w", err)
	}
	defer transaction.Rollback(context)

	// Row insert with the sentinel; the generated id comes back so the
	// asset folder name can embed it
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s, %s`,
		schema.CatalogComic.Table,
		schema.CatalogComic.Title, schema.CatalogComic.Slug, schema.CatalogComic.Author,
		schema.CatalogComic.Status, schema.CatalogComic.Type, schema.CatalogComic.Synopsis,
		schema.CatalogComic.CoverImage,
		schema.CatalogComic.ID, schema.CatalogComic.CreatedAt, schema.CatalogComic.UpdatedAt,
	)

	err = transaction.QueryRow(context, insertQuery,
		comic.Title,
		comic.Slug,
		comic.Author,
		comic.Status,
		comic.Type,
		comic.Synopsis,
		comic.CoverImage,
	).Scan(&comic.ID, &comic.CreatedAt, &comic.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "Comic")
	}

	// Genre association batch
	if err := syncGenres(context, transaction, comic.ID, genreIDs); err != nil {
		return err
	}

	// Asset placement; a failure here rolls the row back with us
	coverPath, err := place(context, comic.ID, comic.Slug)
	if err != nil {
		return err
	}

	// Replace the sentinel with the real storage path
	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.CatalogComic.Table, schema.CatalogComic.CoverImage, schema.CatalogComic.ID)

	if _, err := transaction.Exec(context, updateQuery, coverPath, comic.ID); err != nil {
		return fmt.Errorf("postgres: failed to set cover path: %w", err)
	}
	comic.CoverImage = coverPath

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit create transaction: %w", err)
	}

	return nil
}

/*
ApplyUpdate persists a resolved partial update in one transaction.

Description: Builds a PATCH-style dynamic SET clause from the non-nil
fields, then synchronizes genre links when supplied and rewrites the folder
segment of every chapter image path when the slug changed. The rewrite
operates on parsed path components in Go (never SQL substring replacement)
and batch-updates only the rows whose path actually changed.

Parameters:
  - context: context.Context
  - update: *UpdateSet

Returns:
  - error: apperr.NotFound if the row is missing or soft-deleted, otherwise
    constraint or execution failures
*/
func (repository *repository) ApplyUpdate(context context.Context, update *UpdateSet) error {

	// Dynamic SET clause from the non-nil fields
	var queryBuilder strings.Builder
	queryBuilder.WriteString("UPDATE comics SET updated_at = NOW()")

	var args []any
	argID := 1

	appendSet := func(column string, value any) {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if update.Title != nil {
		appendSet(schema.CatalogComic.Title, *update.Title)
	}
	if update.Slug != nil {
		appendSet(schema.CatalogComic.Slug, *update.Slug)
	}
	if update.Author != nil {
		appendSet(schema.CatalogComic.Author, *update.Author)
	}
	if update.Status != nil {
		appendSet(schema.CatalogComic.Status, *update.Status)
	}
	if update.Type != nil {
		appendSet(schema.CatalogComic.Type, *update.Type)
	}
	if update.Synopsis != nil {
		appendSet(schema.CatalogComic.Synopsis, *update.Synopsis)
	}
	if update.CoverImage != nil {
		appendSet(schema.CatalogComic.CoverImage, *update.CoverImage)
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE id = $%d AND deleted_at IS NULL", argID))
	args = append(args, update.ID)

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin update transaction: %w", err)
	}
	defer transaction.Rollback(context)

	response, err := transaction.Exec(context, queryBuilder.String(), args...)
	if err != nil {
		return dberr.Wrap(err, "Comic")
	}

	if response.RowsAffected() == 0 {
		return apperr.NotFound("Comic")
	}

	// Genre synchronization: nil leaves the set alone
	if update.GenreIDs != nil {
		if err := syncGenres(context, transaction, update.ID, update.GenreIDs); err != nil {
			return err
		}
	}

	// Chapter image path rewrite follows the folder rename
	if update.OldSegment != "" && update.OldSegment != update.NewSegment {
		if err := rewriteImagePaths(context, transaction, update.ID, update.OldSegment, update.NewSegment); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit update transaction: %w", err)
	}

	return nil
}

/*
HardDelete removes the comic's chapters and the comic row in one
transaction, bypassing soft-delete.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: Execution failures
*/
func (repository *repository) HardDelete(context context.Context, id int64) error {

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin delete transaction: %w", err)
	}
	defer transaction.Rollback(context)

	// Chapter rows first; their image rows follow via the FK cascade
	chapterQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogChapter.Table, schema.CatalogChapter.ComicID)
	if _, err := transaction.Exec(context, chapterQuery, id); err != nil {
		return fmt.Errorf("postgres: failed to delete chapters: %w", err)
	}

	// The comic row itself; comic_genre rows follow via cascade
	comicQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogComic.Table, schema.CatalogComic.ID)
	if _, err := transaction.Exec(context, comicQuery, id); err != nil {
		return fmt.Errorf("postgres: failed to delete comic: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit delete transaction: %w", err)
	}

	return nil
}

// # Chapter Metadata

/*
ListChapters returns all chapters of a comic ordered by number.

Parameters:
  - context: context.Context
  - comicID: int64

Returns:
  - []*Chapter: Ordered chapter metadata
  - error: Execution failures
*/
func (repository *repository) ListChapters(context context.Context, comicID int64) ([]*Chapter, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.CatalogChapter.ID, schema.CatalogChapter.ComicID, schema.CatalogChapter.Number,
		schema.CatalogChapter.Title, schema.CatalogChapter.Slug,
		schema.CatalogChapter.CreatedAt, schema.CatalogChapter.UpdatedAt,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.ComicID,
		schema.CatalogChapter.Number,
	)

	rows, err := repository.pool.Query(context, query, comicID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}
	defer rows.Close()

	chapters := []*Chapter{}
	for rows.Next() {
		chapter := &Chapter{}
		err := rows.Scan(
			&chapter.ID,
			&chapter.ComicID,
			&chapter.Number,
			&chapter.Title,
			&chapter.Slug,
			&chapter.CreatedAt,
			&chapter.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan chapter: %w", err)
		}
		chapters = append(chapters, chapter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: chapter rows iteration failed: %w", err)
	}

	return chapters, nil
}

/*
CreateChapter persists a new chapter metadata row.

Parameters:
  - context: context.Context
  - chapter: *Chapter

Returns:
  - error: apperr.Conflict when the number is already taken within the comic
*/
func (repository *repository) CreateChapter(context context.Context, chapter *Chapter) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s`,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.ComicID, schema.CatalogChapter.Number,
		schema.CatalogChapter.Title, schema.CatalogChapter.Slug,
		schema.CatalogChapter.ID, schema.CatalogChapter.CreatedAt, schema.CatalogChapter.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		chapter.ComicID,
		chapter.Number,
		chapter.Title,
		chapter.Slug,
	).Scan(&chapter.ID, &chapter.CreatedAt, &chapter.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "Chapter")
	}

	return nil
}

// # Internal Helpers

// syncGenres replaces the comic's genre links with exactly the given set
// using a clear-and-insert batch.
func syncGenres(context context.Context, transaction pgx.Tx, comicID int64, genreIDs []int64) error {

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogComicGenre.Table, schema.CatalogComicGenre.ComicID)
	if _, err := transaction.Exec(context, deleteQuery, comicID); err != nil {
		return fmt.Errorf("postgres: failed to clear genre links: %w", err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.CatalogComicGenre.Table,
		schema.CatalogComicGenre.ComicID, schema.CatalogComicGenre.GenreID)

	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insertQuery, comicID, genreID)
	}

	results := transaction.SendBatch(context, batch)
	defer results.Close()

	for range genreIDs {
		if _, err := results.Exec(); err != nil {
			return dberr.Wrap(err, "Genre")
		}
	}

	return nil
}

// rewriteImagePaths swaps the folder segment of every chapter image path
// belonging to the comic. The replacement happens in Go on parsed path
// components so only exact segment matches are touched.
func rewriteImagePaths(context context.Context, transaction pgx.Tx, comicID int64, oldSegment, newSegment string) error {

	selectQuery := fmt.Sprintf(`
		SELECT ci.%s, ci.%s
		FROM %s ci
		JOIN %s ch ON ch.%s = ci.%s
		WHERE ch.%s = $1`,
		schema.CatalogChapterImage.ID, schema.CatalogChapterImage.ImagePath,
		schema.CatalogChapterImage.Table,
		schema.CatalogChapter.Table, schema.CatalogChapter.ID, schema.CatalogChapterImage.ChapterID,
		schema.CatalogChapter.ComicID,
	)

	rows, err := transaction.Query(context, selectQuery, comicID)
	if err != nil {
		return fmt.Errorf("postgres: failed to load image paths: %w", err)
	}

	type pathUpdate struct {
		id   int64
		path string
	}
	var updates []pathUpdate

	for rows.Next() {
		var id int64
		var imagePath string
		if err := rows.Scan(&id, &imagePath); err != nil {
			rows.Close()
			return fmt.Errorf("postgres: failed to scan image path: %w", err)
		}

		rewritten := RewritePathSegment(imagePath, oldSegment, newSegment)
		if rewritten != imagePath {
			updates = append(updates, pathUpdate{id: id, path: rewritten})
		}
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres: image path rows iteration failed: %w", err)
	}

	if len(updates) == 0 {
		return nil
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.CatalogChapterImage.Table,
		schema.CatalogChapterImage.ImagePath, schema.CatalogChapterImage.ID)

	batch := &pgx.Batch{}
	for _, item := range updates {
		batch.Queue(updateQuery, item.path, item.id)
	}

	results := transaction.SendBatch(context, batch)
	defer results.Close()

	for range updates {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: failed to rewrite image path: %w", err)
		}
	}

	return nil
}
