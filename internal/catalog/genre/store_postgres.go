// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package genre

import (
	"context"
	"fmt"

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

// NewRepository constructs a PostgreSQL backed genre store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List returns every genre ordered by name ascending.
func (repository *repository) List(context context.Context) ([]*Genre, error) {
	query := fmt.Sprintf(
		`SELECT %s, %s, %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.Slug,
		schema.CatalogGenre.CreatedAt,
		schema.CatalogGenre.UpdatedAt,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.Name,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}
	defer rows.Close()

	genres := []*Genre{}
	for rows.Next() {
		genre := &Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt, &genre.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "Genre")
		}
		genres = append(genres, genre)
	}
	return genres, rows.Err()
}

// FindByID returns a single genre or apperr.NotFound.
func (repository *repository) FindByID(context context.Context, id int64) (*Genre, error) {
	query := fmt.Sprintf(
		`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.Slug,
		schema.CatalogGenre.CreatedAt,
		schema.CatalogGenre.UpdatedAt,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.ID,
	)

	genre := &Genre{}
	err := repository.pool.QueryRow(context, query, id).
		Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt, &genre.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}
	return genre, nil
}

// NameTaken reports whether another row uses the exact name.
func (repository *repository) NameTaken(context context.Context, name string, excludeID int64) (bool, error) {
	query := fmt.Sprintf(
		`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.ID,
	)

	var taken bool
	if err := repository.pool.QueryRow(context, query, name, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "Genre")
	}
	return taken, nil
}

// MissingIDs returns the subset of ids with no matching genre row.
func (repository *repository) MissingIDs(context context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(
		`SELECT candidate.id
		 FROM unnest($1::bigint[]) AS candidate(id)
		 LEFT JOIN %s g ON g.%s = candidate.id
		 WHERE g.%s IS NULL`,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.ID,
	)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}
	defer rows.Close()

	var missing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "Genre")
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

// # Registry Writes

// Create inserts a new genre and populates its ID and timestamps.
func (repository *repository) Create(context context.Context, genre *Genre) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s, %s`,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.Slug,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.CreatedAt,
		schema.CatalogGenre.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, genre.Name, genre.Slug).
		Scan(&genre.ID, &genre.CreatedAt, &genre.UpdatedAt)
	return dberr.Wrap(err, "Genre")
}

// Update persists name and slug and refreshes updated_at.
func (repository *repository) Update(context context.Context, genre *Genre) error {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = $1, %s = $2, %s = NOW() WHERE %s = $3 RETURNING %s`,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.Name,
		schema.CatalogGenre.Slug,
		schema.CatalogGenre.UpdatedAt,
		schema.CatalogGenre.ID,
		schema.CatalogGenre.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, genre.Name, genre.Slug, genre.ID).
		Scan(&genre.UpdatedAt)
	return dberr.Wrap(err, "Genre")
}

// Delete removes the genre row; comic_genre rows follow via cascade.
func (repository *repository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogGenre.Table,
		schema.CatalogGenre.ID,
	)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Genre")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}
	return nil
}
