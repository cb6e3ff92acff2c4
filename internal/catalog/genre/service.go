// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package genre

import (
	"context"
	"log/slog"

	"github.com/panelku/panelku/internal/platform/apperr"
	"github.com/panelku/panelku/internal/platform/cache"
	"github.com/panelku/panelku/internal/platform/constants"
	"github.com/panelku/panelku/internal/platform/validate"
	"github.com/panelku/panelku/pkg/slug"
)

// # Service

// Service implements the registry's business rules on top of a [Repository].
type Service struct {
	repo   Repository
	cache  *cache.Cache
	logger *slog.Logger
}

// NewService constructs a genre [Service].
func NewService(repo Repository, catalogCache *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  catalogCache,
		logger: logger,
	}
}

// # Inputs

// CreateInput carries the fields for a new genre. Slug is optional and is
// derived from the name when empty.
type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// UpdateInput carries a partial genre modification. Nil fields are left
// untouched; setting Name without Slug re-derives the slug.
type UpdateInput struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// # Queries

/*
List returns every genre ordered by name ascending, served from the cache
when warm.

Parameters:
  - context: context.Context

Returns:
  - []*Genre: All genres
  - error: Persistence failures
*/
func (service *Service) List(context context.Context) ([]*Genre, error) {

	var cached []*Genre
	if service.cache.GetJSON(context, cache.GenreListKey, &cached) {
		return cached, nil
	}

	genres, err := service.repo.List(context)
	if err != nil {
		return nil, err
	}

	service.cache.SetJSON(context, cache.GenreListKey, genres, constants.CatalogCacheTTL)
	return genres, nil
}

/*
MissingIDs reports which of the given genre ids do not exist. It satisfies
the genre reference check the comic lifecycle performs before persisting
associations.

Parameters:
  - context: context.Context
  - ids: []int64

Returns:
  - []int64: The ids without a matching genre
  - error: Persistence failures
*/
func (service *Service) MissingIDs(context context.Context, ids []int64) ([]int64, error) {
	return service.repo.MissingIDs(context, ids)
}

// # Registry Mutations

/*
Create registers a new genre.

Description: The name must be non-empty, at most 50 characters, and unique
across the registry (exact comparison). The slug is normalized when
supplied and derived from the name otherwise. The cached genre list is
invalidated on success.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Genre: The persisted genre
  - error: Validation, conflict, or persistence errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Genre, error) {

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 50)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	effectiveSlug, err := service.resolveSlug(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}

	taken, err := service.repo.NameTaken(context, input.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Genre name already in use")
	}

	created := &Genre{Name: input.Name, Slug: effectiveSlug}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.cache.Invalidate(context, cache.GenreListKey)

	service.logger.InfoContext(context, "genre_created",
		slog.Int64("genre_id", created.ID),
		slog.String("name", created.Name),
	)
	return created, nil
}

/*
Update modifies an existing genre.

Description: Supplied fields replace the stored ones; a name change without
an explicit slug re-derives the slug from the new name. Name uniqueness is
re-checked excluding the genre's own row. The cached genre list is
invalidated on success.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateInput

Returns:
  - *Genre: The persisted genre
  - error: Validation, not-found, conflict, or persistence errors
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Genre, error) {

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		validator := &validate.Validator{}
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 50)
		if err := validator.Err(); err != nil {
			return nil, err
		}
		current.Name = *input.Name
	}

	// Explicit slug wins, a renamed genre re-derives otherwise
	switch {
	case input.Slug != nil:
		current.Slug, err = service.resolveSlug(current.Name, *input.Slug)
		if err != nil {
			return nil, err
		}
	case input.Name != nil:
		current.Slug = slug.From(current.Name)
	}

	taken, err := service.repo.NameTaken(context, current.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Genre name already in use")
	}

	if err := service.repo.Update(context, current); err != nil {
		return nil, err
	}

	service.cache.Invalidate(context, cache.GenreListKey)

	service.logger.InfoContext(context, "genre_updated",
		slog.Int64("genre_id", id),
		slog.String("name", current.Name),
	)
	return current, nil
}

/*
Delete removes a genre from the registry. Comic associations are dropped
by the database cascade; the comics themselves are unaffected.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound if absent, or persistence failures
*/
func (service *Service) Delete(context context.Context, id int64) error {

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.cache.Invalidate(context, cache.GenreListKey)

	service.logger.InfoContext(context, "genre_deleted", slog.Int64("genre_id", id))
	return nil
}

// resolveSlug normalizes an explicit slug or derives one from the name.
func (service *Service) resolveSlug(name, explicit string) (string, error) {
	source := explicit
	if source == "" {
		source = name
	}

	normalized := slug.From(source)
	if normalized == "" {
		return "", validate.RequiredError(FieldSlug, "Slug must contain at least one letter or digit")
	}
	return normalized, nil
}
