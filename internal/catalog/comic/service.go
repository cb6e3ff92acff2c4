// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package comic

import (
	"context"
	"log/slog"

	"github.com/panelku/panelku/internal/platform/cache"
	"github.com/panelku/panelku/internal/platform/constants"
	"github.com/panelku/panelku/internal/platform/keylock"
	"github.com/panelku/panelku/internal/platform/storage"
)

// # Service Layer

// Service orchestrates the business logic for the comic catalog.
//
// It owns the multi-step lifecycle operations that span the relational
// store and the asset store, serializing them per comic id so two requests
// can never race on the same folder.
type Service struct {
	repo          Repository
	genres        GenreChecker
	assets        storage.Store
	cache         *cache.Cache
	logger        *slog.Logger
	locks         *keylock.KeyedMutex
	maxCoverBytes int64
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(repo Repository, genres GenreChecker, assets storage.Store, catalogCache *cache.Cache, logger *slog.Logger, maxCoverBytes int64) *Service {
	return &Service{
		repo:          repo,
		genres:        genres,
		assets:        assets,
		cache:         catalogCache,
		logger:        logger,
		locks:         keylock.New(),
		maxCoverBytes: maxCoverBytes,
	}
}

// # Catalog Queries

/*
List retrieves a filtered collection of comics with genres and chapters
eager-loaded.

Description: Filters combine with logical AND and are passed to the
repository for database-level evaluation. A limit of zero returns the full
result set (the base contract); callers opt into pagination by passing a
positive limit.

Parameters:
  - context: context.Context
  - filter: Filter (Search, status, type, genre slug)
  - limit: int (0 = unlimited)
  - offset: int

Returns:
  - []*Comic: Matching publications, newest-created first
  - int: Total count matching the filter
  - error: Repository failures
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Comic, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
Get fetches a single comic with its chapters and genres.

Description: Reads through the catalog cache first; a miss falls back to
the repository and repopulates the cache. Lifecycle writes invalidate the
key, so staleness is bounded by a single in-flight read.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Comic: The hydrated domain entity
  - error: apperr.NotFound if missing or soft-deleted
*/
func (service *Service) Get(context context.Context, id int64) (*Comic, error) {

	// Cache read-through
	cached := &Comic{}
	if service.cache.GetJSON(context, cache.ComicKey(id), cached) {
		return cached, nil
	}

	// Repository fallback
	comic, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	service.cache.SetJSON(context, cache.ComicKey(id), comic, constants.CatalogCacheTTL)
	return comic, nil
}

/*
ListChapters retrieves a comic's chapter metadata ordered by number.

Parameters:
  - context: context.Context
  - comicID: int64

Returns:
  - []*Chapter: Ordered chapter metadata
  - error: apperr.NotFound if the comic is missing or soft-deleted
*/
func (service *Service) ListChapters(context context.Context, comicID int64) ([]*Chapter, error) {

	// The comic must exist and be visible
	if _, err := service.repo.FindByID(context, comicID); err != nil {
		return nil, err
	}

	return service.repo.ListChapters(context, comicID)
}
