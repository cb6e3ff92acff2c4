// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package genre

import "context"

// # Store Contract

// Repository defines the persistence operations for the genre registry.
type Repository interface {

	/*
		List returns every genre ordered by name ascending.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Genre: All genres, possibly empty
		  - error: Persistence failures
	*/
	List(context context.Context) ([]*Genre, error)

	/*
		FindByID returns a single genre.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Genre: The genre
		  - error: apperr.NotFound if no row matches
	*/
	FindByID(context context.Context, id int64) (*Genre, error)

	/*
		NameTaken reports whether another genre already uses the given name.
		The comparison is exact (case-sensitive). excludeID ignores the
		genre's own row during updates; pass 0 on create.

		Parameters:
		  - context: context.Context
		  - name: string
		  - excludeID: int64

		Returns:
		  - bool: true when the name is in use elsewhere
		  - error: Persistence failures
	*/
	NameTaken(context context.Context, name string, excludeID int64) (bool, error)

	/*
		MissingIDs returns the subset of ids with no matching genre row.
		An empty result means every id exists.

		Parameters:
		  - context: context.Context
		  - ids: []int64

		Returns:
		  - []int64: The ids that do not exist
		  - error: Persistence failures
	*/
	MissingIDs(context context.Context, ids []int64) ([]int64, error)

	/*
		Create inserts a new genre and populates its ID and timestamps.

		Parameters:
		  - context: context.Context
		  - genre: *Genre

		Returns:
		  - error: apperr.Conflict on a unique violation, or persistence failures
	*/
	Create(context context.Context, genre *Genre) error

	/*
		Update persists the genre's name and slug and refreshes UpdatedAt.

		Parameters:
		  - context: context.Context
		  - genre: *Genre

		Returns:
		  - error: apperr.NotFound if the row is gone, apperr.Conflict on a
		    unique violation, or persistence failures
	*/
	Update(context context.Context, genre *Genre) error

	/*
		Delete removes the genre row. Association rows in comic_genre are
		removed by the database cascade.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: apperr.NotFound if no row matched, or persistence failures
	*/
	Delete(context context.Context, id int64) error
}
