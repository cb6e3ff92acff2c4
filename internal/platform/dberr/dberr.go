// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/panelku/panelku/internal/platform/apperr"
)

// ErrNotFound is a standard error returned when a queried row doesn't exist.
var ErrNotFound = apperr.NotFound("Resource")

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Classification
//
//   - pgx.ErrNoRows            → NOT_FOUND
//   - SQLSTATE 23505 (unique)  → CONFLICT
//   - SQLSTATE 23503 (FK)      → VALIDATION_ERROR
//   - anything else            → INTERNAL_ERROR (cause retained for logging)
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		if resource != "" {
			return apperr.NotFound(resource)
		}
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced " + resource + " does not exist")
		}
	}

	return apperr.Internal(err)
}
