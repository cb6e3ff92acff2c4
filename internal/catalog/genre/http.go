// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
HTTP interface for the genre registry.

The list endpoint is public so the catalog UI can build filter menus; every
mutation requires the admin role.
*/
package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/panelku/panelku/internal/platform/middleware"
	requestutil "github.com/panelku/panelku/internal/platform/request"
	"github.com/panelku/panelku/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the genre registry.
type Handler struct {
	service *Service
}

// NewHandler constructs a new genre [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the registry's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listGenres)

	// ## Registry Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)

		admin.Post("/", handler.createGenre)
		admin.Put("/{id}", handler.updateGenre)
		admin.Patch("/{id}", handler.updateGenre)
		admin.Delete("/{id}", handler.deleteGenre)
	})

	return router
}

// # Response Payloads

// mutationResponse is the envelope for registry mutations.
type mutationResponse struct {
	Message string `json:"message"`
	Genre   *Genre `json:"genre,omitempty"`
}

// # Endpoints

/*
GET /api/v1/genres.

Description: Retrieves the full genre list ordered by name. The registry is
small, so the endpoint is unpaginated and served from the cache when warm.

Response:
  - 200: []Genre (wrapped in {data})
*/
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, genres)
}

/*
POST /api/v1/genres.

Description: Registers a new genre. The slug is derived from the name when
omitted.

Request:
  - name: string (Required, max 50 characters, unique)
  - slug: string (Optional, normalized)

Response:
  - 201: {message, genre}
  - 400: Validation error
  - 409: Name already in use
*/
func (handler *Handler) createGenre(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, mutationResponse{
		Message: "Genre created successfully",
		Genre:   created,
	})
}

/*
PUT/PATCH /api/v1/genres/{id}.

Description: Modifies a genre. Omitted fields are left untouched; renaming
without an explicit slug re-derives the slug from the new name.

Response:
  - 200: {message, genre}
  - 400: Validation error
  - 404: Unknown genre
  - 409: Name already in use
*/
func (handler *Handler) updateGenre(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, mutationResponse{
		Message: "Genre updated successfully",
		Genre:   updated,
	})
}

/*
DELETE /api/v1/genres/{id}.

Description: Removes a genre from the registry. Comics referencing it lose
the association but are otherwise unaffected.

Response:
  - 200: {message}
  - 404: Unknown genre
*/
func (handler *Handler) deleteGenre(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, mutationResponse{
		Message: "Genre deleted successfully",
	})
}
