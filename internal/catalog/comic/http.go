// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
HTTP interface for discovery and management of the comic catalog.

It exposes endpoints for browsing comics and chapters, and for the admin
panel's lifecycle operations (multipart create/update with cover upload,
irreversible delete, chapter metadata creation).

# Routing Strategy

  - Public (v1): Discovery endpoints accessible to all visitors (GET).
  - Restricted (v1): Mutative endpoints requiring the admin role.

The handler translates between the web/multipart layer and the internal
domain [Service].
*/
package comic

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/panelku/panelku/internal/platform/apperr"
	"github.com/panelku/panelku/internal/platform/middleware"
	requestutil "github.com/panelku/panelku/internal/platform/request"
	"github.com/panelku/panelku/internal/platform/respond"
	"github.com/panelku/panelku/pkg/pagination"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger file parts spill to temporary files.
const maxMultipartMemory = 8 << 20

// # Handler Implementation

// Handler implements the HTTP layer for comic management and discovery.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comic [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the comic domain's endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): Accessible by all visitors for browsing.
//   - Management (Restricted): Requires the admin role for state-mutating
//     operations.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listComics)
	router.Get("/{id}", handler.getComic)
	router.Get("/{id}/chapters", handler.listChapters)

	// ## Content Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)

		admin.Post("/", handler.createComic)
		admin.Put("/{id}", handler.updateComic)
		admin.Patch("/{id}", handler.updateComic)
		admin.Delete("/{id}", handler.deleteComic)

		admin.Post("/{id}/chapters", handler.createChapter)
	})

	return router
}

// # Response Payloads

// mutationResponse is the envelope for lifecycle mutations: a human-readable
// confirmation plus the persisted aggregate.
type mutationResponse struct {
	Message string `json:"message"`
	Comic   *Comic `json:"comic,omitempty"`
}

// chapterResponse is the envelope for chapter creation.
type chapterResponse struct {
	Message string   `json:"message"`
	Chapter *Chapter `json:"chapter"`
}

// # Discovery Endpoints

/*
GET /api/v1/comics.

Description: Retrieves a filtered list of comics with genres and chapters
eager-loaded. Without a "limit" parameter the full result set is returned;
passing one opts into pagination.

Request:
  - search: string (Case-insensitive substring match on title)
  - status: string (ongoing, completed)
  - type: string (manga, manhwa, manhua)
  - genre: string (Genre slug)
  - page: int (Optional)
  - limit: int (Optional; enables pagination)

Response:
  - 200: []Comic (wrapped in {data} or {data, meta} when paginated)
*/
func (handler *Handler) listComics(writer http.ResponseWriter, request *http.Request) {
	// Pagination extraction using pkg/pagination
	paginationParams := pagination.FromRequest(request)

	// Query filter assembly
	queryParams := request.URL.Query()
	filter := Filter{
		Search:    queryParams.Get("search"),
		Status:    Status(queryParams.Get("status")),
		Type:      Type(queryParams.Get("type")),
		GenreSlug: queryParams.Get("genre"),
	}

	// Domain Logic Execution
	comics, total, err := handler.service.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	if paginationParams.Enabled() {
		respond.Paginated(writer, comics, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
		return
	}
	respond.OK(writer, comics)
}

/*
GET /api/v1/comics/{id}.

Description: Retrieves a single comic with its chapters and genres.

Request:
  - id: int64 (Path parameter)

Response:
  - 200: Comic: Success
  - 400: VALIDATION_ERROR: Non-numeric id
  - 404: NOT_FOUND: Comic not found
*/
func (handler *Handler) getComic(writer http.ResponseWriter, request *http.Request) {
	// Extract ID from URL
	comicID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	comic, err := handler.service.Get(request.Context(), comicID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, comic)
}

/*
GET /api/v1/comics/{id}/chapters.

Description: Retrieves a comic's chapter metadata ordered by number.

Response:
  - 200: []Chapter
  - 404: NOT_FOUND: Comic not found
*/
func (handler *Handler) listChapters(writer http.ResponseWriter, request *http.Request) {
	comicID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapters, err := handler.service.ListChapters(request.Context(), comicID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapters)
}

// # Lifecycle Endpoints

/*
POST /api/v1/comics.

Description: Creates a new comic from a multipart form. The cover file and
at least one genre id are mandatory.

Request (multipart/form-data):
  - title, slug, author, status, type, synopsis: string fields
  - genres: repeated or comma-separated genre ids
  - cover: file part (jpeg, jpg, png, webp)

Response:
  - 201: {message, comic}
  - 400: VALIDATION_ERROR: Invalid or missing fields
  - 409: CONFLICT: Slug already in use
*/
func (handler *Handler) createComic(writer http.ResponseWriter, request *http.Request) {

	// Multipart decoding
	if err := request.ParseMultipartForm(maxMultipartMemory); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid multipart payload"))
		return
	}

	genreIDs, err := parseGenreIDs(request.MultipartForm.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CreateInput{
		Title:    request.FormValue(FieldTitle),
		Slug:     request.FormValue(FieldSlug),
		Author:   request.FormValue(FieldAuthor),
		Status:   Status(request.FormValue(FieldStatus)),
		Type:     Type(request.FormValue(FieldType)),
		Synopsis: request.FormValue(FieldSynopsis),
		GenreIDs: genreIDs,
	}

	// Cover file part
	file, header, err := request.FormFile(FieldCover)
	if err == nil {
		defer file.Close()
		input.Cover = &CoverUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Data:     file,
		}
	}

	// Domain Logic Execution
	comic, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Created(writer, mutationResponse{Message: "Comic created successfully", Comic: comic})
}

/*
PUT/PATCH /api/v1/comics/{id}.

Description: Applies a partial update from a multipart form. Only fields
present in the form are modified; an explicit slug overrides the
title-derived one, and supplying "genres" synchronizes the associations to
exactly that set.

Response:
  - 200: {message, comic}
  - 400: VALIDATION_ERROR: Invalid fields
  - 404: NOT_FOUND: Comic not found
  - 409: CONFLICT: Slug already in use
*/
func (handler *Handler) updateComic(writer http.ResponseWriter, request *http.Request) {
	comicID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Multipart decoding
	if err := request.ParseMultipartForm(maxMultipartMemory); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid multipart payload"))
		return
	}

	// Presence-aware field mapping: absent form fields stay nil so the
	// service leaves them untouched
	formValues := request.MultipartForm.Value
	input := UpdateInput{
		Title:    formString(formValues, FieldTitle),
		Slug:     formString(formValues, FieldSlug),
		Author:   formString(formValues, FieldAuthor),
		Synopsis: formString(formValues, FieldSynopsis),
	}
	if raw := formString(formValues, FieldStatus); raw != nil {
		status := Status(*raw)
		input.Status = &status
	}
	if raw := formString(formValues, FieldType); raw != nil {
		comicType := Type(*raw)
		input.Type = &comicType
	}
	if hasGenreField(formValues) {
		genreIDs, err := parseGenreIDs(formValues)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.GenreIDs = genreIDs
	}

	// Optional replacement cover
	file, header, err := request.FormFile(FieldCover)
	if err == nil {
		defer file.Close()
		input.Cover = &CoverUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Data:     file,
		}
	}

	// Domain Logic Execution
	comic, err := handler.service.Update(request.Context(), comicID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.JSON(writer, http.StatusOK, mutationResponse{Message: "Comic updated successfully", Comic: comic})
}

/*
DELETE /api/v1/comics/{id}.

Description: Irreversibly removes the comic, its chapters, and its asset
folder. A missing id yields 404 with zero filesystem action.

Response:
  - 200: {message}
  - 404: NOT_FOUND: Comic not found
*/
func (handler *Handler) deleteComic(writer http.ResponseWriter, request *http.Request) {
	comicID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	if err := handler.service.Delete(request.Context(), comicID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.JSON(writer, http.StatusOK, mutationResponse{Message: "Comic deleted successfully"})
}

// # Chapter Endpoints

// createChapterRequest defines the inbound JSON schema for chapter creation.
type createChapterRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
}

/*
POST /api/v1/comics/{id}/chapters.

Description: Creates a chapter metadata row. The number must be unique
within the comic; the slug is derived from the title when absent.

Response:
  - 201: {message, chapter}
  - 404: NOT_FOUND: Comic not found
  - 409: CONFLICT: Chapter number already exists
*/
func (handler *Handler) createChapter(writer http.ResponseWriter, request *http.Request) {
	comicID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Strict JSON decoding
	var input createChapterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	chapter, err := handler.service.CreateChapter(request.Context(), comicID, ChapterInput{
		Number: input.Number,
		Title:  input.Title,
		Slug:   input.Slug,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Created(writer, chapterResponse{Message: "Chapter created successfully", Chapter: chapter})
}

// # Internal Helpers

// formString returns a pointer to the first value of a form field, or nil
// when the field is absent.
func formString(values map[string][]string, key string) *string {
	fieldValues, ok := values[key]
	if !ok || len(fieldValues) == 0 {
		return nil
	}
	return &fieldValues[0]
}

// hasGenreField reports whether the form carries a genre list at all,
// distinguishing "leave associations alone" from "sync to this set".
func hasGenreField(values map[string][]string) bool {
	_, plain := values[FieldGenreIDs]
	_, bracketed := values[FieldGenreIDs+"[]"]
	return plain || bracketed
}

// parseGenreIDs collects genre ids from repeated or comma-separated form
// values, accepting both "genres" and "genres[]" keys. A value that is not
// an integer fails the whole list rather than shrinking the sync set.
func parseGenreIDs(values map[string][]string) ([]int64, error) {
	raw := append([]string{}, values[FieldGenreIDs]...)
	raw = append(raw, values[FieldGenreIDs+"[]"]...)

	ids := []int64{}
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, apperr.ValidationError("Invalid genre list", apperr.FieldError{
					Field:   FieldGenreIDs,
					Message: fmt.Sprintf("%q is not a valid genre id", part),
				})
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
