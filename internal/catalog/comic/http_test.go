// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package comic_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panelku/panelku/internal/catalog/comic"
	"github.com/panelku/panelku/internal/platform/ctxkey"
	"github.com/panelku/panelku/internal/platform/sec"
)

// adminRequest injects admin claims the way the authentication middleware
// would, so handler tests can exercise guarded routes directly.
func adminRequest(request *http.Request) *http.Request {
	claims := &sec.AuthClaims{Subject: "admin", Role: sec.RoleAdmin}
	return request.WithContext(context.WithValue(request.Context(), ctxkey.KeyUser, claims))
}

/*
TestUpdateComic_RejectsNonNumericGenreIDs verifies that an unparsable genre
form value fails the request with a validation error instead of silently
degrading into an empty sync set.
*/
func TestUpdateComic_RejectsNonNumericGenreIDs(t *testing.T) {
	fixture := newLifecycleFixture(t)
	created := seedComic(t, fixture)
	handler := comic.NewHandler(fixture.service)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("genres", "abc"))
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/%d", created.ID), body)
	request.Header.Set("Content-Type", form.FormDataContentType())

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, adminRequest(request))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, recorder.Body.String(), "not a valid genre id")

	// The associations were never touched
	reloaded, err := fixture.service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Genres, 2)
}

/*
TestCreateComic_RejectsNonNumericGenreIDs verifies the same guard on the
create path, where a discarded value would manufacture a spurious
"at least one genre" failure.
*/
func TestCreateComic_RejectsNonNumericGenreIDs(t *testing.T) {
	fixture := newLifecycleFixture(t)
	handler := comic.NewHandler(fixture.service)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("title", "Naruto"))
	require.NoError(t, form.WriteField("genres", "1,abc"))
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", form.FormDataContentType())

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, adminRequest(request))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "not a valid genre id")
	assert.Empty(t, fixture.repo.comics)
}
