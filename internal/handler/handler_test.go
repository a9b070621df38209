package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/templui/corpsite/internal/db"
	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/markdown"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/service"
	"github.com/templui/corpsite/internal/storage"
	"github.com/templui/corpsite/internal/token"
	"github.com/templui/corpsite/internal/upload"
)

func parseJSON(t *testing.T, body string) *formdata.Form {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	form, err := formdata.Parse(r, 1<<20)
	require.NoError(t, err)
	t.Cleanup(func() { form.Close() })
	return form
}

func TestOptionalBinding(t *testing.T) {
	form := parseJSON(t, `{"title":" Audit ","title_fr":null,"sort_order":3,"featured":"on"}`)

	require.Equal(t, "Audit", *optString(form, "title"))
	require.Equal(t, "", *optString(form, "title_fr"))
	require.Nil(t, optString(form, "icon"))

	n, err := optInt(form, "sort_order")
	require.NoError(t, err)
	require.Equal(t, 3, *n)

	n, err = optInt(form, "missing")
	require.NoError(t, err)
	require.Nil(t, n)

	require.True(t, *optBool(form, "featured"))
	require.Nil(t, optBool(form, "missing"))
}

func TestOptInt_Garbage(t *testing.T) {
	form := parseJSON(t, `{"rating":"five"}`)
	_, err := optInt(form, "rating")
	require.Error(t, err)
	require.Contains(t, err.Error(), "rating must be an integer")
}

func TestUserInput(t *testing.T) {
	in := userInput(parseJSON(t, `{"name":"Eve","password":"  spaced out pw  ","role":"editor"}`))
	require.Equal(t, "Eve", *in.Name)
	require.Nil(t, in.Email)
	require.Equal(t, "  spaced out pw  ", *in.Password)
	require.Equal(t, token.RoleEditor, *in.Role)

	in = userInput(parseJSON(t, `{"password":"","role":""}`))
	require.Nil(t, in.Password)
	require.Nil(t, in.Role)
}

func newServiceHandler(t *testing.T) *ServiceHandler {
	t.Helper()
	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	st, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	media := service.NewMediaService(upload.NewPersister(st))
	catalog := service.NewCatalogService(repository.NewServiceRepository(database), media, markdown.NewParser())
	return NewServiceHandler(catalog, 1<<20)
}

func TestServiceHandler_CRUD(t *testing.T) {
	h := newServiceHandler(t)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/services", h.Create)
	mux.HandleFunc("GET /api/services/{id}", h.Get)
	mux.HandleFunc("PUT /api/services/{id}", h.Update)
	mux.HandleFunc("DELETE /api/services/{id}", h.Delete)

	send := func(method, path, body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			r.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, r)
		return rec
	}

	rec := send(http.MethodPost, "/api/services", `{"title":"Cloud","title_fr":"Nuage","sort_order":"2"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, float64(2), created["sort_order"])

	rec = send(http.MethodPut, "/api/services/1", `{"icon":"cloud"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Nuage", updated["title_fr"])
	require.Equal(t, "cloud", updated["icon"])

	rec = send(http.MethodPut, "/api/services/1", `{"sort_order":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(http.MethodPost, "/api/services", `{"title":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(http.MethodGet, "/api/services/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(http.MethodDelete, "/api/services/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"deleted":true}`, rec.Body.String())

	rec = send(http.MethodGet, "/api/services/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServiceHandler_UnsupportedContentType(t *testing.T) {
	h := newServiceHandler(t)
	r := httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader("<xml/>"))
	r.Header.Set("Content-Type", "application/xml")
	rec := httptest.NewRecorder()
	h.Create(rec, r)
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}
