package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newAuthorAPIForTest(authors *MockAuthorStorage) *APIHandler {
	as := NewAuthorService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), authors, &MockQueuer{})
	return NewAPIHandler(zap.NewNop(), NewTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("fixed", true), nil, nil, nil, as, nil, nil)
}

// TestCreateAuthorHandler ensures author creation redirects to the new
// author detail view and invalid payloads are rejected with the field.
func TestCreateAuthorHandler(t *testing.T) {
	var stored *Author
	authors := &MockAuthorStorage{
		AddFunc: func(ctx context.Context, id string, author Author) error {
			stored = &author
			return nil
		},
	}
	api := newAuthorAPIForTest(authors)

	t.Run("should pass: valid payload", func(t *testing.T) {
		payload := []byte(`{"firstName":"Ursula","lastName":"Le Guin","dateOfBirth":"1929-10-21","dateOfDeath":"2018-01-22"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/authors", bytes.NewBuffer(payload))
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.CreateAuthor(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/v1/authors/a:fixed", res.Header.Get("Location"))
		assert.NotNil(t, stored)
		assert.Equal(t, "Ursula", stored.FirstName)
		assert.NotEmpty(t, stored.CreatedAt)
	})

	t.Run("should fail: missing last name", func(t *testing.T) {
		payload := []byte(`{"firstName":"Ursula"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/authors", bytes.NewBuffer(payload))
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.CreateAuthor(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		assert.NoError(t, json.Unmarshal(data, &resultMap))
		assert.Equal(t, "lastName is required", resultMap["message"])
	})

	t.Run("should fail: junk birth date", func(t *testing.T) {
		payload := []byte(`{"firstName":"Ursula","lastName":"Le Guin","dateOfBirth":"21/10/1929"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/authors", bytes.NewBuffer(payload))
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.CreateAuthor(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should fail: missing permission", func(t *testing.T) {
		payload := []byte(`{"firstName":"Ursula","lastName":"Le Guin"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/authors", bytes.NewBuffer(payload))
		req = withSession(req, readerSession())
		w := httptest.NewRecorder()
		api.CreateAuthor(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})
}

// TestDeleteAuthorHandler ensures referenced authors are kept with 409
// and accepted deletions redirect to the authors list.
func TestDeleteAuthorHandler(t *testing.T) {
	authorID := "a:11111111-0000-0000-0000-000000000000"
	params := httprouter.Params{httprouter.Param{Key: "id", Value: authorID}}

	t.Run("should pass: unreferenced author", func(t *testing.T) {
		authors := &MockAuthorStorage{
			DeleteFunc: func(ctx context.Context, id string) error { return nil },
		}
		api := newAuthorAPIForTest(authors)
		req := httptest.NewRequest(http.MethodDelete, "/v1/authors/"+authorID, nil)
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.DeleteAuthor(w, req, params)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/v1/authors", res.Header.Get("Location"))
	})

	t.Run("should fail: referenced author", func(t *testing.T) {
		authors := &MockAuthorStorage{
			DeleteFunc: func(ctx context.Context, id string) error { return ErrAuthorReferenced },
		}
		api := newAuthorAPIForTest(authors)
		req := httptest.NewRequest(http.MethodDelete, "/v1/authors/"+authorID, nil)
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.DeleteAuthor(w, req, params)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})

	t.Run("should fail: unknown author", func(t *testing.T) {
		authors := &MockAuthorStorage{
			DeleteFunc: func(ctx context.Context, id string) error { return ErrNotFoundAuthor },
		}
		api := newAuthorAPIForTest(authors)
		req := httptest.NewRequest(http.MethodDelete, "/v1/authors/"+authorID, nil)
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.DeleteAuthor(w, req, params)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

// TestGetAuthorFormHandler ensures the creation screen defaults.
func TestGetAuthorFormHandler(t *testing.T) {
	api := newAuthorAPIForTest(&MockAuthorStorage{})
	req := httptest.NewRequest(http.MethodGet, "/v1/forms/author", nil)
	req = withSession(req, librarianSession())
	w := httptest.NewRecorder()
	api.GetAuthorForm(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	resultMap := make(map[string]interface{})
	assert.NoError(t, json.Unmarshal(data, &resultMap))
	formMap, ok := resultMap["data"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "2018-01-05", formMap["dateOfDeath"])
}
