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

func newCatalogAPIForTest(books *MockBookStorage, authors *MockAuthorStorage, instances *MockInstanceStorage, sessions *MockSessionStore) *APIHandler {
	cs := NewCatalogService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), authors, books, instances, &MockRefDataStorage{}, sessions, &MockQueuer{})
	return NewAPIHandler(zap.NewNop(), NewTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("fixed", true), sessions, cs, nil, nil, nil, nil)
}

// TestGetHomePageHandler ensures the summary payload and the visit
// counter behavior for authenticated and anonymous callers.
func TestGetHomePageHandler(t *testing.T) {
	books := &MockBookStorage{CountFunc: func(ctx context.Context) (int, error) { return 5, nil }}
	authors := &MockAuthorStorage{CountFunc: func(ctx context.Context) (int, error) { return 3, nil }}
	instances := &MockInstanceStorage{
		CountFunc:         func(ctx context.Context) (int, error) { return 7, nil },
		CountByStatusFunc: func(ctx context.Context, status InstanceStatus) (int, error) { return 4, nil },
	}

	t.Run("should pass: authenticated caller", func(t *testing.T) {
		sessions := &MockSessionStore{
			IncrementVisitsFunc: func(ctx context.Context, id string) (uint64, error) { return 3, nil },
		}
		api := newCatalogAPIForTest(books, authors, instances, sessions)
		req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.GetHomePage(w, req, nil)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		assert.NoError(t, json.Unmarshal(data, &resultMap))
		statsMap, ok := resultMap["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, float64(5), statsMap["books"])
		assert.Equal(t, float64(7), statsMap["instances"])
		assert.Equal(t, float64(4), statsMap["availableInstances"])
		assert.Equal(t, float64(3), statsMap["authors"])
		assert.Equal(t, float64(2), statsMap["visits"])
	})

	t.Run("should pass: anonymous caller reports zero visits", func(t *testing.T) {
		sessions := &MockSessionStore{
			IncrementVisitsFunc: func(ctx context.Context, id string) (uint64, error) {
				t.Fatal("visit counter must not be touched for anonymous callers")
				return 0, nil
			},
		}
		api := newCatalogAPIForTest(books, authors, instances, sessions)
		req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
		w := httptest.NewRecorder()
		api.GetHomePage(w, req, nil)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		assert.NoError(t, json.Unmarshal(data, &resultMap))
		statsMap, ok := resultMap["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, float64(0), statsMap["visits"])
	})
}

// TestCreateBookHandler ensures book creation with server-side id and
// timestamps, and the referenced author and permission rejections.
func TestCreateBookHandler(t *testing.T) {
	authorID := "a:11111111-0000-0000-0000-000000000000"
	authors := &MockAuthorStorage{
		GetOneFunc: func(ctx context.Context, id string) (Author, error) {
			if id != authorID {
				return Author{}, ErrNotFoundAuthor
			}
			return Author{ID: id}, nil
		},
	}
	var stored *Book
	books := &MockBookStorage{
		AddFunc: func(ctx context.Context, id string, book Book) error {
			stored = &book
			return nil
		},
	}
	api := newCatalogAPIForTest(books, authors, &MockInstanceStorage{}, &MockSessionStore{})

	t.Run("should pass: valid payload", func(t *testing.T) {
		payload := []byte(`{"title":"The Hobbit","authorId":"` + authorID + `","summary":"There and back again."}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBuffer(payload))
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.CreateBook(w, req, nil)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.NotNil(t, stored)
		assert.Equal(t, "b:fixed", stored.ID)
		assert.Equal(t, "The Hobbit", stored.Title)
		assert.Equal(t, "2023-07-02 00:00:00 +0000 UTC", stored.CreatedAt)
		assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
	})

	t.Run("should fail: missing title", func(t *testing.T) {
		payload := []byte(`{"authorId":"` + authorID + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBuffer(payload))
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.CreateBook(w, req, nil)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should fail: unknown author", func(t *testing.T) {
		payload := []byte(`{"title":"The Hobbit","authorId":"a:unknown"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBuffer(payload))
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		api.CreateBook(w, req, nil)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		assert.NoError(t, json.Unmarshal(data, &resultMap))
		assert.Equal(t, "referenced author does not exist", resultMap["message"])
	})

	t.Run("should fail: missing permission", func(t *testing.T) {
		payload := []byte(`{"title":"The Hobbit","authorId":"` + authorID + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBuffer(payload))
		req = withSession(req, readerSession())
		w := httptest.NewRecorder()
		api.CreateBook(w, req, nil)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})
}

// TestGetOneBookHandler ensures unknown books come back with 404.
func TestGetOneBookHandler(t *testing.T) {
	books := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, id string) (Book, error) {
			return Book{}, ErrNotFoundBook
		},
	}
	api := newCatalogAPIForTest(books, &MockAuthorStorage{}, &MockInstanceStorage{}, &MockSessionStore{})
	req := httptest.NewRequest(http.MethodGet, "/v1/books/b:unknown", nil)
	w := httptest.NewRecorder()
	api.GetOneBook(w, req, httprouter.Params{httprouter.Param{Key: "id", Value: "b:unknown"}})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
