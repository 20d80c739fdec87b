package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestMiddlewaresStacks ensures we get the public, authenticated and ops
// middlewares stacks with exact number of elements in those stacks.
func TestMiddlewaresStacks(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), NewTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("fixed", true), nil, nil, nil, nil, nil, nil)
	pub, auth, ops := api.MiddlewaresStacks()
	assert.Equal(t, 8, len(*pub))
	assert.Equal(t, 9, len(*auth))
	assert.Equal(t, 6, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, cc, ch bool
	queue := make(chan int, 4)

	middlewareA := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 1
			ca = true
			next(w, r, ps)
		}
	}
	middlewareB := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 2
			cb = true
			next(w, r, ps)
		}
	}
	middlewareC := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 3
			cc = true
			next(w, r, ps)
		}
	}
	middlewares := Middlewares{
		middlewareA,
		middlewareB,
		middlewareC,
	}

	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		queue <- 4
		ch = true
	}

	chained := (&middlewares).Chain(handler)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	chained(w, req, nil)

	t.Run("check calling", func(t *testing.T) {
		assert.Equal(t, true, ca)
		assert.Equal(t, true, cb)
		assert.Equal(t, true, cc)
		assert.Equal(t, true, ch)
	})

	t.Run("check ordering", func(t *testing.T) {
		assert.Equal(t, 1, <-queue)
		assert.Equal(t, 2, <-queue)
		assert.Equal(t, 3, <-queue)
		assert.Equal(t, 4, <-queue)
	})
}

// TestRequestsCounterMiddleware ensures the request counter increment.
func TestRequestsCounterMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), NewTestConfig(), &Statistics{started: time.Now(), called: 0}, NewMockClocker(), NewMockUIDHandler("fixed", true), nil, nil, nil, nil, nil, nil)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
	}
	wrapped := api.RequestsCounterMiddleware(handler)
	wrapped(w, req, nil)
	assert.Equal(t, true, called)
	assert.Equal(t, uint64(1), api.stats.called)
}

// TestSessionMiddleware ensures the session resolution from the cookie
// and the anonymous pass-through for requests without credentials.
func TestSessionMiddleware(t *testing.T) {
	sessionID := "s:3f1c0e9a-0000-0000-0000-000000000000"
	sessions := &MockSessionStore{
		GetFunc: func(ctx context.Context, id string) (Session, error) {
			if id != sessionID {
				return Session{}, ErrNotFoundSession
			}
			return Session{ID: id, Username: "librarian"}, nil
		},
	}
	api := NewAPIHandler(zap.NewNop(), NewTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("fixed", true), sessions, nil, nil, nil, nil, nil)

	t.Run("valid cookie attaches the session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/catalog", nil)
		req.AddCookie(&http.Cookie{Name: NewTestConfig().Session.CookieName, Value: sessionID})
		w := httptest.NewRecorder()
		var attached Session
		var ok bool
		wrapped := api.SessionMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			attached, ok = GetSessionFromContext(r.Context())
		})
		wrapped(w, req, nil)
		assert.True(t, ok)
		assert.Equal(t, "librarian", attached.Username)
	})

	t.Run("unknown session id stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/catalog", nil)
		req.AddCookie(&http.Cookie{Name: NewTestConfig().Session.CookieName, Value: "s:expired"})
		w := httptest.NewRecorder()
		var ok bool
		wrapped := api.SessionMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			_, ok = GetSessionFromContext(r.Context())
		})
		wrapped(w, req, nil)
		assert.False(t, ok)
	})

	t.Run("no credentials stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/catalog", nil)
		w := httptest.NewRecorder()
		var ok bool
		wrapped := api.SessionMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			_, ok = GetSessionFromContext(r.Context())
		})
		wrapped(w, req, nil)
		assert.False(t, ok)
	})
}

// TestRequireSessionMiddleware ensures anonymous callers get 401 and
// authenticated callers pass through.
func TestRequireSessionMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), NewTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("fixed", true), nil, nil, nil, nil, nil, nil)

	t.Run("anonymous caller rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/borrowed", nil)
		w := httptest.NewRecorder()
		var called bool
		wrapped := api.RequireSessionMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			called = true
		})
		wrapped(w, req, nil)
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("authenticated caller passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/borrowed", nil)
		req = withSession(req, librarianSession())
		w := httptest.NewRecorder()
		var called bool
		wrapped := api.RequireSessionMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			called = true
		})
		wrapped(w, req, nil)
		assert.True(t, called)
	})
}

// TestMaintenanceMiddleware ensures requests are intercepted with 503
// while the maintenance mode is on.
func TestMaintenanceMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), NewTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("fixed", true), nil, nil, nil, nil, nil, nil)
	api.mode.enabled.Store(true)
	api.mode.message = "service under maintenance"
	api.mode.started = time.Now()

	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	var called bool
	wrapped := api.MaintenanceMiddleware(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		called = true
	})
	wrapped(w, req, nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode)

	api.mode.enabled.Store(false)
	w = httptest.NewRecorder()
	wrapped(w, req, nil)
	assert.True(t, called)
}
