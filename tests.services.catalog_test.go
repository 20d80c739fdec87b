package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newCatalogServiceForTest(books *MockBookStorage, authors *MockAuthorStorage, instances *MockInstanceStorage, sessions *MockSessionStore) CatalogServiceProvider {
	return NewCatalogService(
		zap.NewNop(),
		NewTestConfig(),
		NewMockClocker(),
		NewMockUIDHandler("fixed", true),
		authors,
		books,
		instances,
		&MockRefDataStorage{},
		sessions,
		&MockQueuer{},
	)
}

// TestHomeStats ensures the summary counters and the session visit
// counter behavior: the reported value is the count of previous visits.
func TestHomeStats(t *testing.T) {
	sessionID := "s:3f1c0e9a-0000-0000-0000-000000000000"
	books := &MockBookStorage{CountFunc: func(ctx context.Context) (int, error) { return 5, nil }}
	authors := &MockAuthorStorage{CountFunc: func(ctx context.Context) (int, error) { return 3, nil }}
	instances := &MockInstanceStorage{
		CountFunc: func(ctx context.Context) (int, error) { return 7, nil },
		CountByStatusFunc: func(ctx context.Context, status InstanceStatus) (int, error) {
			assert.Equal(t, StatusAvailable, status)
			return 4, nil
		},
	}

	t.Run("first visit reports zero", func(t *testing.T) {
		sessions := &MockSessionStore{
			IncrementVisitsFunc: func(ctx context.Context, id string) (uint64, error) {
				assert.Equal(t, sessionID, id)
				return 1, nil
			},
		}
		cs := newCatalogServiceForTest(books, authors, instances, sessions)
		stats, err := cs.HomeStats(context.Background(), sessionID)
		assert.NoError(t, err)
		assert.Equal(t, 5, stats.Books)
		assert.Equal(t, 7, stats.Instances)
		assert.Equal(t, 4, stats.AvailableInstances)
		assert.Equal(t, 3, stats.Authors)
		assert.Equal(t, uint64(0), stats.Visits)
	})

	t.Run("third visit reports two", func(t *testing.T) {
		sessions := &MockSessionStore{
			IncrementVisitsFunc: func(ctx context.Context, id string) (uint64, error) {
				return 3, nil
			},
		}
		cs := newCatalogServiceForTest(books, authors, instances, sessions)
		stats, err := cs.HomeStats(context.Background(), sessionID)
		assert.NoError(t, err)
		assert.Equal(t, uint64(2), stats.Visits)
	})

	t.Run("anonymous caller skips the counter", func(t *testing.T) {
		sessions := &MockSessionStore{
			IncrementVisitsFunc: func(ctx context.Context, id string) (uint64, error) {
				t.Fatal("visit counter must not be touched for anonymous callers")
				return 0, nil
			},
		}
		cs := newCatalogServiceForTest(books, authors, instances, sessions)
		stats, err := cs.HomeStats(context.Background(), "")
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), stats.Visits)
	})

	t.Run("expired session leaves counter at zero", func(t *testing.T) {
		sessions := &MockSessionStore{
			IncrementVisitsFunc: func(ctx context.Context, id string) (uint64, error) {
				return 0, ErrNotFoundSession
			},
		}
		cs := newCatalogServiceForTest(books, authors, instances, sessions)
		stats, err := cs.HomeStats(context.Background(), sessionID)
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), stats.Visits)
	})
}

// TestListBooks ensures the books listing serves two records per page.
func TestListBooks(t *testing.T) {
	books := &MockBookStorage{
		GetAllFunc: func(ctx context.Context) ([]Book, error) {
			return []Book{
				{ID: "b:1", Title: "The Hobbit"},
				{ID: "b:2", Title: "The Silmarillion"},
				{ID: "b:3", Title: "Unfinished Tales"},
			}, nil
		},
	}
	cs := newCatalogServiceForTest(books, &MockAuthorStorage{}, &MockInstanceStorage{}, &MockSessionStore{})

	page1, pagination, err := cs.ListBooks(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.Equal(t, 3, pagination.Total)
	assert.True(t, pagination.HasNext)

	page2, pagination, err := cs.ListBooks(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, page2, 1)
	assert.Equal(t, "Unfinished Tales", page2[0].Title)
	assert.False(t, pagination.HasNext)

	empty, pagination, err := cs.ListBooks(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, empty, 0)
	assert.False(t, pagination.HasNext)
}

// TestAddBook ensures the referenced author must resolve and the
// caller must hold the loan management permission.
func TestAddBook(t *testing.T) {
	authorID := "a:11111111-0000-0000-0000-000000000000"
	authors := &MockAuthorStorage{
		GetOneFunc: func(ctx context.Context, id string) (Author, error) {
			if id != authorID {
				return Author{}, ErrNotFoundAuthor
			}
			return Author{ID: id}, nil
		},
	}
	var added bool
	books := &MockBookStorage{
		AddFunc: func(ctx context.Context, id string, book Book) error {
			added = true
			return nil
		},
	}
	cs := newCatalogServiceForTest(books, authors, &MockInstanceStorage{}, &MockSessionStore{})

	t.Run("should pass", func(t *testing.T) {
		added = false
		err := cs.AddBook(context.Background(), librarianSession(), "b:new", Book{Title: "The Hobbit", AuthorID: authorID})
		assert.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("should fail: unknown author", func(t *testing.T) {
		added = false
		err := cs.AddBook(context.Background(), librarianSession(), "b:new", Book{Title: "The Hobbit", AuthorID: "a:unknown"})
		assert.Equal(t, ErrNotFoundAuthor, err)
		assert.False(t, added)
	})

	t.Run("should fail: missing permission", func(t *testing.T) {
		added = false
		err := cs.AddBook(context.Background(), readerSession(), "b:new", Book{Title: "The Hobbit", AuthorID: authorID})
		assert.Equal(t, ErrPermissionDenied, err)
		assert.False(t, added)
	})
}
