package main

import (
	"context"
	"errors"
)

var (
	ErrNotFoundAuthor   = errors.New("author not found")
	ErrNotFoundBook     = errors.New("book not found")
	ErrAuthorReferenced = errors.New("author is still referenced by books")
)

// Author represents a writer referenced by books of the catalog.
// Birth and death dates are optional and formatted as YYYY-MM-DD.
type Author struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	DateOfDeath string `json:"dateOfDeath,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Genre classifies books. Read-only reference data seeded at startup.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Language is the natural language a book is written in. Read-only.
type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Book represents a published title of the catalog. Physical copies
// are tracked separately as BookInstance records.
type Book struct {
	ID         string   `json:"id"`
	Title      string   `json:"title" binding:"required"`
	Summary    string   `json:"summary"`
	ISBN       string   `json:"isbn"`
	AuthorID   string   `json:"authorId" binding:"required"`
	LanguageID string   `json:"languageId"`
	GenreIDs   []string `json:"genreIds,omitempty"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// AuthorStorage defines possible operations on author entity.
// Delete must be rejected with ErrAuthorReferenced while at least
// one book still points at the author.
type AuthorStorage interface {
	Add(ctx context.Context, id string, author Author) error
	GetOne(ctx context.Context, id string) (Author, error)
	Update(ctx context.Context, id string, author Author) (Author, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]Author, error)
	Count(ctx context.Context) (int, error)
}

// BookStorage defines possible operations on book entity.
type BookStorage interface {
	Add(ctx context.Context, id string, book Book) error
	GetOne(ctx context.Context, id string) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	GetByAuthor(ctx context.Context, authorID string) ([]Book, error)
	Count(ctx context.Context) (int, error)
}

// RefDataStorage serves the read-only genres and languages lists.
type RefDataStorage interface {
	Genres(ctx context.Context) ([]Genre, error)
	Languages(ctx context.Context) ([]Language, error)
}
