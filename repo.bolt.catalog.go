package main

import (
	"context"
	"encoding/json"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltAuthorStorage struct {
	logger *zap.Logger
	client *bolt.DB
}

// NewBoltAuthorStorage provides an instance of bolt-based author storage.
func NewBoltAuthorStorage(logger *zap.Logger, client *bolt.DB) AuthorStorage {
	return &boltAuthorStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new author record into boltdb store.
func (as *boltAuthorStorage) Add(_ context.Context, id string, author Author) error {
	authorBytes, err := json.Marshal(author)
	if err != nil {
		return err
	}
	return as.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketAuthors)).Put([]byte(id), authorBytes)
	})
}

// GetOne retrieves an author record based on its ID from boltdb store.
func (as *boltAuthorStorage) GetOne(_ context.Context, id string) (Author, error) {
	var author Author
	tx, err := as.client.Begin(false)
	if err != nil {
		return author, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(BucketAuthors)).Get([]byte(id))
	if result == nil {
		return author, ErrNotFoundAuthor
	}
	err = json.Unmarshal(result, &author)
	return author, err
}

// Update replaces existing author record data. It fails with
// ErrNotFoundAuthor when the record does not exist.
func (as *boltAuthorStorage) Update(_ context.Context, id string, author Author) (Author, error) {
	authorBytes, err := json.Marshal(author)
	if err != nil {
		return author, err
	}
	err = as.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketAuthors))
		if b.Get([]byte(id)) == nil {
			return ErrNotFoundAuthor
		}
		return b.Put([]byte(id), authorBytes)
	})
	return author, err
}

// Delete removes an author record based on its ID from boltdb store.
// The delete is rejected with ErrAuthorReferenced while any book of
// the catalog still points at the author.
func (as *boltAuthorStorage) Delete(_ context.Context, id string) error {
	return as.client.Update(func(tx *bolt.Tx) error {
		authors := tx.Bucket([]byte(BucketAuthors))
		if authors.Get([]byte(id)) == nil {
			return ErrNotFoundAuthor
		}

		c := tx.Bucket([]byte(BucketBooks)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var book Book
			if err := json.Unmarshal(v, &book); err != nil {
				return err
			}
			if book.AuthorID == id {
				return ErrAuthorReferenced
			}
		}
		return authors.Delete([]byte(id))
	})
}

// GetAll retrieves a list of all authors stored in the bolt database.
func (as *boltAuthorStorage) GetAll(_ context.Context) ([]Author, error) {
	tx, err := as.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(BucketAuthors)).Cursor()
	authors := []Author{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var author Author
		if err = json.Unmarshal(v, &author); err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, nil
}

// Count returns the number of authors stored in the bolt database.
func (as *boltAuthorStorage) Count(_ context.Context) (int, error) {
	var count int
	err := as.client.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(BucketAuthors)).Stats().KeyN
		return nil
	})
	return count, err
}

type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
func NewBoltBookStorage(logger *zap.Logger, client *bolt.DB) BookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new book record into boltdb store.
func (bs *boltBookStorage) Add(_ context.Context, id string, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketBooks)).Put([]byte(id), bookBytes)
	})
}

// GetOne retrieves a book record based on its ID from boltdb store.
func (bs *boltBookStorage) GetOne(_ context.Context, id string) (Book, error) {
	var book Book
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(BucketBooks)).Get([]byte(id))
	if result == nil {
		return book, ErrNotFoundBook
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// GetAll retrieves a list of all books stored in the bolt database.
func (bs *boltBookStorage) GetAll(_ context.Context) ([]Book, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(BucketBooks)).Cursor()
	books := []Book{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// GetByAuthor retrieves the books referencing a given author.
func (bs *boltBookStorage) GetByAuthor(ctx context.Context, authorID string) ([]Book, error) {
	all, err := bs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	books := []Book{}
	for _, book := range all {
		if book.AuthorID == authorID {
			books = append(books, book)
		}
	}
	return books, nil
}

// Count returns the number of books stored in the bolt database.
func (bs *boltBookStorage) Count(_ context.Context) (int, error) {
	var count int
	err := bs.client.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(BucketBooks)).Stats().KeyN
		return nil
	})
	return count, err
}

type boltRefDataStorage struct {
	logger *zap.Logger
	client *bolt.DB
}

// NewBoltRefDataStorage provides an instance of bolt-based storage
// for the read-only genres and languages reference lists.
func NewBoltRefDataStorage(logger *zap.Logger, client *bolt.DB) *boltRefDataStorage {
	return &boltRefDataStorage{
		logger: logger,
		client: client,
	}
}

// Genres retrieves the list of all genres.
func (rs *boltRefDataStorage) Genres(_ context.Context) ([]Genre, error) {
	tx, err := rs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(BucketGenres)).Cursor()
	genres := []Genre{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var genre Genre
		if err = json.Unmarshal(v, &genre); err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	return genres, nil
}

// Languages retrieves the list of all languages.
func (rs *boltRefDataStorage) Languages(_ context.Context) ([]Language, error) {
	tx, err := rs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(BucketLanguages)).Cursor()
	languages := []Language{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var language Language
		if err = json.Unmarshal(v, &language); err != nil {
			return nil, err
		}
		languages = append(languages, language)
	}
	return languages, nil
}

// SeedDefaults fills empty genres and languages buckets with a default
// set so a fresh deployment has usable reference data.
func (rs *boltRefDataStorage) SeedDefaults(_ context.Context, ids UIDHandler) error {
	defaultGenres := []string{"Fantasy", "Science Fiction", "Crime", "Poetry", "Biography"}
	defaultLanguages := []string{"English", "French", "Spanish", "Japanese"}

	return rs.client.Update(func(tx *bolt.Tx) error {
		genres := tx.Bucket([]byte(BucketGenres))
		if genres.Stats().KeyN == 0 {
			for _, name := range defaultGenres {
				id := ids.Generate(GenreIDPrefix)
				data, err := json.Marshal(Genre{ID: id, Name: name})
				if err != nil {
					return err
				}
				if err = genres.Put([]byte(id), data); err != nil {
					return err
				}
			}
		}

		languages := tx.Bucket([]byte(BucketLanguages))
		if languages.Stats().KeyN == 0 {
			for _, name := range defaultLanguages {
				id := ids.Generate(LanguageIDPrefix)
				data, err := json.Marshal(Language{ID: id, Name: name})
				if err != nil {
					return err
				}
				if err = languages.Put([]byte(id), data); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
