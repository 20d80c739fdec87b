package main

import (
	"context"

	"go.uber.org/zap"
)

// Pagination describes the slice of records a listing call returned.
type Pagination struct {
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	Total    int  `json:"total"`
	HasNext  bool `json:"hasNext"`
}

// HomeStats is the summary block of the catalog home page. Visits is
// the number of times the calling session viewed the page before this
// call; it stays at zero for anonymous callers.
type HomeStats struct {
	Books              int    `json:"books"`
	Instances          int    `json:"instances"`
	AvailableInstances int    `json:"availableInstances"`
	Authors            int    `json:"authors"`
	Visits             uint64 `json:"visits"`
}

type CatalogServiceProvider interface {
	ListBooks(ctx context.Context, page int) ([]Book, Pagination, error)
	GetBook(ctx context.Context, id string) (Book, error)
	ListAuthors(ctx context.Context, page int) ([]Author, Pagination, error)
	GetAuthor(ctx context.Context, id string) (Author, error)
	GetInstance(ctx context.Context, id string) (BookInstance, error)
	ListGenres(ctx context.Context) ([]Genre, error)
	ListLanguages(ctx context.Context) ([]Language, error)
	HomeStats(ctx context.Context, sessionID string) (HomeStats, error)
	AddBook(ctx context.Context, actor Session, id string, book Book) error
	AddInstance(ctx context.Context, actor Session, id string, instance BookInstance) error
}

type CatalogService struct {
	logger    *zap.Logger
	config    *Config
	clock     Clocker
	ids       UIDHandler
	authors   AuthorStorage
	books     BookStorage
	instances InstanceStorage
	refs      RefDataStorage
	sessions  SessionStore
	queue     Queuer
}

func NewCatalogService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, authors AuthorStorage, books BookStorage, instances InstanceStorage, refs RefDataStorage, sessions SessionStore, queue Queuer) CatalogServiceProvider {
	return &CatalogService{
		logger:    logger,
		config:    config,
		clock:     clock,
		ids:       ids,
		authors:   authors,
		books:     books,
		instances: instances,
		refs:      refs,
		sessions:  sessions,
		queue:     queue,
	}
}

// paginate computes the [start:end] window of a page over total records
// along with the pagination block describing it. Pages start at 1.
func paginate(total, page, size int) (int, int, Pagination) {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end, Pagination{
		Page:     page,
		PageSize: size,
		Total:    total,
		HasNext:  end < total,
	}
}

// ListBooks returns one page of the books list in storage order.
func (cs *CatalogService) ListBooks(ctx context.Context, page int) ([]Book, Pagination, error) {
	books, err := cs.books.GetAll(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}
	start, end, pagination := paginate(len(books), page, cs.config.Catalog.BooksPageSize)
	return books[start:end], pagination, nil
}

// GetBook returns a single book record.
func (cs *CatalogService) GetBook(ctx context.Context, id string) (Book, error) {
	return cs.books.GetOne(ctx, id)
}

// ListAuthors returns one page of the authors list in storage order.
func (cs *CatalogService) ListAuthors(ctx context.Context, page int) ([]Author, Pagination, error) {
	authors, err := cs.authors.GetAll(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}
	start, end, pagination := paginate(len(authors), page, cs.config.Catalog.AuthorsPageSize)
	return authors[start:end], pagination, nil
}

// GetAuthor returns a single author record.
func (cs *CatalogService) GetAuthor(ctx context.Context, id string) (Author, error) {
	return cs.authors.GetOne(ctx, id)
}

// GetInstance returns a single book copy record.
func (cs *CatalogService) GetInstance(ctx context.Context, id string) (BookInstance, error) {
	return cs.instances.GetOne(ctx, id)
}

// ListGenres returns the read-only genres reference list.
func (cs *CatalogService) ListGenres(ctx context.Context) ([]Genre, error) {
	return cs.refs.Genres(ctx)
}

// ListLanguages returns the read-only languages reference list.
func (cs *CatalogService) ListLanguages(ctx context.Context) ([]Language, error) {
	return cs.refs.Languages(ctx)
}

// HomeStats counts the catalog records and bumps the calling session
// visit counter. The returned value is the count of previous visits, so
// a session's first view reports zero. Anonymous calls skip the counter.
func (cs *CatalogService) HomeStats(ctx context.Context, sessionID string) (HomeStats, error) {
	var stats HomeStats
	var err error

	if stats.Books, err = cs.books.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Instances, err = cs.instances.Count(ctx); err != nil {
		return stats, err
	}
	if stats.AvailableInstances, err = cs.instances.CountByStatus(ctx, StatusAvailable); err != nil {
		return stats, err
	}
	if stats.Authors, err = cs.authors.Count(ctx); err != nil {
		return stats, err
	}

	if len(sessionID) != 0 {
		visits, err := cs.sessions.IncrementVisits(ctx, sessionID)
		if err != nil && err != ErrNotFoundSession {
			return stats, err
		}
		if visits > 0 {
			stats.Visits = visits - 1
		}
	}
	return stats, nil
}

// AddBook inserts a new book record. Administrative: the actor must
// hold the loan management capability and the referenced author must
// resolve before anything is written.
func (cs *CatalogService) AddBook(ctx context.Context, actor Session, id string, book Book) error {
	if !actor.HasPermission(PermCanMarkReturned) {
		return ErrPermissionDenied
	}
	if _, err := cs.authors.GetOne(ctx, book.AuthorID); err != nil {
		return err
	}

	if err := cs.books.Add(ctx, id, book); err != nil {
		return err
	}
	cs.pushAudit(ctx, AuditBookCreated, actor.UserID, id, book.Title)
	return nil
}

// AddInstance inserts a new physical copy record. Administrative: the
// actor must hold the loan management capability and the referenced
// book must resolve before anything is written.
func (cs *CatalogService) AddInstance(ctx context.Context, actor Session, id string, instance BookInstance) error {
	if !actor.HasPermission(PermCanMarkReturned) {
		return ErrPermissionDenied
	}
	if _, err := cs.books.GetOne(ctx, instance.BookID); err != nil {
		return err
	}

	if err := cs.instances.Add(ctx, id, instance); err != nil {
		return err
	}
	cs.pushAudit(ctx, AuditInstanceCreated, actor.UserID, id, instance.Imprint)
	return nil
}

func (cs *CatalogService) pushAudit(ctx context.Context, kind, actorID, subjectID, details string) {
	event := AuditEvent{
		ID:        cs.ids.Generate(AuditIDPrefix),
		Kind:      kind,
		ActorID:   actorID,
		SubjectID: subjectID,
		Details:   details,
		At:        cs.clock.Now().UTC().String(),
	}
	if err := cs.queue.Push(ctx, AuditQueue, event); err != nil {
		cs.logger.Error("service: failed to push audit event to queue", zap.String("qid", AuditQueue), zap.Error(err))
	}
}
