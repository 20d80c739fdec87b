package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockAuthorStorage struct {
	AddFunc    func(ctx context.Context, id string, author Author) error
	GetOneFunc func(ctx context.Context, id string) (Author, error)
	UpdateFunc func(ctx context.Context, id string, author Author) (Author, error)
	DeleteFunc func(ctx context.Context, id string) error
	GetAllFunc func(ctx context.Context) ([]Author, error)
	CountFunc  func(ctx context.Context) (int, error)
}

func (m *MockAuthorStorage) Add(ctx context.Context, id string, author Author) error {
	return m.AddFunc(ctx, id, author)
}

func (m *MockAuthorStorage) GetOne(ctx context.Context, id string) (Author, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockAuthorStorage) Update(ctx context.Context, id string, author Author) (Author, error) {
	return m.UpdateFunc(ctx, id, author)
}

func (m *MockAuthorStorage) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockAuthorStorage) GetAll(ctx context.Context) ([]Author, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockAuthorStorage) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

type MockBookStorage struct {
	AddFunc         func(ctx context.Context, id string, book Book) error
	GetOneFunc      func(ctx context.Context, id string) (Book, error)
	GetAllFunc      func(ctx context.Context) ([]Book, error)
	GetByAuthorFunc func(ctx context.Context, authorID string) ([]Book, error)
	CountFunc       func(ctx context.Context) (int, error)
}

func (m *MockBookStorage) Add(ctx context.Context, id string, book Book) error {
	return m.AddFunc(ctx, id, book)
}

func (m *MockBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockBookStorage) GetByAuthor(ctx context.Context, authorID string) ([]Book, error) {
	return m.GetByAuthorFunc(ctx, authorID)
}

func (m *MockBookStorage) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

type MockInstanceStorage struct {
	AddFunc                 func(ctx context.Context, id string, instance BookInstance) error
	GetOneFunc              func(ctx context.Context, id string) (BookInstance, error)
	UpdateFunc              func(ctx context.Context, id string, instance BookInstance) (BookInstance, error)
	GetAllFunc              func(ctx context.Context) ([]BookInstance, error)
	GetOnLoanFunc           func(ctx context.Context) ([]BookInstance, error)
	GetOnLoanByBorrowerFunc func(ctx context.Context, borrowerID string) ([]BookInstance, error)
	CountFunc               func(ctx context.Context) (int, error)
	CountByStatusFunc       func(ctx context.Context, status InstanceStatus) (int, error)
}

func (m *MockInstanceStorage) Add(ctx context.Context, id string, instance BookInstance) error {
	return m.AddFunc(ctx, id, instance)
}

func (m *MockInstanceStorage) GetOne(ctx context.Context, id string) (BookInstance, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockInstanceStorage) Update(ctx context.Context, id string, instance BookInstance) (BookInstance, error) {
	return m.UpdateFunc(ctx, id, instance)
}

func (m *MockInstanceStorage) GetAll(ctx context.Context) ([]BookInstance, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockInstanceStorage) GetOnLoan(ctx context.Context) ([]BookInstance, error) {
	return m.GetOnLoanFunc(ctx)
}

func (m *MockInstanceStorage) GetOnLoanByBorrower(ctx context.Context, borrowerID string) ([]BookInstance, error) {
	return m.GetOnLoanByBorrowerFunc(ctx, borrowerID)
}

func (m *MockInstanceStorage) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

func (m *MockInstanceStorage) CountByStatus(ctx context.Context, status InstanceStatus) (int, error) {
	return m.CountByStatusFunc(ctx, status)
}

type MockRefDataStorage struct {
	GenresFunc    func(ctx context.Context) ([]Genre, error)
	LanguagesFunc func(ctx context.Context) ([]Language, error)
}

func (m *MockRefDataStorage) Genres(ctx context.Context) ([]Genre, error) {
	return m.GenresFunc(ctx)
}

func (m *MockRefDataStorage) Languages(ctx context.Context) ([]Language, error) {
	return m.LanguagesFunc(ctx)
}

type MockUserStorage struct {
	AddFunc           func(ctx context.Context, id string, user User) error
	GetOneFunc        func(ctx context.Context, id string) (User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (User, error)
	CountFunc         func(ctx context.Context) (int, error)
}

func (m *MockUserStorage) Add(ctx context.Context, id string, user User) error {
	return m.AddFunc(ctx, id, user)
}

func (m *MockUserStorage) GetOne(ctx context.Context, id string) (User, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockUserStorage) GetByUsername(ctx context.Context, username string) (User, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func (m *MockUserStorage) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

type MockSessionStore struct {
	SaveFunc            func(ctx context.Context, session Session) error
	GetFunc             func(ctx context.Context, id string) (Session, error)
	DeleteFunc          func(ctx context.Context, id string) error
	IncrementVisitsFunc func(ctx context.Context, id string) (uint64, error)
}

func (m *MockSessionStore) Save(ctx context.Context, session Session) error {
	return m.SaveFunc(ctx, session)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (Session, error) {
	return m.GetFunc(ctx, id)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockSessionStore) IncrementVisits(ctx context.Context, id string) (uint64, error) {
	return m.IncrementVisitsFunc(ctx, id)
}

type MockAuditStorage struct {
	AddFunc    func(ctx context.Context, id string, event AuditEvent) error
	GetAllFunc func(ctx context.Context) ([]AuditEvent, error)
}

func (m *MockAuditStorage) Add(ctx context.Context, id string, event AuditEvent) error {
	return m.AddFunc(ctx, id, event)
}

func (m *MockAuditStorage) GetAll(ctx context.Context) ([]AuditEvent, error) {
	return m.GetAllFunc(ctx)
}

// MockQueuer implements a fake Queuer. Pushed events are recorded so
// tests can check what would reach the audit trail.
type MockQueuer struct {
	Pushed  []AuditEvent
	PushErr error
	PopFunc func(ctx context.Context, qids ...string) (string, AuditEvent, error)
}

func (m *MockQueuer) Push(_ context.Context, _ string, event AuditEvent) error {
	if m.PushErr != nil {
		return m.PushErr
	}
	m.Pushed = append(m.Pushed, event)
	return nil
}

func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, AuditEvent, error) {
	return m.PopFunc(ctx, qids...)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// Zero returns zero time.
func (mck *MockClocker) Zero() time.Time {
	return time.Time{}
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// NewTestConfig provides a minimal configuration for unit tests.
func NewTestConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BooksPageSize:    2,
			AuthorsPageSize:  10,
			BorrowedPageSize: 10,
		},
		Session: SessionConfig{
			TTL:        24 * time.Hour,
			CookieName: "lcap_sid",
		},
	}
}
