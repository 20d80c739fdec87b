package main

import (
	"context"
	"errors"
)

var (
	ErrNotFoundUser       = errors.New("user not found")
	ErrNotFoundSession    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPermissionDenied   = errors.New("permission denied")
)

// PermCanMarkReturned is the capability required to renew a loan, to
// mark it returned and to browse loans across all borrowers.
const PermCanMarkReturned = "can_mark_returned"

// User represents a borrower or staff account. Accounts are seeded
// records; the api never returns the password field to callers.
type User struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	FullName    string   `json:"fullName"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"createdAt"`
}

// HasPermission reports whether the user holds the named capability.
func (u User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Session is the server side state of an authenticated caller. The
// visits counter backs the home page per-session visit count.
type Session struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
	Visits      uint64   `json:"visits"`
	CreatedAt   string   `json:"createdAt"`
}

// HasPermission reports whether the session holds the named capability.
func (s Session) HasPermission(perm string) bool {
	for _, p := range s.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// UserStorage defines possible operations on user entity.
type UserStorage interface {
	Add(ctx context.Context, id string, user User) error
	GetOne(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Count(ctx context.Context) (int, error)
}

// SessionStore defines the key-value semantics the catalog needs from
// its session collaborator: load, save, destroy and an atomic visit
// counter increment scoped to one session.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	IncrementVisits(ctx context.Context, id string) (uint64, error)
}
