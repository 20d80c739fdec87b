package main

import (
	"context"
	"encoding/json"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltUserStorage struct {
	logger *zap.Logger
	client *bolt.DB
}

// NewBoltUserStorage provides an instance of bolt-based user storage.
func NewBoltUserStorage(logger *zap.Logger, client *bolt.DB) UserStorage {
	return &boltUserStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new user record into boltdb store.
func (us *boltUserStorage) Add(_ context.Context, id string, user User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return us.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketUsers)).Put([]byte(id), userBytes)
	})
}

// GetOne retrieves a user record based on its ID from boltdb store.
func (us *boltUserStorage) GetOne(_ context.Context, id string) (User, error) {
	var user User
	tx, err := us.client.Begin(false)
	if err != nil {
		return user, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(BucketUsers)).Get([]byte(id))
	if result == nil {
		return user, ErrNotFoundUser
	}
	err = json.Unmarshal(result, &user)
	return user, err
}

// GetByUsername scans the users bucket for a matching username.
func (us *boltUserStorage) GetByUsername(_ context.Context, username string) (User, error) {
	var user User
	tx, err := us.client.Begin(false)
	if err != nil {
		return user, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(BucketUsers)).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var candidate User
		if err = json.Unmarshal(v, &candidate); err != nil {
			return user, err
		}
		if candidate.Username == username {
			return candidate, nil
		}
	}
	return user, ErrNotFoundUser
}

// Count returns the number of users stored in the bolt database.
func (us *boltUserStorage) Count(_ context.Context) (int, error) {
	var count int
	err := us.client.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(BucketUsers)).Stats().KeyN
		return nil
	})
	return count, err
}

// SeedUsers inserts the configured demo accounts when the users bucket
// is empty. The librarian account receives the loan management capability.
func SeedUsers(ctx context.Context, storage UserStorage, ids UIDHandler, clock Clocker, config *Config) error {
	count, err := storage.Count(ctx)
	if err != nil || count > 0 {
		return err
	}

	now := clock.Now().UTC().String()
	users := []User{
		{
			ID:          ids.Generate(UserIDPrefix),
			Username:    config.Users.Reader.Username,
			FullName:    config.Users.Reader.FullName,
			Password:    config.Users.Reader.Password,
			Permissions: []string{},
			CreatedAt:   now,
		},
		{
			ID:          ids.Generate(UserIDPrefix),
			Username:    config.Users.Librarian.Username,
			FullName:    config.Users.Librarian.FullName,
			Password:    config.Users.Librarian.Password,
			Permissions: []string{PermCanMarkReturned},
			CreatedAt:   now,
		},
	}

	for _, user := range users {
		if len(user.Username) == 0 {
			continue
		}
		if err = storage.Add(ctx, user.ID, user); err != nil {
			return err
		}
	}
	return nil
}

type boltAuditStorage struct {
	logger *zap.Logger
	client *bolt.DB
}

// NewBoltAuditStorage provides an instance of bolt-based audit trail storage.
func NewBoltAuditStorage(logger *zap.Logger, client *bolt.DB) AuditStorage {
	return &boltAuditStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts an audit event record into boltdb store.
func (as *boltAuditStorage) Add(_ context.Context, id string, event AuditEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return as.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketAudit)).Put([]byte(id), eventBytes)
	})
}

// GetAll retrieves the full audit trail from the bolt database.
func (as *boltAuditStorage) GetAll(_ context.Context) ([]AuditEvent, error) {
	tx, err := as.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(BucketAudit)).Cursor()
	events := []AuditEvent{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var event AuditEvent
		if err = json.Unmarshal(v, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
