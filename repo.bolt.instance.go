package main

import (
	"context"
	"encoding/json"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltInstanceStorage struct {
	logger *zap.Logger
	client *bolt.DB
}

// NewBoltInstanceStorage provides an instance of bolt-based storage
// for the physical book copies.
func NewBoltInstanceStorage(logger *zap.Logger, client *bolt.DB) InstanceStorage {
	return &boltInstanceStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new book instance record into boltdb store.
func (is *boltInstanceStorage) Add(_ context.Context, id string, instance BookInstance) error {
	instanceBytes, err := json.Marshal(instance)
	if err != nil {
		return err
	}
	return is.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketInstances)).Put([]byte(id), instanceBytes)
	})
}

// GetOne retrieves a book instance record based on its ID from boltdb store.
func (is *boltInstanceStorage) GetOne(_ context.Context, id string) (BookInstance, error) {
	var instance BookInstance
	tx, err := is.client.Begin(false)
	if err != nil {
		return instance, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(BucketInstances)).Get([]byte(id))
	if result == nil {
		return instance, ErrNotFoundInstance
	}
	err = json.Unmarshal(result, &instance)
	return instance, err
}

// Update replaces existing book instance record data. It fails with
// ErrNotFoundInstance when the record does not exist.
func (is *boltInstanceStorage) Update(_ context.Context, id string, instance BookInstance) (BookInstance, error) {
	instanceBytes, err := json.Marshal(instance)
	if err != nil {
		return instance, err
	}
	err = is.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketInstances))
		if b.Get([]byte(id)) == nil {
			return ErrNotFoundInstance
		}
		return b.Put([]byte(id), instanceBytes)
	})
	return instance, err
}

// GetAll retrieves a list of all book instances stored in the bolt database.
func (is *boltInstanceStorage) GetAll(ctx context.Context) ([]BookInstance, error) {
	return is.filter(ctx, func(BookInstance) bool { return true })
}

// GetOnLoan retrieves all instances currently on loan, whoever borrowed them.
func (is *boltInstanceStorage) GetOnLoan(ctx context.Context) ([]BookInstance, error) {
	return is.filter(ctx, func(instance BookInstance) bool {
		return instance.Status == StatusOnLoan
	})
}

// GetOnLoanByBorrower retrieves the instances currently on loan to one borrower.
func (is *boltInstanceStorage) GetOnLoanByBorrower(ctx context.Context, borrowerID string) ([]BookInstance, error) {
	return is.filter(ctx, func(instance BookInstance) bool {
		return instance.Status == StatusOnLoan && instance.BorrowerID == borrowerID
	})
}

// Count returns the number of book instances stored in the bolt database.
func (is *boltInstanceStorage) Count(_ context.Context) (int, error) {
	var count int
	err := is.client.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(BucketInstances)).Stats().KeyN
		return nil
	})
	return count, err
}

// CountByStatus returns the number of book instances with a given status.
func (is *boltInstanceStorage) CountByStatus(ctx context.Context, status InstanceStatus) (int, error) {
	instances, err := is.filter(ctx, func(instance BookInstance) bool {
		return instance.Status == status
	})
	if err != nil {
		return 0, err
	}
	return len(instances), nil
}

// filter scans the instances bucket and keeps the records matching the predicate.
func (is *boltInstanceStorage) filter(_ context.Context, keep func(BookInstance) bool) ([]BookInstance, error) {
	tx, err := is.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(BucketInstances)).Cursor()
	instances := []BookInstance{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var instance BookInstance
		if err = json.Unmarshal(v, &instance); err != nil {
			return nil, err
		}
		if keep(instance) {
			instances = append(instances, instance)
		}
	}
	return instances, nil
}
