package main

import (
	"fmt"

	"github.com/boltdb/bolt"
)

// Buckets holding the catalog entities inside the bolt database.
const (
	BucketAuthors   = "authors"
	BucketBooks     = "books"
	BucketInstances = "instances"
	BucketGenres    = "genres"
	BucketLanguages = "languages"
	BucketUsers     = "users"
	BucketAudit     = "audit"
)

var catalogBuckets = []string{
	BucketAuthors,
	BucketBooks,
	BucketInstances,
	BucketGenres,
	BucketLanguages,
	BucketUsers,
	BucketAudit,
}

// GetBoltDBClient setup the database with all catalog buckets then
// provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range catalogBuckets {
			if _, errB := tx.CreateBucketIfNotExists([]byte(name)); errB != nil {
				return fmt.Errorf("failed to create %s bucket: %v", name, errB)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up buckets: %v", err)
	}
	return db, nil
}
