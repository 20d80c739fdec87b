package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/boltdb/bolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltClient provides a bolt client backed by a temporary file
// with all catalog buckets created.
func newTestBoltClient(t *testing.T) *bolt.DB {
	t.Helper()
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	require.NoError(t, err)
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath: f.Name(),
			Timeout:  5 * time.Second,
		},
	}
	client, err := GetBoltDBClient(testConfig)
	require.NoError(t, err, "failed in creating a test bolt client")
	t.Cleanup(func() { client.Close() })
	return client
}

// Ensure bolt store can insert, update and delete an author.
func TestBoltAuthorStorage(t *testing.T) {
	client := newTestBoltClient(t)
	as := NewBoltAuthorStorage(zap.NewNop(), client)
	testAuthorID := "a:0"

	author := Author{ID: testAuthorID, FirstName: "Ursula", LastName: "Le Guin"}
	err := as.Add(context.TODO(), testAuthorID, author)
	assert.NoError(t, err)

	got, err := as.GetOne(context.TODO(), testAuthorID)
	assert.NoError(t, err)
	assert.Equal(t, "Ursula", got.FirstName)

	author.DateOfDeath = "2018-01-22"
	updated, err := as.Update(context.TODO(), testAuthorID, author)
	assert.NoError(t, err)
	assert.Equal(t, "2018-01-22", updated.DateOfDeath)

	_, err = as.Update(context.TODO(), "a:missing", author)
	assert.Equal(t, ErrNotFoundAuthor, err)

	err = as.Delete(context.TODO(), testAuthorID)
	assert.NoError(t, err)
	_, err = as.GetOne(context.TODO(), testAuthorID)
	assert.Equal(t, ErrNotFoundAuthor, err)
}

// Ensure an author referenced by a book cannot be deleted.
func TestBoltAuthorStorage_DeleteReferenced(t *testing.T) {
	client := newTestBoltClient(t)
	as := NewBoltAuthorStorage(zap.NewNop(), client)
	bs := NewBoltBookStorage(zap.NewNop(), client)
	testAuthorID := "a:0"

	err := as.Add(context.TODO(), testAuthorID, Author{ID: testAuthorID, FirstName: "Ursula", LastName: "Le Guin"})
	require.NoError(t, err)
	err = bs.Add(context.TODO(), "b:0", Book{ID: "b:0", Title: "A Wizard of Earthsea", AuthorID: testAuthorID})
	require.NoError(t, err)

	err = as.Delete(context.TODO(), testAuthorID)
	assert.Equal(t, ErrAuthorReferenced, err)

	// The record must survive the rejected delete.
	got, err := as.GetOne(context.TODO(), testAuthorID)
	assert.NoError(t, err)
	assert.Equal(t, testAuthorID, got.ID)
}

// Ensure bolt store serves the on-loan queries and status counters.
func TestBoltInstanceStorage(t *testing.T) {
	client := newTestBoltClient(t)
	is := NewBoltInstanceStorage(zap.NewNop(), client)

	seed := []BookInstance{
		{ID: "i:0", BookID: "b:0", Status: StatusAvailable},
		{ID: "i:1", BookID: "b:0", Status: StatusOnLoan, BorrowerID: "u:1", DueBack: "2023-07-09"},
		{ID: "i:2", BookID: "b:0", Status: StatusOnLoan, BorrowerID: "u:2", DueBack: "2023-07-05"},
		{ID: "i:3", BookID: "b:1", Status: StatusMaintenance},
	}
	for _, instance := range seed {
		require.NoError(t, is.Add(context.TODO(), instance.ID, instance))
	}

	onloan, err := is.GetOnLoan(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, onloan, 2)

	mine, err := is.GetOnLoanByBorrower(context.TODO(), "u:1")
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, "i:1", mine[0].ID)

	count, err := is.Count(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, 4, count)

	available, err := is.CountByStatus(context.TODO(), StatusAvailable)
	assert.NoError(t, err)
	assert.Equal(t, 1, available)

	// Return i:1 and verify the counters move.
	instance, err := is.GetOne(context.TODO(), "i:1")
	require.NoError(t, err)
	instance.Status = StatusAvailable
	instance.BorrowerID = ""
	instance.DueBack = ""
	_, err = is.Update(context.TODO(), "i:1", instance)
	assert.NoError(t, err)

	onloan, err = is.GetOnLoan(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, onloan, 1)
}

// Ensure reference data seeding fills empty buckets only once.
func TestBoltRefDataStorage_SeedDefaults(t *testing.T) {
	client := newTestBoltClient(t)
	rs := NewBoltRefDataStorage(zap.NewNop(), client)
	ids := NewIDsHandler()

	require.NoError(t, rs.SeedDefaults(context.TODO(), ids))
	genres, err := rs.Genres(context.TODO())
	assert.NoError(t, err)
	assert.NotEmpty(t, genres)

	languages, err := rs.Languages(context.TODO())
	assert.NoError(t, err)
	assert.NotEmpty(t, languages)

	// A second seeding pass must not duplicate the reference lists.
	require.NoError(t, rs.SeedDefaults(context.TODO(), ids))
	again, err := rs.Genres(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, len(genres), len(again))
}

// Ensure user seeding creates the two demo accounts with expected permissions.
func TestBoltUserStorage_SeedUsers(t *testing.T) {
	client := newTestBoltClient(t)
	us := NewBoltUserStorage(zap.NewNop(), client)
	config := NewTestConfig()
	config.Users = UsersConfig{
		Reader:    SeedUserConfig{Username: "reader", Password: "reader", FullName: "Regular Reader"},
		Librarian: SeedUserConfig{Username: "librarian", Password: "librarian", FullName: "Head Librarian"},
	}

	require.NoError(t, SeedUsers(context.TODO(), us, NewIDsHandler(), NewMockClocker(), config))

	reader, err := us.GetByUsername(context.TODO(), "reader")
	assert.NoError(t, err)
	assert.False(t, reader.HasPermission(PermCanMarkReturned))

	librarian, err := us.GetByUsername(context.TODO(), "librarian")
	assert.NoError(t, err)
	assert.True(t, librarian.HasPermission(PermCanMarkReturned))

	count, err := us.Count(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	// A second seeding pass must not duplicate the accounts.
	require.NoError(t, SeedUsers(context.TODO(), us, NewIDsHandler(), NewMockClocker(), config))
	count, err = us.Count(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
