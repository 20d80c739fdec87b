package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func librarianSession() Session {
	return Session{
		ID:          "s:3f1c0e9a-0000-0000-0000-000000000000",
		UserID:      "u:11111111-0000-0000-0000-000000000000",
		Username:    "librarian",
		Permissions: []string{PermCanMarkReturned},
	}
}

func readerSession() Session {
	return Session{
		ID:       "s:4a2d1f0b-0000-0000-0000-000000000000",
		UserID:   "u:22222222-0000-0000-0000-000000000000",
		Username: "reader",
	}
}

// TestRenew ensures the renewal date window rules. The mocked clock is
// fixed on 2023-07-02 so the acceptable window is [2023-07-02, 2023-07-30].
func TestRenew(t *testing.T) {
	instanceID := "i:cb8f2136-fae4-4200-85d9-3533c7f8c70d"
	queue := &MockQueuer{}
	var updated bool
	mockRepo := &MockInstanceStorage{
		GetOneFunc: func(ctx context.Context, id string) (BookInstance, error) {
			return BookInstance{ID: id, Status: StatusOnLoan, DueBack: "2023-07-09", BorrowerID: "u:b1"}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, instance BookInstance) (BookInstance, error) {
			updated = true
			return instance, nil
		},
	}
	ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, nil, queue)

	t.Run("should pass: today", func(t *testing.T) {
		updated = false
		instance, err := ls.Renew(context.Background(), librarianSession(), instanceID, "2023-07-02")
		assert.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, "2023-07-02", instance.DueBack)
	})

	t.Run("should pass: last day of the window", func(t *testing.T) {
		updated = false
		instance, err := ls.Renew(context.Background(), librarianSession(), instanceID, "2023-07-30")
		assert.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, "2023-07-30", instance.DueBack)
	})

	t.Run("should fail: date in the past", func(t *testing.T) {
		updated = false
		instance, err := ls.Renew(context.Background(), librarianSession(), instanceID, "2023-06-25")
		assert.EqualError(t, err, "renewalDate: renewal date is in the past")
		assert.False(t, updated)
		assert.Equal(t, "2023-07-09", instance.DueBack)
	})

	t.Run("should fail: date beyond four weeks", func(t *testing.T) {
		updated = false
		instance, err := ls.Renew(context.Background(), librarianSession(), instanceID, "2023-08-06")
		assert.EqualError(t, err, "renewalDate: renewal date is more than 4 weeks ahead")
		assert.False(t, updated)
		assert.Equal(t, "2023-07-09", instance.DueBack)
	})

	t.Run("should fail: junk date", func(t *testing.T) {
		updated = false
		_, err := ls.Renew(context.Background(), librarianSession(), instanceID, "07/02/2023")
		assert.EqualError(t, err, "renewalDate: renewal date must be formatted as YYYY-MM-DD")
		assert.False(t, updated)
	})

	t.Run("should fail: missing permission checked before any read", func(t *testing.T) {
		repo := &MockInstanceStorage{
			GetOneFunc: func(ctx context.Context, id string) (BookInstance, error) {
				t.Fatal("storage must not be read for callers without permission")
				return BookInstance{}, nil
			},
		}
		svc := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), repo, nil, &MockQueuer{})
		_, err := svc.Renew(context.Background(), readerSession(), instanceID, "2023-07-10")
		assert.Equal(t, ErrPermissionDenied, err)
	})

	t.Run("audit event pushed on success", func(t *testing.T) {
		queue.Pushed = nil
		_, err := ls.Renew(context.Background(), librarianSession(), instanceID, "2023-07-16")
		assert.NoError(t, err)
		assert.Len(t, queue.Pushed, 1)
		assert.Equal(t, AuditInstanceRenewed, queue.Pushed[0].Kind)
		assert.Equal(t, instanceID, queue.Pushed[0].SubjectID)
	})
}

// TestGetRenewalForm ensures the proposed date sits three weeks ahead.
func TestGetRenewalForm(t *testing.T) {
	instanceID := "i:cb8f2136-fae4-4200-85d9-3533c7f8c70d"
	mockRepo := &MockInstanceStorage{
		GetOneFunc: func(ctx context.Context, id string) (BookInstance, error) {
			return BookInstance{ID: id, Status: StatusOnLoan, DueBack: "2023-07-09"}, nil
		},
	}
	ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, nil, &MockQueuer{})

	form, err := ls.GetRenewalForm(context.Background(), librarianSession(), instanceID)
	assert.NoError(t, err)
	assert.Equal(t, instanceID, form.Instance.ID)
	assert.Equal(t, "2023-07-23", form.ProposedDate)

	_, err = ls.GetRenewalForm(context.Background(), readerSession(), instanceID)
	assert.Equal(t, ErrPermissionDenied, err)
}

// TestListAllBorrowed ensures the all-borrowed query is restricted and
// returns copies ordered by due back date then id.
func TestListAllBorrowed(t *testing.T) {
	mockRepo := &MockInstanceStorage{
		GetOnLoanFunc: func(ctx context.Context) ([]BookInstance, error) {
			return []BookInstance{
				{ID: "i:b", Status: StatusOnLoan, DueBack: "2023-07-20"},
				{ID: "i:c", Status: StatusOnLoan, DueBack: "2023-07-05"},
				{ID: "i:a", Status: StatusOnLoan, DueBack: "2023-07-20"},
			}, nil
		},
	}
	ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, nil, &MockQueuer{})

	instances, pagination, err := ls.ListAllBorrowed(context.Background(), librarianSession(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, pagination.Total)
	assert.Equal(t, []string{"i:c", "i:a", "i:b"}, []string{instances[0].ID, instances[1].ID, instances[2].ID})

	_, _, err = ls.ListAllBorrowed(context.Background(), readerSession(), 1)
	assert.Equal(t, ErrPermissionDenied, err)
}

// TestListBorrowedByUser ensures per-user loans pagination.
func TestListBorrowedByUser(t *testing.T) {
	borrowerID := "u:22222222-0000-0000-0000-000000000000"
	mockRepo := &MockInstanceStorage{
		GetOnLoanByBorrowerFunc: func(ctx context.Context, id string) ([]BookInstance, error) {
			assert.Equal(t, borrowerID, id)
			instances := make([]BookInstance, 0, 12)
			for i := 0; i < 12; i++ {
				instances = append(instances, BookInstance{
					ID:         fmt.Sprintf("i:%02d", i),
					Status:     StatusOnLoan,
					DueBack:    fmt.Sprintf("2023-07-%02d", i+1),
					BorrowerID: id,
				})
			}
			return instances, nil
		},
	}
	ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, nil, &MockQueuer{})

	instances, pagination, err := ls.ListBorrowedByUser(context.Background(), borrowerID, 1)
	assert.NoError(t, err)
	assert.Len(t, instances, 10)
	assert.Equal(t, 12, pagination.Total)
	assert.True(t, pagination.HasNext)
	assert.Equal(t, "2023-07-01", instances[0].DueBack)

	instances, pagination, err = ls.ListBorrowedByUser(context.Background(), borrowerID, 2)
	assert.NoError(t, err)
	assert.Len(t, instances, 2)
	assert.False(t, pagination.HasNext)
}

// TestLoan ensures the loan transition rules.
func TestLoan(t *testing.T) {
	instanceID := "i:cb8f2136-fae4-4200-85d9-3533c7f8c70d"
	borrowerID := "u:22222222-0000-0000-0000-000000000000"
	queue := &MockQueuer{}
	mockUsers := &MockUserStorage{
		GetOneFunc: func(ctx context.Context, id string) (User, error) {
			if id != borrowerID {
				return User{}, ErrNotFoundUser
			}
			return User{ID: id, Username: "reader"}, nil
		},
	}

	t.Run("should pass: default due back three weeks ahead", func(t *testing.T) {
		mockRepo := &MockInstanceStorage{
			GetOneFunc: func(ctx context.Context, id string) (BookInstance, error) {
				return BookInstance{ID: id, Status: StatusAvailable}, nil
			},
			UpdateFunc: func(ctx context.Context, id string, instance BookInstance) (BookInstance, error) {
				return instance, nil
			},
		}
		ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, mockUsers, queue)
		instance, err := ls.Loan(context.Background(), librarianSession(), instanceID, borrowerID, "")
		assert.NoError(t, err)
		assert.Equal(t, StatusOnLoan, instance.Status)
		assert.Equal(t, borrowerID, instance.BorrowerID)
		assert.Equal(t, "2023-07-23", instance.DueBack)
	})

	t.Run("should fail: already on loan", func(t *testing.T) {
		mockRepo := &MockInstanceStorage{
			GetOneFunc: func(ctx context.Context, id string) (BookInstance, error) {
				return BookInstance{ID: id, Status: StatusOnLoan, BorrowerID: "u:other"}, nil
			},
		}
		ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, mockUsers, queue)
		_, err := ls.Loan(context.Background(), librarianSession(), instanceID, borrowerID, "")
		assert.Equal(t, ErrAlreadyOnLoan, err)
	})

	t.Run("should fail: unknown borrower", func(t *testing.T) {
		mockRepo := &MockInstanceStorage{
			GetOneFunc: func(ctx context.Context, id string) (BookInstance, error) {
				return BookInstance{ID: id, Status: StatusAvailable}, nil
			},
		}
		ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, mockUsers, queue)
		_, err := ls.Loan(context.Background(), librarianSession(), instanceID, "u:unknown", "")
		assert.Equal(t, ErrNotFoundUser, err)
	})
}

// TestReturn ensures a returned copy loses its borrower and due back date together.
func TestReturn(t *testing.T) {
	instanceID := "i:cb8f2136-fae4-4200-85d9-3533c7f8c70d"
	queue := &MockQueuer{}

	t.Run("should pass: on loan copy", func(t *testing.T) {
		mockRepo := &MockInstanceStorage{
			GetOneFunc: func(ctx context.Context, id string) (BookInstance, error) {
				return BookInstance{ID: id, Status: StatusOnLoan, DueBack: "2023-07-09", BorrowerID: "u:b1"}, nil
			},
			UpdateFunc: func(ctx context.Context, id string, instance BookInstance) (BookInstance, error) {
				return instance, nil
			},
		}
		ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, nil, queue)
		instance, err := ls.Return(context.Background(), librarianSession(), instanceID)
		assert.NoError(t, err)
		assert.Equal(t, StatusAvailable, instance.Status)
		assert.Empty(t, instance.BorrowerID)
		assert.Empty(t, instance.DueBack)
	})

	t.Run("should fail: copy not on loan", func(t *testing.T) {
		mockRepo := &MockInstanceStorage{
			GetOneFunc: func(ctx context.Context, id string) (BookInstance, error) {
				return BookInstance{ID: id, Status: StatusAvailable}, nil
			},
		}
		ls := NewLoanService(zap.NewNop(), NewTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), mockRepo, nil, queue)
		_, err := ls.Return(context.Background(), librarianSession(), instanceID)
		assert.Equal(t, ErrInstanceNotOnLoan, err)
	})
}
