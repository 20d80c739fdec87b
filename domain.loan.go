package main

import (
	"context"
	"errors"
)

var (
	ErrNotFoundInstance  = errors.New("book instance not found")
	ErrAlreadyOnLoan     = errors.New("book instance is already on loan")
	ErrInstanceNotOnLoan = errors.New("book instance is not on loan")

	ErrRenewalDateFormat = fieldError{"renewalDate", "renewal date must be formatted as YYYY-MM-DD"}
	ErrRenewalDateInPast = fieldError{"renewalDate", "renewal date is in the past"}
	ErrRenewalDateTooFar = fieldError{"renewalDate", "renewal date is more than 4 weeks ahead"}
)

// InstanceStatus is the loan status of a physical book copy.
type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "available"
	StatusMaintenance InstanceStatus = "maintenance"
	StatusOnLoan      InstanceStatus = "onloan"
	StatusReserved    InstanceStatus = "reserved"
)

// IsValid reports whether the status is one of the known loan states.
func (s InstanceStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusOnLoan, StatusReserved:
		return true
	}
	return false
}

const (
	// RenewalProposalDays is the lead time suggested on the renewal form.
	RenewalProposalDays = 21
	// RenewalWindowDays caps how far ahead a due date can be pushed.
	RenewalWindowDays = 28
	// LoanDays is the default loan duration when none is requested.
	LoanDays = 21
)

// BookInstance represents a physical, individually trackable copy of a
// book. An on-loan instance always carries both a borrower and a due
// back date; both fields are empty otherwise.
type BookInstance struct {
	ID         string         `json:"id"`
	BookID     string         `json:"bookId" binding:"required"`
	Imprint    string         `json:"imprint"`
	Status     InstanceStatus `json:"status"`
	DueBack    string         `json:"dueBack,omitempty"`
	BorrowerID string         `json:"borrowerId,omitempty"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
}

// InstanceStorage defines possible operations on book instance entity.
type InstanceStorage interface {
	Add(ctx context.Context, id string, instance BookInstance) error
	GetOne(ctx context.Context, id string) (BookInstance, error)
	Update(ctx context.Context, id string, instance BookInstance) (BookInstance, error)
	GetAll(ctx context.Context) ([]BookInstance, error)
	GetOnLoan(ctx context.Context) ([]BookInstance, error)
	GetOnLoanByBorrower(ctx context.Context, borrowerID string) ([]BookInstance, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status InstanceStatus) (int, error)
}
