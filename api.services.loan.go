package main

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// RenewalForm is the pre-filled data of the loan renewal screen.
type RenewalForm struct {
	Instance     BookInstance `json:"instance"`
	ProposedDate string       `json:"proposedDate"`
}

type LoanServiceProvider interface {
	ListBorrowedByUser(ctx context.Context, userID string, page int) ([]BookInstance, Pagination, error)
	ListAllBorrowed(ctx context.Context, actor Session, page int) ([]BookInstance, Pagination, error)
	GetRenewalForm(ctx context.Context, actor Session, instanceID string) (RenewalForm, error)
	Renew(ctx context.Context, actor Session, instanceID string, renewalDate string) (BookInstance, error)
	Loan(ctx context.Context, actor Session, instanceID string, borrowerID string, dueBack string) (BookInstance, error)
	Return(ctx context.Context, actor Session, instanceID string) (BookInstance, error)
}

type LoanService struct {
	logger    *zap.Logger
	config    *Config
	clock     Clocker
	ids       UIDHandler
	instances InstanceStorage
	users     UserStorage
	queue     Queuer
}

func NewLoanService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, instances InstanceStorage, users UserStorage, queue Queuer) LoanServiceProvider {
	return &LoanService{
		logger:    logger,
		config:    config,
		clock:     clock,
		ids:       ids,
		instances: instances,
		users:     users,
		queue:     queue,
	}
}

// sortByDueBack orders instances by due back date ascending. Ties fall
// back on the instance id so one query always returns a stable order.
func sortByDueBack(instances []BookInstance) {
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].DueBack != instances[j].DueBack {
			return instances[i].DueBack < instances[j].DueBack
		}
		return instances[i].ID < instances[j].ID
	})
}

// ListBorrowedByUser returns one page of the instances currently on
// loan to the given borrower, soonest due first. The caller is trusted
// to have authenticated the borrower already.
func (ls *LoanService) ListBorrowedByUser(ctx context.Context, userID string, page int) ([]BookInstance, Pagination, error) {
	instances, err := ls.instances.GetOnLoanByBorrower(ctx, userID)
	if err != nil {
		return nil, Pagination{}, err
	}
	sortByDueBack(instances)
	start, end, pagination := paginate(len(instances), page, ls.config.Catalog.BorrowedPageSize)
	return instances[start:end], pagination, nil
}

// ListAllBorrowed returns one page of all instances currently on loan,
// across borrowers, soonest due first. Restricted to holders of the
// loan management capability.
func (ls *LoanService) ListAllBorrowed(ctx context.Context, actor Session, page int) ([]BookInstance, Pagination, error) {
	if !actor.HasPermission(PermCanMarkReturned) {
		return nil, Pagination{}, ErrPermissionDenied
	}
	instances, err := ls.instances.GetOnLoan(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}
	sortByDueBack(instances)
	start, end, pagination := paginate(len(instances), page, ls.config.Catalog.BorrowedPageSize)
	return instances[start:end], pagination, nil
}

// GetRenewalForm resolves the instance and proposes a renewal date
// three weeks ahead. The capability check runs before any read.
func (ls *LoanService) GetRenewalForm(ctx context.Context, actor Session, instanceID string) (RenewalForm, error) {
	if !actor.HasPermission(PermCanMarkReturned) {
		return RenewalForm{}, ErrPermissionDenied
	}
	instance, err := ls.instances.GetOne(ctx, instanceID)
	if err != nil {
		return RenewalForm{}, err
	}
	proposed := DateOf(ls.clock.Now()).AddDate(0, 0, RenewalProposalDays)
	return RenewalForm{
		Instance:     instance,
		ProposedDate: FormatDate(proposed),
	}, nil
}

// Renew pushes the due back date of a loaned instance to the requested
// date. The date must fall inside [today, today+4 weeks]; both rules
// are checked in that order and the first violation is reported without
// touching the record. Only the due back field changes on success.
func (ls *LoanService) Renew(ctx context.Context, actor Session, instanceID, renewalDate string) (BookInstance, error) {
	if !actor.HasPermission(PermCanMarkReturned) {
		return BookInstance{}, ErrPermissionDenied
	}
	instance, err := ls.instances.GetOne(ctx, instanceID)
	if err != nil {
		return BookInstance{}, err
	}

	date, err := ParseDate(renewalDate)
	if err != nil {
		return instance, ErrRenewalDateFormat
	}
	today := DateOf(ls.clock.Now())
	if date.Before(today) {
		return instance, ErrRenewalDateInPast
	}
	if date.After(today.AddDate(0, 0, RenewalWindowDays)) {
		return instance, ErrRenewalDateTooFar
	}

	instance.DueBack = FormatDate(date)
	instance.UpdatedAt = ls.clock.Now().UTC().String()
	updated, err := ls.instances.Update(ctx, instanceID, instance)
	if err != nil {
		return instance, err
	}
	ls.pushAudit(ctx, AuditInstanceRenewed, actor.UserID, instanceID, "due back "+updated.DueBack)
	return updated, nil
}

// Loan hands an instance to a borrower. The due back date defaults to
// three weeks ahead when none is requested.
func (ls *LoanService) Loan(ctx context.Context, actor Session, instanceID, borrowerID, dueBack string) (BookInstance, error) {
	if !actor.HasPermission(PermCanMarkReturned) {
		return BookInstance{}, ErrPermissionDenied
	}
	instance, err := ls.instances.GetOne(ctx, instanceID)
	if err != nil {
		return BookInstance{}, err
	}
	if instance.Status == StatusOnLoan {
		return instance, ErrAlreadyOnLoan
	}
	if _, err = ls.users.GetOne(ctx, borrowerID); err != nil {
		return instance, err
	}

	if len(dueBack) == 0 {
		dueBack = FormatDate(DateOf(ls.clock.Now()).AddDate(0, 0, LoanDays))
	} else if _, err = ParseDate(dueBack); err != nil {
		return instance, fieldError{"dueBack", "due back date must be formatted as YYYY-MM-DD"}
	}

	instance.Status = StatusOnLoan
	instance.BorrowerID = borrowerID
	instance.DueBack = dueBack
	instance.UpdatedAt = ls.clock.Now().UTC().String()
	updated, err := ls.instances.Update(ctx, instanceID, instance)
	if err != nil {
		return instance, err
	}
	ls.pushAudit(ctx, AuditInstanceLoaned, actor.UserID, instanceID, "borrower "+borrowerID)
	return updated, nil
}

// Return marks a loaned instance as back on the shelves, clearing the
// borrower and due back fields together to keep the on-loan invariant.
func (ls *LoanService) Return(ctx context.Context, actor Session, instanceID string) (BookInstance, error) {
	if !actor.HasPermission(PermCanMarkReturned) {
		return BookInstance{}, ErrPermissionDenied
	}
	instance, err := ls.instances.GetOne(ctx, instanceID)
	if err != nil {
		return BookInstance{}, err
	}
	if instance.Status != StatusOnLoan {
		return instance, ErrInstanceNotOnLoan
	}

	instance.Status = StatusAvailable
	instance.BorrowerID = ""
	instance.DueBack = ""
	instance.UpdatedAt = ls.clock.Now().UTC().String()
	updated, err := ls.instances.Update(ctx, instanceID, instance)
	if err != nil {
		return instance, err
	}
	ls.pushAudit(ctx, AuditInstanceBack, actor.UserID, instanceID, "")
	return updated, nil
}

func (ls *LoanService) pushAudit(ctx context.Context, kind, actorID, subjectID, details string) {
	event := AuditEvent{
		ID:        ls.ids.Generate(AuditIDPrefix),
		Kind:      kind,
		ActorID:   actorID,
		SubjectID: subjectID,
		Details:   details,
		At:        ls.clock.Now().UTC().String(),
	}
	if err := ls.queue.Push(ctx, AuditQueue, event); err != nil {
		ls.logger.Error("service: failed to push audit event to queue", zap.String("qid", AuditQueue), zap.Error(err))
	}
}
