package main

import (
	"context"

	"go.uber.org/zap"
)

type AuthorServiceProvider interface {
	Add(ctx context.Context, actor Session, id string, author Author) error
	Update(ctx context.Context, actor Session, id string, author Author) (Author, error)
	Delete(ctx context.Context, actor Session, id string) error
}

type AuthorService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	ids     UIDHandler
	authors AuthorStorage
	queue   Queuer
}

func NewAuthorService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, authors AuthorStorage, queue Queuer) AuthorServiceProvider {
	return &AuthorService{
		logger:  logger,
		config:  config,
		clock:   clock,
		ids:     ids,
		authors: authors,
		queue:   queue,
	}
}

// Add inserts a new author record. Restricted to holders of the loan
// management capability.
func (as *AuthorService) Add(ctx context.Context, actor Session, id string, author Author) error {
	if !actor.HasPermission(PermCanMarkReturned) {
		return ErrPermissionDenied
	}
	if err := as.authors.Add(ctx, id, author); err != nil {
		return err
	}
	as.pushAudit(ctx, AuditAuthorCreated, actor.UserID, id, author.FirstName+" "+author.LastName)
	return nil
}

// Update replaces an existing author record data. Restricted to holders
// of the loan management capability.
func (as *AuthorService) Update(ctx context.Context, actor Session, id string, author Author) (Author, error) {
	if !actor.HasPermission(PermCanMarkReturned) {
		return Author{}, ErrPermissionDenied
	}
	updated, err := as.authors.Update(ctx, id, author)
	if err != nil {
		return updated, err
	}
	as.pushAudit(ctx, AuditAuthorUpdated, actor.UserID, id, author.FirstName+" "+author.LastName)
	return updated, nil
}

// Delete removes an author record. Storage rejects the delete with
// ErrAuthorReferenced while books still reference the author; the
// record is left untouched in that case. Restricted to holders of the
// loan management capability.
func (as *AuthorService) Delete(ctx context.Context, actor Session, id string) error {
	if !actor.HasPermission(PermCanMarkReturned) {
		return ErrPermissionDenied
	}
	if err := as.authors.Delete(ctx, id); err != nil {
		return err
	}
	as.pushAudit(ctx, AuditAuthorDeleted, actor.UserID, id, "")
	return nil
}

func (as *AuthorService) pushAudit(ctx context.Context, kind, actorID, subjectID, details string) {
	event := AuditEvent{
		ID:        as.ids.Generate(AuditIDPrefix),
		Kind:      kind,
		ActorID:   actorID,
		SubjectID: subjectID,
		Details:   details,
		At:        as.clock.Now().UTC().String(),
	}
	if err := as.queue.Push(ctx, AuditQueue, event); err != nil {
		as.logger.Error("service: failed to push audit event to queue", zap.String("qid", AuditQueue), zap.Error(err))
	}
}
