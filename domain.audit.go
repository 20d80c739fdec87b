package main

import "context"

// Kinds of audit events pushed by the services on each mutation.
const (
	AuditAuthorCreated   = "author.created"
	AuditAuthorUpdated   = "author.updated"
	AuditAuthorDeleted   = "author.deleted"
	AuditBookCreated     = "book.created"
	AuditInstanceCreated = "instance.created"
	AuditInstanceRenewed = "instance.renewed"
	AuditInstanceLoaned  = "instance.loaned"
	AuditInstanceBack    = "instance.returned"
)

// AuditEvent records who changed what. Events are queued by the
// services and persisted asynchronously by the audit consumer.
type AuditEvent struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	ActorID   string `json:"actorId"`
	SubjectID string `json:"subjectId"`
	Details   string `json:"details,omitempty"`
	At        string `json:"at"`
}

// AuditStorage defines possible operations on the audit trail.
type AuditStorage interface {
	Add(ctx context.Context, id string, event AuditEvent) error
	GetAll(ctx context.Context) ([]AuditEvent, error)
}
