package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestAuditConsumer ensures popped audit events are persisted and the
// consumer exits cleanly once its context is cancelled.
func TestAuditConsumer(t *testing.T) {
	testEvent := AuditEvent{
		ID:        "e:0",
		Kind:      AuditAuthorDeleted,
		ActorID:   "u:0",
		SubjectID: "a:0",
		At:        "2023-07-02 00:00:00 +0000 UTC",
	}

	pending := make(chan AuditEvent, 1)
	pending <- testEvent
	queue := &MockQueuer{
		PopFunc: func(ctx context.Context, qids ...string) (string, AuditEvent, error) {
			select {
			case event := <-pending:
				return AuditQueue, event, nil
			case <-ctx.Done():
				return "", AuditEvent{}, ctx.Err()
			}
		},
	}

	persisted := make(chan AuditEvent, 1)
	repo := &MockAuditStorage{
		AddFunc: func(ctx context.Context, id string, event AuditEvent) error {
			persisted <- event
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := NewAuditConsumer(zap.NewNop(), queue, repo)
	done := make(chan error, 1)
	go func() {
		done <- consumer.Consume(ctx, AuditQueue)
	}()

	select {
	case event := <-persisted:
		assert.Equal(t, testEvent, event)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the audit event to be persisted")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the consumer to exit")
	}
}
