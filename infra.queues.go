package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuditQueue is the queue id carrying mutation events to the audit consumer.
const AuditQueue = "audit.events"

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Queuer describes a queue of audit events.
type Queuer interface {
	Push(ctx context.Context, qid string, event AuditEvent) error
	Pop(ctx context.Context, qids ...string) (string, AuditEvent, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues an audit event onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, event AuditEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, eventBytes).Err()
}

// Pop returns the first dequeued audit event from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, AuditEvent, error) {
	var event AuditEvent
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, event, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &event); err != nil {
		return qid, event, err
	}
	qid = infos[0]
	return qid, event, nil
}
