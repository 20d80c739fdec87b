package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

type auditConsumer struct {
	logger *zap.Logger
	queue  Queuer
	repo   AuditStorage
}

// NewAuditConsumer provides a consumer which drains queued audit
// events and persists them into the bolt audit trail.
func NewAuditConsumer(logger *zap.Logger, q Queuer, repo AuditStorage) Consumer {
	return &auditConsumer{logger, q, repo}
}

func (ac *auditConsumer) Consume(ctx context.Context, qids ...string) error {
	var event AuditEvent
	var err error
	var qid string
	for {
		qid, event, err = ac.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			ac.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			ac.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		switch qid {
		case AuditQueue:
			if err = ac.repo.Add(ctx, event.ID, event); err != nil {
				ac.logger.Error("consumer: failed to persist audit event", zap.Any("event", event), zap.Error(err))
			}
		default:
			ac.logger.Warn("consumer: received event on unknow queue id", zap.String("qid", qid), zap.Any("event", event))
		}
	}
}
