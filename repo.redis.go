package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisSessionStore struct {
	logger *zap.Logger
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore provides an instance of redis-based session store.
// Sessions expire after the configured TTL; the visit counter shares the
// session lifetime.
func NewRedisSessionStore(logger *zap.Logger, client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{
		logger: logger,
		client: client,
		ttl:    ttl,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func sessionVisitsKey(id string) string {
	return "session:" + id + ":visits"
}

// Save stores a session record under its TTL.
func (rs *redisSessionStore) Save(ctx context.Context, session Session) error {
	sessionBytes, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, sessionKey(session.ID), sessionBytes, rs.ttl).Err()
}

// Get retrieves a session record based on its ID with its current
// visit counter attached.
func (rs *redisSessionStore) Get(ctx context.Context, id string) (Session, error) {
	var session Session
	sessionJSONString, err := rs.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return session, ErrNotFoundSession
	}
	if err != nil {
		return session, err
	}
	if err = json.Unmarshal([]byte(sessionJSONString), &session); err != nil {
		return session, err
	}

	visits, err := rs.client.Get(ctx, sessionVisitsKey(id)).Uint64()
	if err != nil && err != redis.Nil {
		return session, err
	}
	session.Visits = visits
	return session, nil
}

// Delete removes a session record and its visit counter.
func (rs *redisSessionStore) Delete(ctx context.Context, id string) error {
	return rs.client.Del(ctx, sessionKey(id), sessionVisitsKey(id)).Err()
}

// IncrementVisits atomically bumps the per-session visit counter and
// returns the post-increment value. The counter expires with the session.
func (rs *redisSessionStore) IncrementVisits(ctx context.Context, id string) (uint64, error) {
	exists, err := rs.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, ErrNotFoundSession
	}

	visits, err := rs.client.Incr(ctx, sessionVisitsKey(id)).Result()
	if err != nil {
		return 0, err
	}
	if err = rs.client.Expire(ctx, sessionVisitsKey(id), rs.ttl).Err(); err != nil {
		rs.logger.Error("sessions: failed to expire visits counter", zap.String("session.id", id), zap.Error(err))
	}
	return uint64(visits), nil
}
