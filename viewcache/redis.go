/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package viewcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bloodwork:view"

// Redis is a Store shared between portal instances. Each patient has a
// generation counter and an index set listing their view keys.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse redis url: %w", ErrInvalidConfig, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Generation(ctx context.Context, patientID uuid.UUID) (int64, error) {
	gen, err := r.client.Get(ctx, redisGenerationKey(patientID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read view generation: %w", err)
	}

	return gen, nil
}

func (r *Redis) Get(ctx context.Context, patientID uuid.UUID, gen int64, view string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, viewKey(patientID, gen, view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read view %s: %w", view, err)
	}

	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, patientID uuid.UUID, gen int64, view string, data []byte) error {
	key := viewKey(patientID, gen, view)
	index := indexKey(patientID)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, r.ttl)
		pipe.SAdd(ctx, index, key)
		pipe.Expire(ctx, index, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store view %s: %w", view, err)
	}

	return nil
}

func (r *Redis) Invalidate(ctx context.Context, patientID uuid.UUID) error {
	if err := r.client.Incr(ctx, redisGenerationKey(patientID)).Err(); err != nil {
		return fmt.Errorf("failed to advance view generation: %w", err)
	}

	index := indexKey(patientID)

	keys, err := r.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("failed to list views: %w", err)
	}

	if err := r.client.Del(ctx, append(keys, index)...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate views: %w", err)
	}

	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func viewKey(patientID uuid.UUID, gen int64, view string) string {
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, patientID, gen, view)
}

func indexKey(patientID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:index", keyPrefix, patientID)
}

func redisGenerationKey(patientID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:gen", keyPrefix, patientID)
}
