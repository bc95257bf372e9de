/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package viewcache memoizes rendered per-patient views. Every write that
// changes a patient's readings or schedule must call Invalidate.
package viewcache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/bloodwork/logging"
)

// DefaultTTL bounds how long a view may be served after its last render.
const DefaultTTL = 10 * time.Minute

// ErrInvalidConfig is returned for an unusable cache configuration.
var ErrInvalidConfig = errors.New("invalid view cache configuration")

// View names.
const (
	ViewReadings  = "readings"
	ViewSummaries = "summaries"
	ViewCalendar  = "calendar"
)

// Store holds serialized views keyed by patient, generation and view name.
// Invalidate advances the patient's generation before dropping entries, so
// an entry written under an older generation is never read again.
type Store interface {
	Generation(ctx context.Context, patientID uuid.UUID) (int64, error)
	Get(ctx context.Context, patientID uuid.UUID, gen int64, view string) ([]byte, bool, error)
	Set(ctx context.Context, patientID uuid.UUID, gen int64, view string, data []byte) error
	Invalidate(ctx context.Context, patientID uuid.UUID) error
}

// Observer is notified of cache hits and misses.
type Observer interface {
	ObserveViewCache(view string, hit bool)
}

// Fetch returns the cached view or renders it with load and stores the
// result. The result is stored under the generation read before load ran, so
// a render that overlaps an Invalidate is discarded. Cache failures are
// logged and fall through to load.
func Fetch(ctx context.Context, store Store, obs Observer, patientID uuid.UUID, view string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if store == nil {
		observe(obs, view, false)
		return load(ctx)
	}

	logger := logging.Logger(logging.SourceCache)

	gen, err := store.Generation(ctx, patientID)
	if err != nil {
		logger.Warn("View cache generation read failed", "view", view, "error", err)
		observe(obs, view, false)

		return load(ctx)
	}

	data, ok, err := store.Get(ctx, patientID, gen, view)
	if err != nil {
		logger.Warn("View cache read failed", "view", view, "error", err)
	}
	if ok {
		observe(obs, view, true)
		return data, nil
	}

	observe(obs, view, false)

	data, err = load(ctx)
	if err != nil {
		return nil, err
	}

	if err := store.Set(ctx, patientID, gen, view, data); err != nil {
		logger.Warn("View cache write failed", "view", view, "error", err)
	}

	return data, nil
}

func observe(obs Observer, view string, hit bool) {
	if obs != nil {
		obs.ObserveViewCache(view, hit)
	}
}

// New returns a redis store when redisURL is set, otherwise an in-process
// store.
func New(ctx context.Context, redisURL string, ttl time.Duration) (Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if redisURL == "" {
		return NewMemory(ttl), nil
	}

	return NewRedis(ctx, redisURL, ttl)
}
