/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package viewcache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Memory is an in-process Store for single-instance deployments.
type Memory struct {
	cache *cache.Cache
}

// NewMemory returns an in-process store with entries expiring after ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{cache: cache.New(ttl, 2*ttl)}
}

func (m *Memory) Generation(_ context.Context, patientID uuid.UUID) (int64, error) {
	v, ok := m.cache.Get(generationKey(patientID))
	if !ok {
		return 0, nil
	}

	gen, _ := v.(int64)

	return gen, nil
}

func (m *Memory) Get(_ context.Context, patientID uuid.UUID, gen int64, view string) ([]byte, bool, error) {
	v, ok := m.cache.Get(memoryKey(patientID, gen, view))
	if !ok {
		return nil, false, nil
	}

	data, ok := v.([]byte)

	return data, ok, nil
}

func (m *Memory) Set(_ context.Context, patientID uuid.UUID, gen int64, view string, data []byte) error {
	m.cache.SetDefault(memoryKey(patientID, gen, view), data)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, patientID uuid.UUID) error {
	key := generationKey(patientID)

	// Add fails when the counter already exists; either way it is present.
	_ = m.cache.Add(key, int64(0), cache.NoExpiration)
	if _, err := m.cache.IncrementInt64(key, 1); err != nil {
		return fmt.Errorf("failed to advance view generation: %w", err)
	}

	prefix := "view:" + patientID.String() + ":"
	for k := range m.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			m.cache.Delete(k)
		}
	}

	return nil
}

func memoryKey(patientID uuid.UUID, gen int64, view string) string {
	return fmt.Sprintf("view:%s:%d:%s", patientID, gen, view)
}

func generationKey(patientID uuid.UUID) string {
	return "gen:" + patientID.String()
}
