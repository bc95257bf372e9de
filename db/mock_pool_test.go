// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

// useMockPool swaps the package pool for a pgxmock pool for the duration of
// the test. Tests using it must not run in parallel.
func useMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	prev := pool
	pool = mock

	t.Cleanup(func() {
		pool = prev
		mock.Close()
	})

	return mock
}

func testContext() context.Context {
	return context.Background()
}

func floatPtr(f float64) *float64 {
	return &f
}
