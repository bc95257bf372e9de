// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"testing"
	"time"

	"github.com/flamego/session"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionStore(t *testing.T, args ...interface{}) *PostgresSessionStore {
	t.Helper()

	store, err := PostgresSessionIniter()(testContext(), args...)
	require.NoError(t, err)

	pgStore, ok := store.(*PostgresSessionStore)
	require.True(t, ok, "expected PostgresSessionStore")

	return pgStore
}

func TestPostgresSessionIniterDefaults(t *testing.T) {
	store := newTestSessionStore(t)

	assert.Equal(t, "portal_sessions", store.config.TableName)
	assert.Equal(t, DefaultSessionLifetime, store.config.Lifetime)
	assert.NotNil(t, store.encoder)
	assert.NotNil(t, store.decoder)
}

func TestPostgresSessionIniterInvalidConfig(t *testing.T) {
	_, err := PostgresSessionIniter()(testContext(), "invalid")
	require.ErrorIs(t, err, ErrInvalidSessionConfig)
}

func TestPostgresSessionReadDecodesData(t *testing.T) {
	mock := useMockPool(t)
	store := newTestSessionStore(t, PostgresSessionConfig{Lifetime: time.Hour})

	data, err := session.GobEncoder(session.Data{"patient_id": "abc", "role": "patient"})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data FROM portal_sessions").
		WithArgs("sid-1").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

	sess, err := store.Read(testContext(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.Get("patient_id"))
	assert.Equal(t, "patient", sess.Get("role"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionReadMissingCreatesEmpty(t *testing.T) {
	mock := useMockPool(t)
	store := newTestSessionStore(t)

	mock.ExpectQuery("SELECT data FROM portal_sessions").
		WithArgs("sid-2").
		WillReturnRows(pgxmock.NewRows([]string{"data"}))

	sess, err := store.Read(testContext(), "sid-2")
	require.NoError(t, err)
	assert.Equal(t, "sid-2", sess.ID())
	assert.Nil(t, sess.Get("patient_id"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionDestroyAndGC(t *testing.T) {
	mock := useMockPool(t)
	store := newTestSessionStore(t)

	mock.ExpectExec("DELETE FROM portal_sessions WHERE id").
		WithArgs("sid-3").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM portal_sessions WHERE expires_at").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	require.NoError(t, store.Destroy(testContext(), "sid-3"))
	require.NoError(t, store.GC(testContext()))
	require.NoError(t, mock.ExpectationsWereMet())
}
