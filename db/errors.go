/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	// ErrDatabaseURLNotSet is returned when no database URL was configured.
	ErrDatabaseURLNotSet = errors.New("database URL is not set")
	// ErrDatabaseNameNotSpecified is returned when the URL names no database.
	ErrDatabaseNameNotSpecified = errors.New("database name not specified in URL")
	// ErrDatabaseConnectionNotInitialized is returned before Init succeeds.
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	// ErrPatientNotFound is returned for unknown patient IDs.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrRequestNotFound is returned for unknown or foreign blood work requests.
	ErrRequestNotFound = errors.New("blood work request not found")
	// ErrEmptyPanel is returned when a panel has no readings to persist.
	ErrEmptyPanel = errors.New("panel has no readings")
	// ErrInvalidSessionConfig is returned for a malformed session store argument.
	ErrInvalidSessionConfig = errors.New("invalid PostgresSessionConfig")
)
