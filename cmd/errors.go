/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired   = errors.New("database-url is required (set via --database-url or DATABASE_URL env var)")
	errMigrationNameRequired = errors.New("migration name is required")
	errCSRFSecretRequired    = errors.New("csrf-secret is required (set via --csrf-secret or CSRF_SECRET env var)")
	errPatientRequired       = errors.New("patient is required")
	errCSVPathRequired       = errors.New("a CSV file path is required")
	errCSVHeader             = errors.New("CSV header must include name, value and unit")
	errDisplayNameRequired   = errors.New("display name is required")
)
