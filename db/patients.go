/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Patient is a portal patient.
type Patient struct {
	ID          uuid.UUID  `db:"id"`
	DisplayName string     `db:"display_name"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	CreatedAt   time.Time  `db:"created_at"`
}

// CreatePatient inserts a patient and returns it.
func CreatePatient(ctx context.Context, displayName string, dateOfBirth *time.Time) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	p := Patient{DisplayName: strings.TrimSpace(displayName), DateOfBirth: dateOfBirth}

	err := pool.QueryRow(ctx, `
		INSERT INTO patients (display_name, date_of_birth)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, p.DisplayName, p.DateOfBirth).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	return &p, nil
}

// GetPatient returns the patient with id, or ErrPatientNotFound.
func GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var p Patient

	err := pool.QueryRow(ctx, `
		SELECT id, display_name, date_of_birth, created_at
		FROM patients
		WHERE id = $1
	`, id).Scan(&p.ID, &p.DisplayName, &p.DateOfBirth, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return &p, nil
}

// ListPatients returns all patients ordered by name.
func ListPatients(ctx context.Context) ([]Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT id, display_name, date_of_birth, created_at
		FROM patients
		ORDER BY display_name, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient

	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.DateOfBirth, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}

		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patients: %w", err)
	}

	return patients, nil
}
