/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/bloodwork/schedule"
)

// CreateBloodWorkRequest stores a pending request for patientID.
func CreateBloodWorkRequest(ctx context.Context, patientID uuid.UUID, requestedDate *time.Time, reason *string) (*schedule.BloodWorkRequest, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	req := schedule.BloodWorkRequest{
		PatientID:     patientID,
		RequestedDate: requestedDate,
		Status:        schedule.RequestPending,
		Reason:        reason,
	}

	err := pool.QueryRow(ctx, `
		INSERT INTO blood_work_requests (patient_id, requested_date, status, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, patientID, requestedDate, req.Status, reason).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create blood work request: %w", mapPatientFK(err))
	}

	return &req, nil
}

// ListBloodWorkRequests returns a patient's requests, newest first.
func ListBloodWorkRequests(ctx context.Context, patientID uuid.UUID) ([]schedule.BloodWorkRequest, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT id, patient_id, requested_date, status, reason, created_at
		FROM blood_work_requests
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query blood work requests: %w", err)
	}
	defer rows.Close()

	var requests []schedule.BloodWorkRequest

	for rows.Next() {
		var req schedule.BloodWorkRequest
		if err := rows.Scan(&req.ID, &req.PatientID, &req.RequestedDate, &req.Status, &req.Reason, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blood work request: %w", err)
		}

		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blood work requests: %w", err)
	}

	return requests, nil
}

// DrawInput holds the fields needed to book a draw.
type DrawInput struct {
	PatientID uuid.UUID
	RequestID *uuid.UUID
	StartsAt  time.Time
	EndsAt    *time.Time
	Location  *string
}

// CreateScheduledDraw books a draw. When the draw fulfils a request, the
// request must belong to the same patient and is marked scheduled in the
// same transaction.
func CreateScheduledDraw(ctx context.Context, in DrawInput) (*schedule.ScheduledDraw, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if in.RequestID != nil {
		var id uuid.UUID

		err := tx.QueryRow(ctx, `
			UPDATE blood_work_requests
			SET status = $3
			WHERE id = $1 AND patient_id = $2
			RETURNING id
		`, *in.RequestID, in.PatientID, schedule.RequestScheduled).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update blood work request: %w", err)
		}
	}

	starts := in.StartsAt
	draw := schedule.ScheduledDraw{
		PatientID: in.PatientID,
		RequestID: in.RequestID,
		StartsAt:  &starts,
		EndsAt:    in.EndsAt,
		Location:  in.Location,
		Status:    schedule.DrawBooked,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO scheduled_draws (patient_id, request_id, starts_at, ends_at, location, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, in.PatientID, in.RequestID, in.StartsAt, in.EndsAt, in.Location, draw.Status).Scan(&draw.ID, &draw.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduled draw: %w", mapPatientFK(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit scheduled draw: %w", err)
	}

	return &draw, nil
}

// ListScheduledDraws returns a patient's draws ordered by start time.
func ListScheduledDraws(ctx context.Context, patientID uuid.UUID) ([]schedule.ScheduledDraw, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT id, patient_id, request_id, starts_at, ends_at, location, status, created_at
		FROM scheduled_draws
		WHERE patient_id = $1
		ORDER BY starts_at NULLS LAST
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled draws: %w", err)
	}
	defer rows.Close()

	var draws []schedule.ScheduledDraw

	for rows.Next() {
		var d schedule.ScheduledDraw
		err := rows.Scan(&d.ID, &d.PatientID, &d.RequestID, &d.StartsAt, &d.EndsAt, &d.Location, &d.Status, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled draw: %w", err)
		}

		draws = append(draws, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scheduled draws: %w", err)
	}

	return draws, nil
}
