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
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/humaidq/bloodwork/biomarker"
	"github.com/humaidq/bloodwork/schedule"
)

const foreignKeyViolation = "23503"

// InsertedPanel is a persisted lab panel with its readings.
type InsertedPanel struct {
	ID          uuid.UUID
	PatientID   uuid.UUID
	CollectedOn time.Time
	CreatedAt   time.Time
	Readings    []biomarker.Reading
}

// InsertReadings stores one panel and its normalized readings in a single
// transaction. The returned readings carry their assigned IDs and insertion
// sequence.
func InsertReadings(ctx context.Context, panel biomarker.Panel, readings []biomarker.Reading) (*InsertedPanel, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	if len(readings) == 0 {
		return nil, ErrEmptyPanel
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	out := InsertedPanel{
		PatientID:   panel.PatientID,
		CollectedOn: biomarker.CalendarDay(panel.CollectedOn),
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO lab_panels (patient_id, source_type, lab_source, collected_on)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, panel.PatientID, string(panel.SourceType), string(panel.LabSource), out.CollectedOn).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert lab panel: %w", mapPatientFK(err))
	}

	query := `
		INSERT INTO readings (panel_id, patient_id, biomarker_name, biomarker_key, value, unit, collected_on,
			source_type, lab_source, reference_low, reference_high, flag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, seq, created_at
	`

	for _, r := range readings {
		r.PanelID = out.ID
		r.PatientID = panel.PatientID

		err := tx.QueryRow(ctx, query,
			r.PanelID, r.PatientID, r.BiomarkerName, biomarker.NormalizeName(r.BiomarkerName),
			r.Value, r.Unit, biomarker.CalendarDay(r.Date),
			string(r.SourceType), string(r.LabSource),
			r.ReferenceLow, r.ReferenceHigh, flagArg(r.Flag),
		).Scan(&r.ID, &r.Seq, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert reading %s: %w", r.BiomarkerName, mapPatientFK(err))
		}

		out.Readings = append(out.Readings, r)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit lab panel: %w", err)
	}

	return &out, nil
}

// ListReadings returns a patient's readings in series order. An empty
// biomarkerName lists every biomarker.
func ListReadings(ctx context.Context, patientID uuid.UUID, biomarkerName string) ([]biomarker.Reading, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, seq, panel_id, patient_id, biomarker_name, value, unit, collected_on,
			source_type, lab_source, reference_low, reference_high, flag, created_at
		FROM readings
		WHERE patient_id = $1 AND ($2 = '' OR biomarker_key = $2)
		ORDER BY collected_on, seq
	`

	rows, err := pool.Query(ctx, query, patientID, biomarker.NormalizeName(biomarkerName))
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []biomarker.Reading

	for rows.Next() {
		var (
			r          biomarker.Reading
			sourceType string
			labSource  string
			flag       *string
		)

		err := rows.Scan(
			&r.ID, &r.Seq, &r.PanelID, &r.PatientID, &r.BiomarkerName, &r.Value, &r.Unit, &r.Date,
			&sourceType, &labSource, &r.ReferenceLow, &r.ReferenceHigh, &flag, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}

		r.Date = biomarker.CalendarDay(r.Date)
		r.SourceType = biomarker.SourceType(sourceType)
		r.LabSource = biomarker.LabSource(labSource)
		if flag != nil {
			r.Flag = biomarker.Flag(*flag)
		}

		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// ListCompletedResults returns one completed result per stored lab panel.
func ListCompletedResults(ctx context.Context, patientID uuid.UUID) ([]schedule.CompletedResult, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT p.id, p.patient_id, p.collected_on, p.source_type, p.lab_source, COUNT(r.id), p.created_at
		FROM lab_panels p
		LEFT JOIN readings r ON r.panel_id = p.id
		WHERE p.patient_id = $1
		GROUP BY p.id
		ORDER BY p.collected_on
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lab panels: %w", err)
	}
	defer rows.Close()

	var results []schedule.CompletedResult

	for rows.Next() {
		var res schedule.CompletedResult
		err := rows.Scan(&res.ID, &res.PatientID, &res.CollectedOn, &res.SourceType, &res.LabSource,
			&res.ReadingCount, &res.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lab panel: %w", err)
		}

		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lab panels: %w", err)
	}

	return results, nil
}

func flagArg(f biomarker.Flag) *string {
	if f == biomarker.FlagNone {
		return nil
	}

	s := string(f)

	return &s
}

func mapPatientFK(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return ErrPatientNotFound
	}

	return err
}
