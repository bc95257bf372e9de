/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"

	"github.com/humaidq/bloodwork/biomarker"
)

// SyncBiomarkerDefinitions upserts defs into biomarker_definitions. Rows not
// in defs are left alone so site-specific biomarkers survive restarts.
func SyncBiomarkerDefinitions(ctx context.Context, defs []biomarker.Definition) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	logger.Infof("Syncing %d biomarker definitions to database...", len(defs))

	query := `
		INSERT INTO biomarker_definitions (name_key, name, unit, category, reference_low, reference_high)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name_key)
		DO UPDATE SET
			name = EXCLUDED.name,
			unit = EXCLUDED.unit,
			category = EXCLUDED.category,
			reference_low = EXCLUDED.reference_low,
			reference_high = EXCLUDED.reference_high,
			updated_at = now()
	`

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	for _, def := range defs {
		_, err := tx.Exec(ctx, query,
			biomarker.NormalizeName(def.Name), def.Name, def.Unit, def.Category,
			def.ReferenceLow, def.ReferenceHigh,
		)
		if err != nil {
			return fmt.Errorf("failed to sync biomarker definition %s: %w", def.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit biomarker definitions: %w", err)
	}

	logger.Infof("Successfully synced %d biomarker definitions", len(defs))

	return nil
}

// ListBiomarkerDefinitions returns every stored definition.
func ListBiomarkerDefinitions(ctx context.Context) ([]biomarker.Definition, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT name, unit, category, reference_low, reference_high
		FROM biomarker_definitions
		ORDER BY category, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query biomarker definitions: %w", err)
	}
	defer rows.Close()

	var defs []biomarker.Definition

	for rows.Next() {
		var def biomarker.Definition
		if err := rows.Scan(&def.Name, &def.Unit, &def.Category, &def.ReferenceLow, &def.ReferenceHigh); err != nil {
			return nil, fmt.Errorf("failed to scan biomarker definition: %w", err)
		}

		defs = append(defs, def)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate biomarker definitions: %w", err)
	}

	return defs, nil
}

// LoadCatalog builds a catalog from the stored definitions.
func LoadCatalog(ctx context.Context) (*biomarker.Catalog, error) {
	defs, err := ListBiomarkerDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := biomarker.NewCatalog(defs)
	if err != nil {
		return nil, fmt.Errorf("stored biomarker definitions are invalid: %w", err)
	}

	return catalog, nil
}
