/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"errors"
	"fmt"

	"github.com/humaidq/bloodwork/biomarker"
	"github.com/humaidq/bloodwork/db"
	"github.com/humaidq/bloodwork/logging"
	"github.com/humaidq/bloodwork/metrics"
	"github.com/humaidq/bloodwork/viewcache"
)

var ingestLogger = logging.Logger(logging.SourceIngest)

var insertReadingsFn = db.InsertReadings

// Ingestor runs the normalize, persist and invalidate pipeline shared by the
// manual form, the extracted-rows API and the CSV command.
type Ingestor struct {
	Normalizer *biomarker.Normalizer
	Cache      viewcache.Store
	Metrics    *metrics.PortalMetrics
}

// Ingest validates and stores one panel. A *biomarker.ValidationError means
// nothing was written.
func (in *Ingestor) Ingest(ctx context.Context, panel biomarker.Panel) (*db.InsertedPanel, error) {
	readings, err := in.Normalizer.Normalize(panel)
	if err != nil {
		in.Metrics.ObservePanel(string(panel.SourceType), "rejected")
		ingestLogger.Info("Panel rejected", "patient_id", panel.PatientID, "source_type", panel.SourceType, "error", err)

		return nil, err
	}

	inserted, err := insertReadingsFn(ctx, panel, readings)
	if err != nil {
		in.Metrics.ObservePanel(string(panel.SourceType), "failed")

		return nil, fmt.Errorf("failed to store panel: %w", err)
	}

	in.Metrics.ObservePanel(string(panel.SourceType), "accepted")
	for _, r := range inserted.Readings {
		in.Metrics.ObserveReading(string(r.SourceType), string(r.Flag))
	}

	if in.Cache != nil {
		if err := in.Cache.Invalidate(ctx, panel.PatientID); err != nil {
			ingestLogger.Warn("Failed to invalidate views", "patient_id", panel.PatientID, "error", err)
		}
	}

	ingestLogger.Info("Panel stored",
		"patient_id", panel.PatientID,
		"panel_id", inserted.ID,
		"source_type", panel.SourceType,
		"lab_source", panel.LabSource,
		"readings", len(inserted.Readings),
	)

	return inserted, nil
}

func validationFields(err error) ([]biomarker.FieldError, bool) {
	var verr *biomarker.ValidationError
	if !errors.As(err, &verr) {
		return nil, false
	}

	return verr.Fields, true
}
