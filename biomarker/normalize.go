/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package biomarker

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RawRow is one unvalidated biomarker row from manual entry or PDF extraction.
type RawRow struct {
	Name          string   `json:"name" validate:"required"`
	Value         float64  `json:"value" validate:"gt=0"`
	Unit          string   `json:"unit" validate:"required"`
	ReferenceLow  *float64 `json:"reference_low,omitempty"`
	ReferenceHigh *float64 `json:"reference_high,omitempty"`
}

// Panel is a batch of rows collected together for one patient.
type Panel struct {
	PatientID   uuid.UUID  `json:"patient_id"`
	SourceType  SourceType `json:"source_type"`
	LabSource   LabSource  `json:"lab_source"`
	CollectedOn time.Time  `json:"collected_on"`
	Rows        []RawRow   `json:"rows"`
}

// FieldError describes one rejected field. Row is -1 for panel-level fields.
type FieldError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Row < 0 {
		return e.Field + ": " + e.Message
	}

	return fmt.Sprintf("row %d %s: %s", e.Row+1, e.Field, e.Message)
}

// ValidationError rejects an entire panel.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func (e *ValidationError) add(row int, field, message string) {
	e.Fields = append(e.Fields, FieldError{Row: row, Field: field, Message: message})
}

var fieldMessages = map[string]string{
	"required": "is required",
	"gt":       "must be greater than zero",
}

// Normalizer turns raw panels into flagged readings.
type Normalizer struct {
	catalog  *Catalog
	validate *validator.Validate
}

// NewNormalizer returns a normalizer backed by catalog.
func NewNormalizer(catalog *Catalog) *Normalizer {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Normalizer{catalog: catalog, validate: v}
}

// Normalize validates every row of p and returns one Reading per row. Any
// invalid field rejects the whole panel with a *ValidationError.
func (n *Normalizer) Normalize(p Panel) ([]Reading, error) {
	verr := &ValidationError{}

	if p.PatientID == uuid.Nil {
		verr.add(-1, "patient_id", "is required")
	}
	if !p.SourceType.Valid() {
		verr.add(-1, "source_type", "must be pdf or manual")
	}
	if !p.LabSource.Valid() {
		verr.add(-1, "lab_source", "must be quest, labcorp or other")
	}
	if p.CollectedOn.IsZero() {
		verr.add(-1, "date", "is required")
	}
	if len(p.Rows) == 0 {
		verr.add(-1, "rows", "at least one biomarker is required")
	}

	readings := make([]Reading, 0, len(p.Rows))
	day := CalendarDay(p.CollectedOn)

	for i, raw := range p.Rows {
		row := RawRow{
			Name:          strings.TrimSpace(raw.Name),
			Value:         raw.Value,
			Unit:          strings.TrimSpace(raw.Unit),
			ReferenceLow:  raw.ReferenceLow,
			ReferenceHigh: raw.ReferenceHigh,
		}

		before := len(verr.Fields)
		n.checkRow(i, row, verr)
		if len(verr.Fields) > before {
			continue
		}

		reading, ok := n.toReading(i, row, verr)
		if !ok {
			continue
		}

		reading.PatientID = p.PatientID
		reading.Date = day
		reading.SourceType = p.SourceType
		reading.LabSource = p.LabSource
		readings = append(readings, reading)
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	return readings, nil
}

func (n *Normalizer) checkRow(i int, row RawRow, verr *ValidationError) {
	if err := n.validate.Struct(row); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.add(i, "row", err.Error())
			return
		}

		for _, fe := range fieldErrs {
			msg, ok := fieldMessages[fe.Tag()]
			if !ok {
				msg = "is invalid"
			}
			verr.add(i, fe.Field(), msg)
		}
	}

	if math.IsNaN(row.Value) || math.IsInf(row.Value, 0) {
		verr.add(i, "value", "must be a finite number")
	}

	if !finite(row.ReferenceLow) {
		verr.add(i, "reference_low", "must be a finite number")
	}
	if !finite(row.ReferenceHigh) {
		verr.add(i, "reference_high", "must be a finite number")
	}

	if row.ReferenceLow != nil && row.ReferenceHigh != nil && *row.ReferenceLow > *row.ReferenceHigh {
		verr.add(i, "reference_low", "must not exceed reference_high")
	}
}

func (n *Normalizer) toReading(i int, row RawRow, verr *ValidationError) (Reading, bool) {
	reading := Reading{
		BiomarkerName: row.Name,
		Value:         row.Value,
		Unit:          row.Unit,
		ReferenceLow:  row.ReferenceLow,
		ReferenceHigh: row.ReferenceHigh,
	}

	def, err := n.catalog.Lookup(row.Name)
	switch {
	case err == nil:
		if row.Unit != def.Unit {
			verr.add(i, "unit", fmt.Sprintf("%s must be reported in %s, got %s", def.Name, def.Unit, row.Unit))
			return Reading{}, false
		}

		reading.BiomarkerName = def.Name
		if row.ReferenceLow == nil && row.ReferenceHigh == nil {
			reading.ReferenceLow = clone(def.ReferenceLow)
			reading.ReferenceHigh = clone(def.ReferenceHigh)
		}
	case !errors.Is(err, ErrNotFound):
		verr.add(i, "name", err.Error())
		return Reading{}, false
	}

	reading.Flag = Classify(reading.Value, reading.ReferenceLow, reading.ReferenceHigh)

	return reading, true
}

func clone(f *float64) *float64 {
	if f == nil {
		return nil
	}

	v := *f

	return &v
}

func finite(f *float64) bool {
	return f == nil || (!math.IsNaN(*f) && !math.IsInf(*f, 0))
}
