/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package biomarker

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day layout used at every boundary.
const DateLayout = "2006-01-02"

// SourceType records how a reading entered the system.
type SourceType string

// SourceType values.
const (
	SourcePDF    SourceType = "pdf"
	SourceManual SourceType = "manual"
)

// Valid reports whether s is a known source type.
func (s SourceType) Valid() bool {
	return s == SourcePDF || s == SourceManual
}

// LabSource identifies the laboratory that produced a reading.
type LabSource string

// LabSource values.
const (
	LabQuest   LabSource = "quest"
	LabLabCorp LabSource = "labcorp"
	LabOther   LabSource = "other"
)

// Valid reports whether l is a known lab source.
func (l LabSource) Valid() bool {
	switch l {
	case LabQuest, LabLabCorp, LabOther:
		return true
	}

	return false
}

// Label returns a human-readable lab name.
func (l LabSource) Label() string {
	switch l {
	case LabQuest:
		return "Quest Diagnostics"
	case LabLabCorp:
		return "Labcorp"
	default:
		return "Other lab"
	}
}

// ParseLabSource parses a lab source, defaulting unknown values to LabOther.
func ParseLabSource(value string) LabSource {
	l := LabSource(strings.ToLower(strings.TrimSpace(value)))
	if !l.Valid() {
		return LabOther
	}

	return l
}

// Flag classifies a reading against its reference range. The zero value
// means the reading has no reference data and cannot be flagged.
type Flag string

// Flag values.
const (
	FlagNone   Flag = ""
	FlagNormal Flag = "normal"
	FlagLow    Flag = "low"
	FlagHigh   Flag = "high"
)

// MarshalJSON encodes FlagNone as null.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f == FlagNone {
		return []byte("null"), nil
	}

	return json.Marshal(string(f))
}

// UnmarshalJSON decodes null as FlagNone.
func (f *Flag) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FlagNone
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*f = Flag(s)

	return nil
}

// Definition is the canonical reference data for one biomarker.
type Definition struct {
	Name          string   `json:"name"`
	Unit          string   `json:"unit"`
	Category      string   `json:"category,omitempty"`
	ReferenceLow  *float64 `json:"reference_low"`
	ReferenceHigh *float64 `json:"reference_high"`
}

// Reading is one dated measurement of a biomarker for a patient.
type Reading struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	PanelID       uuid.UUID  `json:"panel_id"`
	Seq           int64      `json:"seq"`
	BiomarkerName string     `json:"biomarker"`
	Value         float64    `json:"value"`
	Unit          string     `json:"unit"`
	Date          time.Time  `json:"-"`
	SourceType    SourceType `json:"source_type"`
	LabSource     LabSource  `json:"lab_source"`
	ReferenceLow  *float64   `json:"reference_low"`
	ReferenceHigh *float64   `json:"reference_high"`
	Flag          Flag       `json:"flag"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Unflaggable reports whether the reading had no reference data.
func (r Reading) Unflaggable() bool {
	return r.Flag == FlagNone
}

// DateString returns the calendar day of the reading.
func (r Reading) DateString() string {
	return r.Date.Format(DateLayout)
}

// MarshalJSON renders the date as a calendar-day string.
func (r Reading) MarshalJSON() ([]byte, error) {
	type alias Reading

	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{
		alias: alias(r),
		Date:  r.DateString(),
	})
}

// UnmarshalJSON reverses MarshalJSON.
func (r *Reading) UnmarshalJSON(data []byte) error {
	type alias Reading

	aux := struct {
		*alias
		Date string `json:"date"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Date == "" {
		r.Date = time.Time{}
		return nil
	}

	day, err := ParseDate(aux.Date)
	if err != nil {
		return err
	}

	r.Date = day

	return nil
}

// CalendarDay truncates t to midnight UTC of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}

	return t, nil
}

// NormalizeName returns the catalog key for a biomarker name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
