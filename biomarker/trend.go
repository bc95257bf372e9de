/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package biomarker

import (
	"fmt"
	"math"
)

// Direction is the sign of change between two readings.
type Direction string

// Direction values.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Trend is the change from a previous reading to the current one.
type Trend struct {
	Direction Direction `json:"direction"`
	Percent   float64   `json:"percent"`
}

// Arrow returns a compact glyph for the direction.
func (t *Trend) Arrow() string {
	if t == nil {
		return ""
	}

	switch t.Direction {
	case DirectionUp:
		return "▲"
	case DirectionDown:
		return "▼"
	default:
		return "▶"
	}
}

// Delta computes the trend between two values. It returns nil when the
// previous value is zero, since a percent change from zero is undefined.
func Delta(current, previous float64) *Trend {
	if previous == 0 {
		return nil
	}

	t := &Trend{
		Direction: DirectionFlat,
		Percent:   math.Abs(current-previous) / previous * 100,
	}

	switch {
	case current > previous:
		t.Direction = DirectionUp
	case current < previous:
		t.Direction = DirectionDown
	}

	return t
}

// ComputeTrend compares current with previous. A nil previous yields a nil
// trend. Both readings must be of the same patient and biomarker, and
// previous must not come after current in (date, insertion) order.
func ComputeTrend(current Reading, previous *Reading) (*Trend, error) {
	if previous == nil {
		return nil, nil //nolint:nilnil // The first reading of a series has no trend.
	}

	if previous.PatientID != current.PatientID ||
		NormalizeName(previous.BiomarkerName) != NormalizeName(current.BiomarkerName) {
		return nil, fmt.Errorf("%s vs %s: %w", current.BiomarkerName, previous.BiomarkerName, ErrSeriesMismatch)
	}

	if before(current, *previous) {
		return nil, fmt.Errorf("%s on %s: %w", current.BiomarkerName, previous.DateString(), ErrOutOfOrder)
	}

	return Delta(current.Value, previous.Value), nil
}

// before reports whether a sorts strictly before b in series order.
// Same-day readings fall back to insertion order.
func before(a, b Reading) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}

	return a.Seq < b.Seq
}
