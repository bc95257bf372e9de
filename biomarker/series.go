/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package biomarker

import (
	"fmt"
	"sort"
)

// Series is the ordered history of one biomarker for one patient.
type Series struct {
	Name     string    `json:"biomarker"`
	Unit     string    `json:"unit"`
	Category string    `json:"category"`
	Readings []Reading `json:"readings"`
}

// Latest returns the most recent reading.
func (s Series) Latest() Reading {
	return s.Readings[len(s.Readings)-1]
}

// Previous returns the reading that precedes the latest, if any.
func (s Series) Previous() *Reading {
	return Previous(s.Readings, s.Latest())
}

// Trend compares the latest reading with its predecessor.
func (s Series) Trend() (*Trend, error) {
	return ComputeTrend(s.Latest(), s.Previous())
}

// Summary is the latest state of a series for presentation.
type Summary struct {
	Biomarker string   `json:"biomarker"`
	Unit      string   `json:"unit"`
	Category  string   `json:"category"`
	Count     int      `json:"count"`
	Latest    Reading  `json:"latest"`
	Previous  *Reading `json:"previous"`
	Trend     *Trend   `json:"trend"`
}

// Summary condenses the series.
func (s Series) Summary() (Summary, error) {
	trend, err := s.Trend()
	if err != nil {
		return Summary{}, fmt.Errorf("trend for %s: %w", s.Name, err)
	}

	return Summary{
		Biomarker: s.Name,
		Unit:      s.Unit,
		Category:  s.Category,
		Count:     len(s.Readings),
		Latest:    s.Latest(),
		Previous:  s.Previous(),
		Trend:     trend,
	}, nil
}

// SortReadings orders readings by date, breaking same-day ties by
// insertion order.
func SortReadings(readings []Reading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return before(readings[i], readings[j])
	})
}

// Previous returns the reading of current's series that immediately precedes
// it, or nil when current is the first. Readings of other biomarkers or
// patients in history are ignored.
func Previous(history []Reading, current Reading) *Reading {
	key := NormalizeName(current.BiomarkerName)

	var best *Reading

	for i := range history {
		r := history[i]
		if r.PatientID != current.PatientID || NormalizeName(r.BiomarkerName) != key {
			continue
		}
		if !before(r, current) {
			continue
		}
		if best == nil || before(*best, r) {
			best = &history[i]
		}
	}

	if best == nil {
		return nil
	}

	out := *best

	return &out
}

// BuildSeries groups readings into per-biomarker series ordered by name.
// The catalog, when given, supplies categories.
func BuildSeries(readings []Reading, catalog *Catalog) []Series {
	index := make(map[string]int)
	var series []Series

	for _, r := range readings {
		key := NormalizeName(r.BiomarkerName)

		i, ok := index[key]
		if !ok {
			i = len(series)
			index[key] = i
			series = append(series, Series{
				Name:     r.BiomarkerName,
				Unit:     r.Unit,
				Category: catalog.CategoryOf(r.BiomarkerName),
			})
		}

		series[i].Readings = append(series[i].Readings, r)
	}

	for i := range series {
		SortReadings(series[i].Readings)
		latest := series[i].Latest()
		series[i].Unit = latest.Unit
	}

	sort.SliceStable(series, func(i, j int) bool {
		if series[i].Category != series[j].Category {
			return series[i].Category < series[j].Category
		}
		return series[i].Name < series[j].Name
	})

	return series
}

// Summaries returns the summary of every series.
func Summaries(series []Series) ([]Summary, error) {
	out := make([]Summary, 0, len(series))
	for _, s := range series {
		summary, err := s.Summary()
		if err != nil {
			return nil, err
		}

		out = append(out, summary)
	}

	return out, nil
}
