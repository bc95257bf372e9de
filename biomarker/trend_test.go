// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package biomarker

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

var trendPatient = uuid.MustParse("22222222-2222-2222-2222-222222222222")

func reading(name string, value float64, day int, seq int64) Reading {
	return Reading{
		PatientID:     trendPatient,
		BiomarkerName: name,
		Value:         value,
		Unit:          "mg/dL",
		Date:          time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Seq:           seq,
	}
}

func assertFloatClose(t *testing.T, got, want float64) {
	t.Helper()

	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestComputeTrendGlucoseRise(t *testing.T) {
	t.Parallel()

	prev := reading("Glucose", 100, 1, 1)
	cur := reading("Glucose", 110, 20, 2)

	trend, err := ComputeTrend(cur, &prev)
	if err != nil {
		t.Fatalf("ComputeTrend failed: %v", err)
	}

	if trend == nil || trend.Direction != DirectionUp {
		t.Fatalf("expected up trend, got %#v", trend)
	}
	assertFloatClose(t, trend.Percent, 10)
}

func TestComputeTrendAbsentBaseline(t *testing.T) {
	t.Parallel()

	cur := reading("Glucose", 110, 20, 2)

	trend, err := ComputeTrend(cur, nil)
	if err != nil || trend != nil {
		t.Fatalf("expected nil trend without previous, got %#v, %v", trend, err)
	}

	zero := reading("Glucose", 0, 1, 1)

	trend, err = ComputeTrend(cur, &zero)
	if err != nil || trend != nil {
		t.Fatalf("expected nil trend from zero baseline, got %#v, %v", trend, err)
	}
}

func TestComputeTrendFlat(t *testing.T) {
	t.Parallel()

	prev := reading("Glucose", 90, 1, 1)
	cur := reading("Glucose", 90, 2, 2)

	trend, err := ComputeTrend(cur, &prev)
	if err != nil {
		t.Fatalf("ComputeTrend failed: %v", err)
	}

	if trend.Direction != DirectionFlat {
		t.Fatalf("expected flat, got %q", trend.Direction)
	}
	assertFloatClose(t, trend.Percent, 0)
}

func TestDeltaDirectionIsAntisymmetric(t *testing.T) {
	t.Parallel()

	pairs := [][2]float64{{100, 110}, {5.2, 4.8}, {0.3, 12}, {250, 249.99}}

	for _, p := range pairs {
		forward := Delta(p[1], p[0])
		backward := Delta(p[0], p[1])

		if forward == nil || backward == nil {
			t.Fatalf("unexpected nil trend for %v", p)
		}

		switch forward.Direction {
		case DirectionUp:
			if backward.Direction != DirectionDown {
				t.Fatalf("expected down when swapped for %v, got %q", p, backward.Direction)
			}
		case DirectionDown:
			if backward.Direction != DirectionUp {
				t.Fatalf("expected up when swapped for %v, got %q", p, backward.Direction)
			}
		default:
			t.Fatalf("unexpected direction %q for %v", forward.Direction, p)
		}

		if forward.Percent <= 0 || backward.Percent <= 0 {
			t.Fatalf("expected positive magnitudes for %v", p)
		}
	}
}

func TestComputeTrendPreconditions(t *testing.T) {
	t.Parallel()

	cur := reading("Glucose", 110, 10, 5)

	other := reading("LDL Cholesterol", 100, 1, 1)
	if _, err := ComputeTrend(cur, &other); !errors.Is(err, ErrSeriesMismatch) {
		t.Fatalf("expected ErrSeriesMismatch, got %v", err)
	}

	otherPatient := reading("Glucose", 100, 1, 1)
	otherPatient.PatientID = uuid.New()
	if _, err := ComputeTrend(cur, &otherPatient); !errors.Is(err, ErrSeriesMismatch) {
		t.Fatalf("expected ErrSeriesMismatch for other patient, got %v", err)
	}

	later := reading("Glucose", 100, 11, 6)
	if _, err := ComputeTrend(cur, &later); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
}

func TestComputeTrendSameDayUsesInsertionOrder(t *testing.T) {
	t.Parallel()

	first := reading("glucose", 100, 5, 7)
	second := reading("Glucose", 120, 5, 8)

	trend, err := ComputeTrend(second, &first)
	if err != nil {
		t.Fatalf("ComputeTrend failed: %v", err)
	}
	assertFloatClose(t, trend.Percent, 20)

	if _, err := ComputeTrend(first, &second); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder when the later insert is the baseline, got %v", err)
	}
}

func TestTrendArrow(t *testing.T) {
	t.Parallel()

	var none *Trend
	if none.Arrow() != "" {
		t.Fatalf("expected empty arrow for nil trend")
	}

	if (&Trend{Direction: DirectionUp}).Arrow() != "▲" {
		t.Fatalf("unexpected up arrow")
	}
}
