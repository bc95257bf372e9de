/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package biomarker

// Classify flags value against an inclusive reference range. Either bound may
// be nil for an open-ended range; with both nil the result is FlagNone.
func Classify(value float64, low, high *float64) Flag {
	if low == nil && high == nil {
		return FlagNone
	}

	if low != nil && value < *low {
		return FlagLow
	}

	if high != nil && value > *high {
		return FlagHigh
	}

	return FlagNormal
}
