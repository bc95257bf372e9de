/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package schedule

import "errors"

var (
	// ErrMissingDate marks a record without the date its event needs.
	ErrMissingDate = errors.New("record has no date")
	// ErrInvertedInterval marks a draw that ends before it starts.
	ErrInvertedInterval = errors.New("draw ends before it starts")
)
