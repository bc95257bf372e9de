/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package biomarker

import "errors"

var (
	// ErrNotFound is returned when a biomarker name is not in the catalog.
	ErrNotFound = errors.New("biomarker not found")
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrSeriesMismatch is returned when two readings belong to different series.
	ErrSeriesMismatch = errors.New("readings belong to different series")
	// ErrOutOfOrder is returned when the previous reading is later than the current one.
	ErrOutOfOrder = errors.New("previous reading is later than current reading")

	errEmptyDefinitionName = errors.New("definition name is empty")
	errEmptyDefinitionUnit = errors.New("definition unit is empty")
	errInvertedRange       = errors.New("reference low is greater than reference high")
	errDuplicateDefinition = errors.New("duplicate biomarker definition")
)
