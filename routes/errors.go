/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errMissingPatientHeader = errors.New("missing patient header")
	errInvalidPatientHeader = errors.New("invalid patient header")
	errInvalidRole          = errors.New("invalid role")
	errMissingDate          = errors.New("missing date")
	errInvalidTime          = errors.New("invalid time")
	errInvalidDuration      = errors.New("invalid duration")
	errInvalidRequestID     = errors.New("invalid request id")
)
