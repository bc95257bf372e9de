/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package schedule

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind is the calendar category of an event.
type Kind string

// Kind values.
const (
	KindRequested Kind = "requested"
	KindScheduled Kind = "scheduled"
	KindCompleted Kind = "completed"
)

// Request statuses.
const (
	RequestPending   = "pending"
	RequestScheduled = "scheduled"
	RequestCancelled = "cancelled"
)

// Draw statuses.
const (
	DrawBooked    = "booked"
	DrawCompleted = "completed"
	DrawCancelled = "cancelled"
)

// BloodWorkRequest is a patient's request for blood work on a date.
type BloodWorkRequest struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	RequestedDate *time.Time `json:"requested_date"`
	Status        string     `json:"status"`
	Reason        *string    `json:"reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ScheduledDraw is a booked draw appointment.
type ScheduledDraw struct {
	ID        uuid.UUID  `json:"id"`
	PatientID uuid.UUID  `json:"patient_id"`
	RequestID *uuid.UUID `json:"request_id,omitempty"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// CompletedResult is one ingested lab panel.
type CompletedResult struct {
	ID           uuid.UUID  `json:"id"`
	PatientID    uuid.UUID  `json:"patient_id"`
	CollectedOn  *time.Time `json:"collected_on"`
	SourceType   string     `json:"source_type"`
	LabSource    string     `json:"lab_source"`
	ReadingCount int        `json:"reading_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Event is a calendar projection of a source record.
type Event struct {
	ID      string
	Title   string
	Start   time.Time
	End     time.Time
	AllDay  bool
	Kind    Kind
	Status  string
	Payload any
}

const dayLayout = "2006-01-02"

// MarshalJSON renders all-day events as calendar dates and timed events as
// RFC 3339 timestamps.
func (e Event) MarshalJSON() ([]byte, error) {
	layout := time.RFC3339
	if e.AllDay {
		layout = dayLayout
	}

	return json.Marshal(struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Start   string `json:"start"`
		End     string `json:"end"`
		AllDay  bool   `json:"allDay"`
		Kind    Kind   `json:"kind"`
		Status  string `json:"status,omitempty"`
		Payload any    `json:"payload,omitempty"`
	}{
		ID:      e.ID,
		Title:   e.Title,
		Start:   e.Start.Format(layout),
		End:     e.End.Format(layout),
		AllDay:  e.AllDay,
		Kind:    e.Kind,
		Status:  e.Status,
		Payload: e.Payload,
	})
}

// Skip describes a record left out of the calendar.
type Skip struct {
	Kind   Kind
	ID     uuid.UUID
	Reason error
}
