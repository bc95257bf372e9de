/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultDrawDuration is used for draws booked without an end time.
const DefaultDrawDuration = 30 * time.Minute

// Aggregator projects requests, draws and completed results onto a calendar.
// The zero value renders in UTC with the default draw duration.
type Aggregator struct {
	Location     *time.Location
	DrawDuration time.Duration
	OnSkip       func(Skip)
}

// Aggregate returns one event per well-formed source record. Malformed
// records are skipped and reported through OnSkip. Events are not
// de-duplicated across kinds and their order is unspecified.
func (a *Aggregator) Aggregate(requests []BloodWorkRequest, draws []ScheduledDraw, results []CompletedResult) []Event {
	events := make([]Event, 0, len(requests)+len(draws)+len(results))

	for _, req := range requests {
		if req.RequestedDate == nil || req.RequestedDate.IsZero() {
			a.skip(KindRequested, req.ID, ErrMissingDate)
			continue
		}

		events = append(events, a.allDay(KindRequested, req.ID, *req.RequestedDate, Event{
			Title:   "Blood work requested",
			Status:  req.Status,
			Payload: req,
		}))
	}

	for _, draw := range draws {
		event, err := a.drawEvent(draw)
		if err != nil {
			a.skip(KindScheduled, draw.ID, err)
			continue
		}

		events = append(events, event)
	}

	for _, res := range results {
		if res.CollectedOn == nil || res.CollectedOn.IsZero() {
			a.skip(KindCompleted, res.ID, ErrMissingDate)
			continue
		}

		events = append(events, a.allDay(KindCompleted, res.ID, *res.CollectedOn, Event{
			Title:   completedTitle(res),
			Payload: res,
		}))
	}

	return events
}

func (a *Aggregator) drawEvent(draw ScheduledDraw) (Event, error) {
	if draw.StartsAt == nil || draw.StartsAt.IsZero() {
		return Event{}, ErrMissingDate
	}

	start := draw.StartsAt.In(a.location())

	end := start.Add(a.drawDuration())
	if draw.EndsAt != nil && !draw.EndsAt.IsZero() {
		end = draw.EndsAt.In(a.location())
	}

	if end.Before(start) {
		return Event{}, ErrInvertedInterval
	}

	title := "Blood draw"
	if draw.Location != nil && *draw.Location != "" {
		title = "Blood draw at " + *draw.Location
	}

	return Event{
		ID:      eventID(KindScheduled, draw.ID),
		Title:   title,
		Start:   start,
		End:     end,
		Kind:    KindScheduled,
		Status:  draw.Status,
		Payload: draw,
	}, nil
}

// allDay fills the timing fields of an all-day event on day's calendar date.
// The end is the following midnight, exclusive.
func (a *Aggregator) allDay(kind Kind, id uuid.UUID, day time.Time, e Event) Event {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, a.location())

	e.ID = eventID(kind, id)
	e.Kind = kind
	e.AllDay = true
	e.Start = start
	e.End = start.AddDate(0, 0, 1)

	return e
}

func (a *Aggregator) skip(kind Kind, id uuid.UUID, reason error) {
	if a.OnSkip == nil {
		return
	}

	a.OnSkip(Skip{Kind: kind, ID: id, Reason: reason})
}

func (a *Aggregator) location() *time.Location {
	if a.Location == nil {
		return time.UTC
	}

	return a.Location
}

func (a *Aggregator) drawDuration() time.Duration {
	if a.DrawDuration <= 0 {
		return DefaultDrawDuration
	}

	return a.DrawDuration
}

func eventID(kind Kind, id uuid.UUID) string {
	return string(kind) + ":" + id.String()
}

func completedTitle(res CompletedResult) string {
	if res.ReadingCount == 1 {
		return "Lab results (1 biomarker)"
	}

	return fmt.Sprintf("Lab results (%d biomarkers)", res.ReadingCount)
}
