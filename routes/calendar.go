/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/humaidq/bloodwork/biomarker"
	"github.com/humaidq/bloodwork/db"
	"github.com/humaidq/bloodwork/logging"
	"github.com/humaidq/bloodwork/metrics"
	"github.com/humaidq/bloodwork/schedule"
	"github.com/humaidq/bloodwork/viewcache"
)

// datetimeLocalLayout is the value format of an HTML datetime-local input.
const datetimeLocalLayout = "2006-01-02T15:04"

var scheduleLogger = logging.Logger(logging.SourceSchedule)

var (
	listBloodWorkRequestsFn  = db.ListBloodWorkRequests
	listScheduledDrawsFn     = db.ListScheduledDraws
	listCompletedResultsFn   = db.ListCompletedResults
	createBloodWorkRequestFn = db.CreateBloodWorkRequest
	createScheduledDrawFn    = db.CreateScheduledDraw
)

// CalendarService builds a patient's calendar from requests, draws and
// completed results.
type CalendarService struct {
	Aggregator *schedule.Aggregator
	Cache      viewcache.Store
	Metrics    *metrics.PortalMetrics
}

type calendarSources struct {
	requests []schedule.BloodWorkRequest
	draws    []schedule.ScheduledDraw
	results  []schedule.CompletedResult
}

func fetchCalendarSources(ctx context.Context, patientID uuid.UUID) (*calendarSources, error) {
	var src calendarSources

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		src.requests, err = listBloodWorkRequestsFn(gctx, patientID)
		return err
	})
	g.Go(func() error {
		var err error
		src.draws, err = listScheduledDrawsFn(gctx, patientID)
		return err
	})
	g.Go(func() error {
		var err error
		src.results, err = listCompletedResultsFn(gctx, patientID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &src, nil
}

// Events returns the patient's calendar events ordered by start time.
func (cs *CalendarService) Events(ctx context.Context, patientID uuid.UUID) ([]schedule.Event, error) {
	src, err := fetchCalendarSources(ctx, patientID)
	if err != nil {
		return nil, err
	}

	return cs.aggregate(patientID, src), nil
}

func (cs *CalendarService) aggregate(patientID uuid.UUID, src *calendarSources) []schedule.Event {
	agg := schedule.Aggregator{}
	if cs.Aggregator != nil {
		agg = *cs.Aggregator
	}

	next := agg.OnSkip
	agg.OnSkip = func(s schedule.Skip) {
		scheduleLogger.Warn("Skipped calendar record",
			"patient_id", patientID,
			"kind", s.Kind,
			"id", s.ID,
			"reason", s.Reason,
		)
		cs.Metrics.ObserveCalendarSkip(string(s.Kind))

		if next != nil {
			next(s)
		}
	}

	events := agg.Aggregate(src.requests, src.draws, src.results)

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})

	for _, e := range events {
		cs.Metrics.ObserveCalendarEvent(string(e.Kind))
	}

	return events
}

// EventsJSON returns the serialized events, memoized per patient.
func (cs *CalendarService) EventsJSON(ctx context.Context, patientID uuid.UUID) ([]byte, error) {
	return viewcache.Fetch(ctx, cs.Cache, cs.Metrics, patientID, viewcache.ViewCalendar, func(ctx context.Context) ([]byte, error) {
		events, err := cs.Events(ctx, patientID)
		if err != nil {
			return nil, err
		}

		if events == nil {
			events = []schedule.Event{}
		}

		return json.Marshal(map[string]interface{}{"events": events})
	})
}

func (cs *CalendarService) invalidate(ctx context.Context, patientID uuid.UUID) {
	if cs.Cache == nil {
		return
	}

	if err := cs.Cache.Invalidate(ctx, patientID); err != nil {
		scheduleLogger.Warn("Failed to invalidate views", "patient_id", patientID, "error", err)
	}
}

func (cs *CalendarService) location() *time.Location {
	if cs.Aggregator == nil || cs.Aggregator.Location == nil {
		return time.UTC
	}

	return cs.Aggregator.Location
}

// CalendarJSON returns the patient's calendar events.
func CalendarJSON(c flamego.Context, actor *Actor, cal *CalendarService) {
	body, err := cal.EventsJSON(c.Request().Context(), actor.PatientID)
	if err != nil {
		requestLogger.Error("Failed to load calendar", "patient_id", actor.PatientID, "error", err)
		writeJSONError(c, http.StatusInternalServerError, "failed to load calendar")

		return
	}

	writeRawJSON(c, http.StatusOK, body)
}

// CalendarPage renders the patient's calendar as an agenda.
func CalendarPage(c flamego.Context, t template.Template, data template.Data, actor *Actor, cal *CalendarService) {
	data["IsCalendar"] = true
	data["Timezone"] = cal.location().String()

	ctx := c.Request().Context()

	src, err := fetchCalendarSources(ctx, actor.PatientID)
	if err != nil {
		requestLogger.Error("Failed to load calendar", "patient_id", actor.PatientID, "error", err)
		data["Error"] = "Failed to load calendar"
		t.HTML(http.StatusOK, "calendar")

		return
	}

	data["Events"] = cal.aggregate(actor.PatientID, src)

	var pending []schedule.BloodWorkRequest
	for _, req := range src.requests {
		if req.Status == schedule.RequestPending {
			pending = append(pending, req)
		}
	}

	data["PendingRequests"] = pending

	t.HTML(http.StatusOK, "calendar")
}

// CreateBloodWorkRequest records a patient's request for blood work.
func CreateBloodWorkRequest(c flamego.Context, s session.Session, actor *Actor, cal *CalendarService) {
	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/calendar", http.StatusSeeOther)

		return
	}

	rawDate := strings.TrimSpace(c.Request().Form.Get("requested_date"))
	if rawDate == "" {
		SetErrorFlash(s, "Requested date is required")
		c.Redirect("/calendar", http.StatusSeeOther)

		return
	}

	day, err := biomarker.ParseDate(rawDate)
	if err != nil {
		SetErrorFlash(s, "Requested date must be YYYY-MM-DD")
		c.Redirect("/calendar", http.StatusSeeOther)

		return
	}

	var reason *string
	if r := strings.TrimSpace(c.Request().Form.Get("reason")); r != "" {
		reason = &r
	}

	ctx := c.Request().Context()

	req, err := createBloodWorkRequestFn(ctx, actor.PatientID, &day, reason)
	if err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			SetErrorFlash(s, "Patient record not found")
		} else {
			requestLogger.Error("Failed to create blood work request", "patient_id", actor.PatientID, "error", err)
			SetErrorFlash(s, "Failed to submit request")
		}

		c.Redirect("/calendar", http.StatusSeeOther)

		return
	}

	cal.invalidate(ctx, actor.PatientID)
	scheduleLogger.Info("Blood work requested", "patient_id", actor.PatientID, "request_id", req.ID)

	SetSuccessFlash(s, "Blood work request submitted")
	c.Redirect("/calendar", http.StatusSeeOther)
}

// ScheduleDraw books a blood draw, optionally fulfilling a pending request.
func ScheduleDraw(c flamego.Context, s session.Session, actor *Actor, cal *CalendarService) {
	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/calendar", http.StatusSeeOther)

		return
	}

	in, err := parseDrawForm(c.Request().Form.Get, cal.location())
	if err != nil {
		SetErrorFlash(s, drawFormMessage(err))
		c.Redirect("/calendar", http.StatusSeeOther)

		return
	}

	in.PatientID = actor.PatientID

	ctx := c.Request().Context()

	draw, err := createScheduledDrawFn(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrRequestNotFound):
			SetErrorFlash(s, "Blood work request not found")
		case errors.Is(err, db.ErrPatientNotFound):
			SetErrorFlash(s, "Patient record not found")
		default:
			requestLogger.Error("Failed to schedule draw", "patient_id", actor.PatientID, "error", err)
			SetErrorFlash(s, "Failed to schedule draw")
		}

		c.Redirect("/calendar", http.StatusSeeOther)

		return
	}

	cal.invalidate(ctx, actor.PatientID)
	scheduleLogger.Info("Draw scheduled", "patient_id", actor.PatientID, "draw_id", draw.ID)

	SetSuccessFlash(s, "Draw scheduled for "+draw.StartsAt.In(cal.location()).Format("Jan 2, 2006 15:04"))
	c.Redirect("/calendar", http.StatusSeeOther)
}

func parseDrawForm(get func(string) string, loc *time.Location) (db.DrawInput, error) {
	var in db.DrawInput

	raw := strings.TrimSpace(get("starts_at"))
	if raw == "" {
		return in, errMissingDate
	}

	start, err := time.ParseInLocation(datetimeLocalLayout, raw, loc)
	if err != nil {
		return in, errInvalidTime
	}

	in.StartsAt = start

	if rawMinutes := strings.TrimSpace(get("duration_minutes")); rawMinutes != "" {
		minutes, err := strconv.Atoi(rawMinutes)
		if err != nil || minutes <= 0 {
			return in, errInvalidDuration
		}

		end := start.Add(time.Duration(minutes) * time.Minute)
		in.EndsAt = &end
	}

	if place := strings.TrimSpace(get("location")); place != "" {
		in.Location = &place
	}

	if rawID := strings.TrimSpace(get("request_id")); rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return in, errInvalidRequestID
		}

		in.RequestID = &id
	}

	return in, nil
}

func drawFormMessage(err error) string {
	switch {
	case errors.Is(err, errMissingDate):
		return "Draw time is required"
	case errors.Is(err, errInvalidTime):
		return "Draw time is invalid"
	case errors.Is(err, errInvalidDuration):
		return "Duration must be a positive number of minutes"
	case errors.Is(err, errInvalidRequestID):
		return "Invalid blood work request"
	default:
		return "Invalid draw details"
	}
}
