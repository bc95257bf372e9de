/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"

	"github.com/humaidq/bloodwork/biomarker"
	"github.com/humaidq/bloodwork/db"
	"github.com/humaidq/bloodwork/metrics"
	"github.com/humaidq/bloodwork/viewcache"
)

// maxExtractedBody caps the structured rows accepted from the extractor.
const maxExtractedBody = 1 << 20

// manualFormRows is the number of blank rows offered by the entry form.
const manualFormRows = 8

var listReadingsFn = db.ListReadings

// ReadingViews renders a patient's reading history, memoizing the
// serialized views.
type ReadingViews struct {
	Catalog *biomarker.Catalog
	Cache   viewcache.Store
	Metrics *metrics.PortalMetrics
}

// Readings returns every reading of the patient in series order.
func (v *ReadingViews) Readings(ctx context.Context, patientID uuid.UUID) ([]biomarker.Reading, error) {
	data, err := viewcache.Fetch(ctx, v.Cache, v.Metrics, patientID, viewcache.ViewReadings, func(ctx context.Context) ([]byte, error) {
		readings, err := listReadingsFn(ctx, patientID, "")
		if err != nil {
			return nil, err
		}

		if readings == nil {
			readings = []biomarker.Reading{}
		}

		return json.Marshal(readings)
	})
	if err != nil {
		return nil, err
	}

	var readings []biomarker.Reading
	if err := json.Unmarshal(data, &readings); err != nil {
		return nil, fmt.Errorf("failed to decode cached readings: %w", err)
	}

	return readings, nil
}

// Series groups the patient's readings per biomarker.
func (v *ReadingViews) Series(ctx context.Context, patientID uuid.UUID) ([]biomarker.Series, error) {
	readings, err := v.Readings(ctx, patientID)
	if err != nil {
		return nil, err
	}

	return biomarker.BuildSeries(readings, v.Catalog), nil
}

// SummariesJSON returns the serialized series summaries.
func (v *ReadingViews) SummariesJSON(ctx context.Context, patientID uuid.UUID) ([]byte, error) {
	return viewcache.Fetch(ctx, v.Cache, v.Metrics, patientID, viewcache.ViewSummaries, func(ctx context.Context) ([]byte, error) {
		series, err := v.Series(ctx, patientID)
		if err != nil {
			return nil, err
		}

		summaries, err := biomarker.Summaries(series)
		if err != nil {
			return nil, err
		}

		return json.Marshal(summaries)
	})
}

// SummaryGroup is one category of the summary table.
type SummaryGroup struct {
	Category  string
	Summaries []biomarker.Summary
}

// groupSummaries keeps the series order and starts a new group whenever the
// category changes.
func groupSummaries(summaries []biomarker.Summary) []SummaryGroup {
	var groups []SummaryGroup

	for _, s := range summaries {
		if n := len(groups); n > 0 && groups[n-1].Category == s.Category {
			groups[n-1].Summaries = append(groups[n-1].Summaries, s)
			continue
		}

		groups = append(groups, SummaryGroup{Category: s.Category, Summaries: []biomarker.Summary{s}})
	}

	return groups
}

// ReadingsPage renders the latest value, flag and trend of each biomarker.
func ReadingsPage(c flamego.Context, t template.Template, data template.Data, actor *Actor, views *ReadingViews) {
	start := time.Now()
	defer func() {
		views.Metrics.ObserveRender("readings_page", time.Since(start).Seconds())
	}()

	data["IsReadings"] = true

	series, err := views.Series(c.Request().Context(), actor.PatientID)
	if err != nil {
		requestLogger.Error("Failed to load readings", "patient_id", actor.PatientID, "error", err)
		data["Error"] = "Failed to load readings"
		t.HTML(http.StatusOK, "readings")

		return
	}

	summaries, err := biomarker.Summaries(series)
	if err != nil {
		requestLogger.Error("Failed to summarize readings", "patient_id", actor.PatientID, "error", err)
		data["Error"] = "Failed to load readings"
		t.HTML(http.StatusOK, "readings")

		return
	}

	data["Groups"] = groupSummaries(summaries)
	data["HasData"] = len(series) > 0

	t.HTML(http.StatusOK, "readings")
}

// ReadingChart renders the full history of one biomarker.
func ReadingChart(c flamego.Context, t template.Template, data template.Data, actor *Actor, views *ReadingViews) {
	data["IsReadings"] = true

	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		name = c.Param("name")
	}

	data["Biomarker"] = name

	series, err := views.Series(c.Request().Context(), actor.PatientID)
	if err != nil {
		requestLogger.Error("Failed to load readings", "patient_id", actor.PatientID, "error", err)
		data["Error"] = "Failed to load readings"
		t.HTML(http.StatusOK, "reading_chart")

		return
	}

	key := biomarker.NormalizeName(name)
	for _, s := range series {
		if biomarker.NormalizeName(s.Name) != key {
			continue
		}

		chart, err := renderSeriesChart(s)
		if err != nil {
			requestLogger.Error("Failed to render chart", "biomarker", s.Name, "error", err)
			data["Error"] = "Failed to render chart"
		} else {
			data["Chart"] = htmltemplate.HTML(chart)
		}

		data["Biomarker"] = s.Name
		if summary, err := s.Summary(); err != nil {
			requestLogger.Error("Failed to summarize readings", "biomarker", s.Name, "error", err)
		} else {
			data["Summary"] = summary
		}
		data["Readings"] = s.Readings
		data["HasData"] = true

		t.HTML(http.StatusOK, "reading_chart")

		return
	}

	data["HasData"] = false
	t.HTML(http.StatusNotFound, "reading_chart")
}

// ListReadingsJSON returns the patient's readings, optionally filtered to a
// single biomarker.
func ListReadingsJSON(c flamego.Context, actor *Actor, views *ReadingViews) {
	readings, err := views.Readings(c.Request().Context(), actor.PatientID)
	if err != nil {
		requestLogger.Error("Failed to load readings", "patient_id", actor.PatientID, "error", err)
		writeJSONError(c, http.StatusInternalServerError, "failed to load readings")

		return
	}

	if name := strings.TrimSpace(c.Query("biomarker")); name != "" {
		key := biomarker.NormalizeName(name)
		filtered := make([]biomarker.Reading, 0, len(readings))

		for _, r := range readings {
			if biomarker.NormalizeName(r.BiomarkerName) == key {
				filtered = append(filtered, r)
			}
		}

		if len(filtered) == 0 {
			writeJSONError(c, http.StatusNotFound, "no readings for biomarker "+name)
			return
		}

		readings = filtered
	}

	writeJSON(c, http.StatusOK, map[string]interface{}{"readings": readings})
}

// BiomarkerSummariesJSON returns the latest state of each biomarker series.
func BiomarkerSummariesJSON(c flamego.Context, actor *Actor, views *ReadingViews) {
	body, err := views.SummariesJSON(c.Request().Context(), actor.PatientID)
	if err != nil {
		requestLogger.Error("Failed to load summaries", "patient_id", actor.PatientID, "error", err)
		writeJSONError(c, http.StatusInternalServerError, "failed to load summaries")

		return
	}

	writeRawJSON(c, http.StatusOK, body)
}

// NewReadingForm renders the manual entry form.
func NewReadingForm(t template.Template, data template.Data, catalog *biomarker.Catalog) {
	data["IsReadings"] = true
	data["Definitions"] = catalog.Definitions()
	data["LabSources"] = []biomarker.LabSource{biomarker.LabQuest, biomarker.LabLabCorp, biomarker.LabOther}
	data["Today"] = time.Now().Format(biomarker.DateLayout)
	data["Rows"] = make([]struct{}, manualFormRows)

	t.HTML(http.StatusOK, "reading_new")
}

// CreateManualReadings stores a manually entered panel.
func CreateManualReadings(c flamego.Context, s session.Session, actor *Actor, ingestor *Ingestor) {
	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/readings/new", http.StatusSeeOther)

		return
	}

	panel, formRows, fieldErrs := parseManualPanel(c.Request().Form)
	panel.PatientID = actor.PatientID

	if len(fieldErrs) > 0 {
		SetErrorFlash(s, "Readings were not saved: "+joinFieldErrors(fieldErrs))
		c.Redirect("/readings/new", http.StatusSeeOther)

		return
	}

	inserted, err := ingestor.Ingest(c.Request().Context(), panel)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			SetErrorFlash(s, "Readings were not saved: "+joinFieldErrors(remapRows(fields, formRows)))
		} else if errors.Is(err, db.ErrPatientNotFound) {
			SetErrorFlash(s, "Patient record not found")
		} else {
			requestLogger.Error("Failed to store manual readings", "patient_id", actor.PatientID, "error", err)
			SetErrorFlash(s, "Failed to save readings")
		}

		c.Redirect("/readings/new", http.StatusSeeOther)

		return
	}

	SetSuccessFlash(s, fmt.Sprintf("Saved %d readings", len(inserted.Readings)))
	c.Redirect("/readings", http.StatusSeeOther)
}

// parseManualPanel reads the repeated row fields of the entry form. Rows
// left entirely blank are dropped; formRows maps each kept row to its form
// position.
func parseManualPanel(form url.Values) (biomarker.Panel, []int, []biomarker.FieldError) {
	panel := biomarker.Panel{
		SourceType: biomarker.SourceManual,
		LabSource:  biomarker.ParseLabSource(form.Get("lab_source")),
	}

	var fieldErrs []biomarker.FieldError

	if raw := strings.TrimSpace(form.Get("date")); raw != "" {
		day, err := biomarker.ParseDate(raw)
		if err != nil {
			fieldErrs = append(fieldErrs, biomarker.FieldError{Row: -1, Field: "date", Message: "must be YYYY-MM-DD"})
		} else {
			panel.CollectedOn = day
		}
	}

	names := form["name"]
	values := form["value"]
	units := form["unit"]
	lows := form["reference_low"]
	highs := form["reference_high"]

	var formRows []int

	for i := range names {
		name := strings.TrimSpace(names[i])
		value := strings.TrimSpace(at(values, i))
		unit := strings.TrimSpace(at(units, i))
		low := strings.TrimSpace(at(lows, i))
		high := strings.TrimSpace(at(highs, i))

		if name == "" && value == "" && unit == "" && low == "" && high == "" {
			continue
		}

		row := biomarker.RawRow{Name: name, Unit: unit}

		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			fieldErrs = append(fieldErrs, biomarker.FieldError{Row: i, Field: "value", Message: "must be a number"})
		} else {
			row.Value = parsed
		}

		if row.ReferenceLow, err = parseOptionalFloat(low); err != nil {
			fieldErrs = append(fieldErrs, biomarker.FieldError{Row: i, Field: "reference_low", Message: "must be a number"})
		}
		if row.ReferenceHigh, err = parseOptionalFloat(high); err != nil {
			fieldErrs = append(fieldErrs, biomarker.FieldError{Row: i, Field: "reference_high", Message: "must be a number"})
		}

		panel.Rows = append(panel.Rows, row)
		formRows = append(formRows, i)
	}

	return panel, formRows, fieldErrs
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}

	return ""
}

func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

func remapRows(fields []biomarker.FieldError, formRows []int) []biomarker.FieldError {
	out := make([]biomarker.FieldError, len(fields))
	for i, f := range fields {
		if f.Row >= 0 && f.Row < len(formRows) {
			f.Row = formRows[f.Row]
		}
		out[i] = f
	}

	return out
}

func joinFieldErrors(fields []biomarker.FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}

	return strings.Join(parts, "; ")
}

type extractedPanelRequest struct {
	SourceType biomarker.SourceType `json:"source_type"`
	LabSource  biomarker.LabSource  `json:"lab_source"`
	Date       string               `json:"date"`
	Rows       []biomarker.RawRow   `json:"rows"`
}

type ingestResponse struct {
	PanelID  uuid.UUID           `json:"panel_id"`
	Date     string              `json:"date"`
	Readings []biomarker.Reading `json:"readings"`
}

// IngestExtractedReadings stores rows produced by the PDF extractor.
func IngestExtractedReadings(c flamego.Context, actor *Actor, ingestor *Ingestor) {
	body := http.MaxBytesReader(c.ResponseWriter(), c.Request().Request.Body, maxExtractedBody)

	var req extractedPanelRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		if errors.Is(err, io.EOF) {
			writeJSONError(c, http.StatusBadRequest, "empty request body")
			return
		}

		writeJSONError(c, http.StatusBadRequest, "invalid JSON: "+err.Error())

		return
	}

	if req.SourceType == "" {
		req.SourceType = biomarker.SourcePDF
	}

	panel := biomarker.Panel{
		PatientID:  actor.PatientID,
		SourceType: req.SourceType,
		LabSource:  req.LabSource,
		Rows:       req.Rows,
	}

	if strings.TrimSpace(req.Date) != "" {
		day, err := biomarker.ParseDate(req.Date)
		if err != nil {
			writeJSON(c, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": []biomarker.FieldError{{Row: -1, Field: "date", Message: "must be YYYY-MM-DD"}},
			})

			return
		}

		panel.CollectedOn = day
	}

	inserted, err := ingestor.Ingest(c.Request().Context(), panel)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			writeJSON(c, http.StatusUnprocessableEntity, map[string]interface{}{"errors": fields})
			return
		}
		if errors.Is(err, db.ErrPatientNotFound) {
			writeJSONError(c, http.StatusNotFound, "patient not found")
			return
		}

		requestLogger.Error("Failed to store extracted readings", "patient_id", actor.PatientID, "error", err)
		writeJSONError(c, http.StatusInternalServerError, "failed to store readings")

		return
	}

	writeJSON(c, http.StatusCreated, ingestResponse{
		PanelID:  inserted.ID,
		Date:     inserted.CollectedOn.Format(biomarker.DateLayout),
		Readings: inserted.Readings,
	})
}
