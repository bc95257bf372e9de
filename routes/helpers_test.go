// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/humaidq/bloodwork/biomarker"
	"github.com/humaidq/bloodwork/metrics"
	"github.com/humaidq/bloodwork/schedule"
	"github.com/humaidq/bloodwork/viewcache"
)

var (
	errTestBoom              = errors.New("boom")
	errTestShouldNotBeCalled = errors.New("should not be called")
)

type testSession struct {
	id          string
	data        map[interface{}]interface{}
	flash       interface{}
	regenerated int
	regenErr    error
}

func newTestSession() *testSession {
	return &testSession{
		id:   "test-session",
		data: make(map[interface{}]interface{}),
	}
}

func (s *testSession) ID() string {
	return s.id
}

func (s *testSession) RegenerateID(http.ResponseWriter, *http.Request) error {
	if s.regenErr != nil {
		return s.regenErr
	}

	s.regenerated++
	s.id = "test-session-" + strconv.Itoa(s.regenerated)

	return nil
}

func (s *testSession) Get(key interface{}) interface{} {
	return s.data[key]
}

func (s *testSession) Set(key, val interface{}) {
	s.data[key] = val
}

func (s *testSession) SetFlash(val interface{}) {
	s.flash = val
}

func (s *testSession) Delete(key interface{}) {
	delete(s.data, key)
}

func (s *testSession) Flush() {
	s.data = make(map[interface{}]interface{})
}

func (s *testSession) Encode() ([]byte, error) {
	return nil, nil
}

func (s *testSession) HasChanged() bool {
	return true
}

func signIn(s *testSession, patientID uuid.UUID, role Role) {
	s.Set(sessionPatientKey, patientID.String())
	s.Set(sessionRoleKey, string(role))
}

type testDeps struct {
	registry *prometheus.Registry
	cache    *viewcache.Memory
	ingestor *Ingestor
	views    *ReadingViews
	calendar *CalendarService
}

func newTestDeps() *testDeps {
	reg := prometheus.NewRegistry()
	m := metrics.NewPortalMetrics(reg)
	cache := viewcache.NewMemory(time.Minute)
	catalog := biomarker.MustDefaultCatalog()

	return &testDeps{
		registry: reg,
		cache:    cache,
		ingestor: &Ingestor{Normalizer: biomarker.NewNormalizer(catalog), Cache: cache, Metrics: m},
		views:    &ReadingViews{Catalog: catalog, Cache: cache, Metrics: m},
		calendar: &CalendarService{
			Aggregator: &schedule.Aggregator{Location: time.FixedZone("GST", 4*60*60)},
			Cache:      cache,
			Metrics:    m,
		},
	}
}

func isCached(t *testing.T, deps *testDeps, patientID uuid.UUID, view string) bool {
	t.Helper()

	gen, err := deps.cache.Generation(context.Background(), patientID)
	if err != nil {
		t.Fatalf("read view generation: %v", err)
	}

	_, ok, err := deps.cache.Get(context.Background(), patientID, gen, view)
	if err != nil {
		t.Fatalf("read view %s: %v", view, err)
	}

	return ok
}

func seedView(t *testing.T, deps *testDeps, patientID uuid.UUID, view string, data []byte) {
	t.Helper()

	gen, err := deps.cache.Generation(context.Background(), patientID)
	if err != nil {
		t.Fatalf("read view generation: %v", err)
	}

	if err := deps.cache.Set(context.Background(), patientID, gen, view, data); err != nil {
		t.Fatalf("seed view %s: %v", view, err)
	}
}

func newTestApp(s session.Session, deps *testDeps) *flamego.Flame {
	f := flamego.New()
	f.Use(func(c flamego.Context) {
		c.MapTo(s, (*session.Session)(nil))
		c.Map(deps.ingestor)
		c.Map(deps.views)
		c.Map(deps.calendar)
		c.Next()
	})

	f.Post("/session", StartSession)
	f.Post("/session/end", EndSession)

	f.Group("", func() {
		f.Get("/api/readings", ListReadingsJSON)
		f.Get("/api/biomarkers", BiomarkerSummariesJSON)
		f.Get("/api/calendar", CalendarJSON)
		f.Post("/readings/new", RequireRole(RolePatient), CreateManualReadings)
		f.Post("/api/readings/extracted", RequireRole(RolePatient), IngestExtractedReadings)
		f.Post("/calendar/requests", RequireRole(RolePatient), CreateBloodWorkRequest)
		f.Post("/calendar/draws", RequireRole(RoleClinician), ScheduleDraw)
	}, RequireActor)

	return f
}

func performFormPOST(
	t *testing.T,
	f *flamego.Flame,
	path string,
	form url.Values,
	headers map[string]string,
) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func performJSONPOST(t *testing.T, f *flamego.Flame, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func performGET(t *testing.T, f *flamego.Flame, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()

	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body %q)", want, rec.Code, rec.Body.String())
	}
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	t.Helper()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	if got := rec.Header().Get("Location"); got != wantLocation {
		t.Fatalf("expected redirect %q, got %q", wantLocation, got)
	}
}

func assertFlash(t *testing.T, s *testSession, wantType FlashType, wantMessage string) {
	t.Helper()

	msg, ok := s.flash.(FlashMessage)
	if !ok {
		t.Fatalf("expected flash message, got %T", s.flash)
	}

	if msg.Type != wantType || msg.Message != wantMessage {
		t.Fatalf("unexpected flash message: %#v", msg)
	}
}

func assertNoFlash(t *testing.T, s *testSession) {
	t.Helper()

	if s.flash != nil {
		t.Fatalf("expected no flash message, got %#v", s.flash)
	}
}

// counterValue sums the counter samples of family name whose labels include
// every pair in labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	var total float64

	for _, family := range families {
		if family.GetName() != name {
			continue
		}

		for _, m := range family.GetMetric() {
			matched := 0
			for _, pair := range m.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want == pair.GetValue() {
					matched++
				}
			}

			if matched == len(labels) {
				total += m.GetCounter().GetValue()
			}
		}
	}

	return total
}

func floatPtr(v float64) *float64 {
	return &v
}

func day(value string) time.Time {
	d, err := biomarker.ParseDate(value)
	if err != nil {
		panic(err)
	}

	return d
}
