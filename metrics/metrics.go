/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package metrics exposes prometheus collectors for ingestion, calendar
// aggregation and view caching. Methods are safe on a nil receiver.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bloodwork"

// PortalMetrics holds the portal's collectors.
type PortalMetrics struct {
	panelsTotal     *prometheus.CounterVec
	readingsTotal   *prometheus.CounterVec
	calendarEvents  *prometheus.CounterVec
	calendarSkipped *prometheus.CounterVec
	viewCache       *prometheus.CounterVec
	renderLatency   *prometheus.HistogramVec
}

// NewPortalMetrics registers the collectors with reg, or with the default
// registerer when reg is nil.
func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	m := &PortalMetrics{
		panelsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "panels_total",
			Help:      "Lab panels submitted for ingestion",
		}, []string{"source_type", "status"}),
		readingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "readings_total",
			Help:      "Readings persisted, by flag",
		}, []string{"source_type", "flag"}),
		calendarEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "events_total",
			Help:      "Calendar events produced by aggregation",
		}, []string{"kind"}),
		calendarSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "skipped_total",
			Help:      "Source records skipped during calendar aggregation",
		}, []string{"kind"}),
		viewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "viewcache",
			Name:      "lookups_total",
			Help:      "View cache lookups",
		}, []string{"view", "hit"}),
		renderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "web",
			Name:      "view_render_seconds",
			Help:      "Time spent building uncached views",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.panelsTotal, m.readingsTotal, m.calendarEvents, m.calendarSkipped, m.viewCache, m.renderLatency)

	return m
}

// ObservePanel counts one panel submission with its outcome.
func (m *PortalMetrics) ObservePanel(sourceType, status string) {
	if m == nil {
		return
	}
	m.panelsTotal.WithLabelValues(sourceType, status).Inc()
}

// ObserveReading counts one persisted reading. An empty flag is reported
// as "none".
func (m *PortalMetrics) ObserveReading(sourceType, flag string) {
	if m == nil {
		return
	}
	if flag == "" {
		flag = "none"
	}
	m.readingsTotal.WithLabelValues(sourceType, flag).Inc()
}

func (m *PortalMetrics) ObserveCalendarEvent(kind string) {
	if m == nil {
		return
	}
	m.calendarEvents.WithLabelValues(kind).Inc()
}

func (m *PortalMetrics) ObserveCalendarSkip(kind string) {
	if m == nil {
		return
	}
	m.calendarSkipped.WithLabelValues(kind).Inc()
}

// ObserveViewCache satisfies viewcache.Observer.
func (m *PortalMetrics) ObserveViewCache(view string, hit bool) {
	if m == nil {
		return
	}
	m.viewCache.WithLabelValues(view, strconv.FormatBool(hit)).Inc()
}

func (m *PortalMetrics) ObserveRender(view string, seconds float64) {
	if m == nil {
		return
	}
	m.renderLatency.WithLabelValues(view).Observe(seconds)
}
