/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/bloodwork/biomarker"
)

const chartDateLayout = "Jan 2, 2006"

// chartLabels returns one x-axis label per reading. Readings sharing a day
// keep their own point and get a numeric suffix.
func chartLabels(readings []biomarker.Reading) []string {
	labels := make([]string, 0, len(readings))
	perDay := make(map[string]int)

	for _, r := range readings {
		day := r.Date.Format(chartDateLayout)
		perDay[day]++

		if n := perDay[day]; n > 1 {
			labels = append(labels, fmt.Sprintf("%s (#%d)", day, n))
			continue
		}

		labels = append(labels, day)
	}

	return labels
}

// yAxisRange pads the reference range and widens it to fit the data. It
// returns nil bounds when the series has no complete reference range.
func yAxisRange(series biomarker.Series) (interface{}, interface{}) {
	latest := series.Latest()
	if latest.ReferenceLow == nil || latest.ReferenceHigh == nil {
		return nil, nil
	}

	dataMin, dataMax := series.Readings[0].Value, series.Readings[0].Value
	for _, r := range series.Readings[1:] {
		if r.Value < dataMin {
			dataMin = r.Value
		}
		if r.Value > dataMax {
			dataMax = r.Value
		}
	}

	refMin, refMax := *latest.ReferenceLow, *latest.ReferenceHigh
	padding := (refMax - refMin) * 0.1
	minVal := refMin - padding
	maxVal := refMax + padding

	if dataMin < minVal {
		minVal = dataMin - (dataMax-dataMin)*0.05
	}
	if dataMax > maxVal {
		maxVal = dataMax + (dataMax-dataMin)*0.05
	}

	if minVal < 0 {
		minVal = 0
	}

	return minVal, maxVal
}

func referenceMarkLines(r biomarker.Reading) []interface{} {
	var items []interface{}

	if r.ReferenceLow != nil {
		items = append(items, opts.MarkLineNameYAxisItem{Name: "Ref Min", YAxis: *r.ReferenceLow})
	}
	if r.ReferenceHigh != nil {
		items = append(items, opts.MarkLineNameYAxisItem{Name: "Ref Max", YAxis: *r.ReferenceHigh})
	}

	return items
}

// renderSeriesChart renders the series as a line chart with the latest
// reference range drawn as dashed mark lines.
func renderSeriesChart(series biomarker.Series) (string, error) {
	if len(series.Readings) == 0 {
		return "", nil
	}

	yData := make([]opts.LineData, 0, len(series.Readings))
	for _, r := range series.Readings {
		yData = append(yData, opts.LineData{Value: r.Value, Name: string(r.Flag)})
	}

	yAxisMin, yAxisMax := yAxisRange(series)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    series.Name,
			Subtitle: series.Category,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: series.Unit,
			Min:  yAxisMin,
			Max:  yAxisMax,
		}),
	)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(false),
			ShowSymbol: opts.Bool(true),
		}),
		charts.WithMarkPointNameTypeItemOpts(
			opts.MarkPointNameTypeItem{Name: "Max", Type: "max"},
			opts.MarkPointNameTypeItem{Name: "Min", Type: "min"},
		),
	}

	if items := referenceMarkLines(series.Latest()); len(items) > 0 {
		seriesOpts = append(seriesOpts, func(s *charts.SingleSeries) {
			s.MarkLines = &opts.MarkLines{
				Data: items,
				MarkLineStyle: opts.MarkLineStyle{
					Symbol: []string{"none", "none"},
					LineStyle: &opts.LineStyle{
						Color: "rgba(128, 128, 128, 0.6)",
						Type:  "dashed",
						Width: 1.5,
					},
				},
			}
		})
	}

	line.SetXAxis(chartLabels(series.Readings)).
		AddSeries(series.Name, yData).
		SetSeriesOptions(seriesOpts...)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
