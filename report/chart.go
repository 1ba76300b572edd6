// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/penny-vault/etfperf/analytics"
	"github.com/penny-vault/etfperf/common"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrTooFewPoints = errors.New("need at least 2 data points")
)

const (
	chartWidth  = 900
	chartHeight = 400
)

// GrowthChart renders the portfolio value series as a PNG line chart
func GrowthChart(points []*analytics.Point) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}

	xValues := make([]time.Time, 0, len(points))
	valueY := make([]float64, 0, len(points))
	peakY := make([]float64, 0, len(points))

	for _, p := range points {
		dt, err := time.Parse(common.DateLayout, p.Date)
		if err != nil {
			return nil, err
		}
		xValues = append(xValues, dt)
		valueY = append(valueY, p.TotalValue)
		peakY = append(peakY, p.PeakValue)
	}

	valueSeries := chart.TimeSeries{
		Name: "Portfolio Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: valueY,
	}

	peakSeries := chart.TimeSeries{
		Name: "Peak Value",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: peakY,
	}

	graph := chart.Chart{
		Title:  "Portfolio Growth",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: dateAxis(),
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.1fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{valueSeries, peakSeries},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return render(&graph)
}

// DrawdownChart renders the drawdown series in percent as a PNG line chart
func DrawdownChart(points []*analytics.DrawdownPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}

	xValues := make([]time.Time, 0, len(points))
	yValues := make([]float64, 0, len(points))

	for _, p := range points {
		dt, err := time.Parse(common.DateLayout, p.Date)
		if err != nil {
			return nil, err
		}
		xValues = append(xValues, dt)
		yValues = append(yValues, p.Drawdown*100)
	}

	graph := chart.Chart{
		Title:  "Drawdown",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: dateAxis(),
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Drawdown",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("dc2626"),
					FillColor:   drawing.ColorFromHex("dc2626").WithAlpha(64),
					StrokeWidth: 1.5,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	return render(&graph)
}

func dateAxis() chart.XAxis {
	return chart.XAxis{
		TickPosition: chart.TickPositionBetweenTicks,
		ValueFormatter: func(v interface{}) string {
			if t, ok := v.(float64); ok {
				return chart.TimeFromFloat64(t).Format("Jan 06")
			}
			return ""
		},
	}
}

func render(graph *chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
