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

package portfolio

import (
	"time"
)

const (
	// DrawdownStartThreshold opens a drawdown period
	DrawdownStartThreshold = -0.05

	// DrawdownRecoveryThreshold closes an open period
	DrawdownRecoveryThreshold = -0.01

	// SevereDrawdownThreshold marks a severe day
	SevereDrawdownThreshold = -0.10
)

// DrawdownPeriod is a stretch of days during which the portfolio fell more than
// 5% below its peak, ending when it recovers to within 1% of the peak
type DrawdownPeriod struct {
	Start        time.Time
	End          time.Time
	MaxDrawdown  float64
	RecoveryDays int
	Recovered    bool
}

// DrawdownAnalysis summarizes the drawdowns of a ValueSeries
type DrawdownAnalysis struct {
	MaxDrawdown     float64
	MaxDrawdownDate time.Time
	SevereDays      int
	Periods         []*DrawdownPeriod
}

// AnalyzeDrawdowns finds the drawdown periods of series. RecoveryDays counts
// rows from the start of a period to its end. A period still open on the last
// day is reported with Recovered set to false.
func AnalyzeDrawdowns(series *ValueSeries) *DrawdownAnalysis {
	analysis := &DrawdownAnalysis{
		Periods: make([]*DrawdownPeriod, 0),
	}

	var current *DrawdownPeriod
	startIdx := 0

	for idx, m := range series.Measurements {
		if idx == 0 || m.Drawdown < analysis.MaxDrawdown {
			analysis.MaxDrawdown = m.Drawdown
			analysis.MaxDrawdownDate = m.Date
		}

		if m.Drawdown < SevereDrawdownThreshold {
			analysis.SevereDays++
		}

		switch {
		case current == nil && m.Drawdown < DrawdownStartThreshold:
			current = &DrawdownPeriod{
				Start:       m.Date,
				MaxDrawdown: m.Drawdown,
			}
			startIdx = idx
		case current != nil && m.Drawdown >= DrawdownRecoveryThreshold:
			current.End = m.Date
			current.RecoveryDays = idx - startIdx
			current.Recovered = true
			analysis.Periods = append(analysis.Periods, current)
			current = nil
		case current != nil && m.Drawdown < current.MaxDrawdown:
			current.MaxDrawdown = m.Drawdown
		}
	}

	if current != nil {
		last := len(series.Measurements) - 1
		current.End = series.Measurements[last].Date
		current.RecoveryDays = last - startIdx
		analysis.Periods = append(analysis.Periods, current)
	}

	return analysis
}
