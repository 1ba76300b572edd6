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
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/dataframe"
)

// YearlySummary aggregates the yearly returns of a series
type YearlySummary struct {
	AverageReturn float64
	PositiveYears int
	NegativeYears int
	Best          *YearlyReturn
	Worst         *YearlyReturn
}

// SummarizeYears computes the average, best and worst of the yearly returns.
// Best and Worst are nil when there are no years; ties go to the earliest year.
func SummarizeYears(years []*YearlyReturn) *YearlySummary {
	summary := &YearlySummary{}
	if len(years) == 0 {
		return summary
	}

	returns := make([]float64, len(years))
	for idx, yr := range years {
		returns[idx] = yr.Return

		switch {
		case yr.Return > 0:
			summary.PositiveYears++
		case yr.Return < 0:
			summary.NegativeYears++
		}

		if summary.Best == nil || yr.Return > summary.Best.Return {
			summary.Best = yr
		}
		if summary.Worst == nil || yr.Return < summary.Worst.Return {
			summary.Worst = yr
		}
	}

	summary.AverageReturn = common.Finite(dataframe.Mean(returns))
	return summary
}

// ValueSummary is the growth of the initial investment over the series
type ValueSummary struct {
	InitialValue     float64
	FinalValue       float64
	Growth           float64
	GrowthPercentage float64
}

// SummarizeValue reports the absolute and relative growth of series
func SummarizeValue(series *ValueSeries) *ValueSummary {
	summary := &ValueSummary{}
	if series.Len() == 0 {
		return summary
	}

	values := series.Values()
	summary.InitialValue = values[0]
	summary.FinalValue = values[len(values)-1]
	summary.Growth = summary.FinalValue - summary.InitialValue
	if summary.InitialValue != 0 {
		summary.GrowthPercentage = common.Finite(summary.Growth / summary.InitialValue * 100)
	}
	return summary
}
