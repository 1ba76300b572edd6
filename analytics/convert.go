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

package analytics

import (
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/composition"
	"github.com/penny-vault/etfperf/dataframe"
	"github.com/penny-vault/etfperf/portfolio"
)

func points(series *portfolio.ValueSeries) []*Point {
	res := make([]*Point, series.Len())
	for idx, m := range series.Measurements {
		contrib := make(map[string]float64, len(series.Tickers))
		for tickerIdx, ticker := range series.Tickers {
			contrib[ticker] = common.Finite(m.Contributions[tickerIdx])
		}
		res[idx] = &Point{
			Date:             m.Date.Format(common.DateLayout),
			TotalValue:       common.Finite(m.TotalValue),
			DailyReturn:      common.NullableFloat(m.DailyReturn),
			CumulativeReturn: common.Finite(m.CumulativeReturn),
			PeakValue:        common.Finite(m.PeakValue),
			Drawdown:         common.Finite(m.Drawdown),
			Contributions:    contrib,
		}
	}
	return res
}

func yearlyReturns(years []*portfolio.YearlyReturn) []*YearlyReturn {
	res := make([]*YearlyReturn, len(years))
	for idx, y := range years {
		res[idx] = &YearlyReturn{
			Year:         y.Year,
			YearlyReturn: common.Finite(y.Return),
		}
	}
	return res
}

func valueSummary(summary *portfolio.ValueSummary) *ValueSummary {
	return &ValueSummary{
		InitialValue:     common.Finite(summary.InitialValue),
		FinalValue:       common.Finite(summary.FinalValue),
		Growth:           common.Finite(summary.Growth),
		GrowthPercentage: common.Finite(summary.GrowthPercentage),
	}
}

// volumePoints reads the first column of df; missing volumes are reported as 0
func volumePoints(df *dataframe.DataFrame) []*VolumePoint {
	res := make([]*VolumePoint, df.Len())
	for idx, date := range df.Dates {
		vol := 0.0
		if df.ColCount() > 0 {
			vol = common.Finite(df.Vals[0][idx])
		}
		res[idx] = &VolumePoint{
			Date:   date.Format(common.DateLayout),
			Volume: vol,
		}
	}
	return res
}

func groupWeights(groups []*composition.GroupWeight) []*GroupWeight {
	res := make([]*GroupWeight, len(groups))
	for idx, g := range groups {
		res[idx] = &GroupWeight{Name: g.Name, Weight: percent(g.Weight)}
	}
	return res
}

// percent converts a fraction to a percentage rounded to 3 decimal places
func percent(fraction float64) float64 {
	return common.Round(common.Finite(fraction)*100, 3)
}
