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
	"math"
	"time"

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/dataframe"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultRiskFreeRate = 0.02
	TradingDaysPerYear  = 252
	DaysPerYear         = 365.25
)

type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "Very Low"
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

// RiskMetrics summarizes the return and risk of a ValueSeries. Every field is finite.
type RiskMetrics struct {
	InitialValue     float64   `json:"initial_value"`
	FinalValue       float64   `json:"final_value"`
	TotalReturn      float64   `json:"total_return"`
	AnnualizedReturn float64   `json:"annualized_return"`
	Volatility       float64   `json:"volatility"`
	MaxDrawdown      float64   `json:"max_drawdown"`
	SharpeRatio      float64   `json:"sharpe_ratio"`
	RiskLevel        RiskLevel `json:"risk_level"`
	Years            float64   `json:"years"`
}

// RiskLevelFor buckets annualized volatility. Each bound belongs to the higher tier.
func RiskLevelFor(volatility float64) RiskLevel {
	switch {
	case volatility < 0.05:
		return RiskVeryLow
	case volatility < 0.10:
		return RiskLow
	case volatility < 0.15:
		return RiskModerate
	case volatility < 0.20:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// ComputeMetrics derives the risk and return statistics of series. An empty
// series fails with EmptyRange; every other degenerate case resolves to 0.
func ComputeMetrics(series *ValueSeries, riskFreeRate float64) (*RiskMetrics, error) {
	n := series.Len()
	if n == 0 {
		return nil, series.Range.EmptyRange("")
	}

	first := series.Measurements[0]
	last := series.Measurements[n-1]

	metrics := &RiskMetrics{
		InitialValue: first.TotalValue,
		FinalValue:   last.TotalValue,
	}

	metrics.TotalReturn = totalReturn(first.TotalValue, last.TotalValue)
	metrics.Years = toYears(last.Date.Sub(first.Date))
	metrics.AnnualizedReturn = annualize(metrics.TotalReturn, metrics.Years)

	df := series.DataFrame()
	dailyReturns, _ := df.Column(ColumnDailyReturn)
	drawdowns, _ := df.Column(ColumnDrawdown)

	metrics.Volatility = annualizedVolatility(dailyReturns)
	metrics.MaxDrawdown = common.Finite(floats.Min(drawdowns))

	if metrics.Volatility != 0 {
		metrics.SharpeRatio = common.Finite((metrics.AnnualizedReturn - riskFreeRate) / metrics.Volatility)
	}

	metrics.RiskLevel = RiskLevelFor(metrics.Volatility)

	return metrics, nil
}

func totalReturn(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	return common.Finite(last/first - 1)
}

// AnnualizedGrowth is the compound annual rate taking first at from to last at to
func AnnualizedGrowth(first, last float64, from, to time.Time) float64 {
	return annualize(totalReturn(first, last), toYears(to.Sub(from)))
}

// annualize converts a total return over years into a compound annual rate;
// windows of zero length are not annualized
func annualize(total, years float64) float64 {
	if years <= 0 {
		return 0
	}
	return common.Finite(math.Pow(1+total, 1/years) - 1)
}

// annualizedVolatility is the sample standard deviation of the non-null daily
// returns scaled by sqrt(252); 0 with fewer than 2 samples
func annualizedVolatility(dailyReturns []float64) float64 {
	return common.Finite(dataframe.StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear))
}

func toYears(d time.Duration) float64 {
	return d.Hours() / 24 / DaysPerYear
}
