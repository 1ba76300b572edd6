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

package portfolio_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/portfolio"
)

func valueSeries(start time.Time, closes []float64) *portfolio.ValueSeries {
	store := newStore(start, map[string][]float64{"SPY": closes})
	alloc, err := portfolio.Normalize(map[string]float64{"SPY": 1}, portfolio.ConventionFraction, 0.01)
	Expect(err).To(BeNil())
	series, err := portfolio.Value(store, alloc, 10000, fullRange(store))
	Expect(err).To(BeNil())
	return series
}

var _ = Describe("Metrics", func() {
	var (
		start time.Time
	)

	BeforeEach(func() {
		start = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	})

	DescribeTable("buckets volatility into risk tiers", func(vol float64, expected portfolio.RiskLevel) {
		Expect(portfolio.RiskLevelFor(vol)).To(Equal(expected))
	},
		Entry("zero", 0.0, portfolio.RiskVeryLow),
		Entry("just under 5%", 0.0499, portfolio.RiskVeryLow),
		Entry("exactly 5%", 0.05, portfolio.RiskLow),
		Entry("exactly 10%", 0.10, portfolio.RiskModerate),
		Entry("exactly 15%", 0.15, portfolio.RiskHigh),
		Entry("exactly 20%", 0.20, portfolio.RiskVeryHigh),
		Entry("extreme", 3.0, portfolio.RiskVeryHigh),
	)

	It("computes the statistics of a volatile series", func() {
		closes := []float64{100, 102, 99, 105, 103, 108}
		series := valueSeries(start, closes)

		metrics, err := portfolio.ComputeMetrics(series, portfolio.DefaultRiskFreeRate)
		Expect(err).To(BeNil())

		Expect(metrics.InitialValue).To(BeNumerically("~", 10000, 1e-9))
		Expect(metrics.FinalValue).To(BeNumerically("~", 10800, 1e-9))
		Expect(metrics.TotalReturn).To(BeNumerically("~", 0.08, 1e-12))

		years := 5.0 / 365.25
		Expect(metrics.Years).To(BeNumerically("~", years, 1e-12))
		Expect(metrics.AnnualizedReturn).To(BeNumerically("~", math.Pow(1.08, 1/years)-1, 1e-6))

		returns := []float64{0.02, 99.0/102 - 1, 105.0/99 - 1, 103.0/105 - 1, 108.0/103 - 1}
		mean := 0.0
		for _, r := range returns {
			mean += r
		}
		mean /= float64(len(returns))
		variance := 0.0
		for _, r := range returns {
			variance += (r - mean) * (r - mean)
		}
		variance /= float64(len(returns) - 1)
		expectedVol := math.Sqrt(variance) * math.Sqrt(252)

		Expect(metrics.Volatility).To(BeNumerically("~", expectedVol, 1e-12))
		Expect(metrics.MaxDrawdown).To(BeNumerically("~", 99.0/102-1, 1e-12))
		Expect(metrics.SharpeRatio).To(BeNumerically("~", (metrics.AnnualizedReturn-0.02)/expectedVol, 1e-9))
		Expect(metrics.RiskLevel).To(Equal(portfolio.RiskLevelFor(expectedVol)))
	})

	It("has max drawdown equal to the minimum drawdown", func() {
		series := valueSeries(start, []float64{100, 90, 95, 80, 120, 60, 70})
		metrics, err := portfolio.ComputeMetrics(series, portfolio.DefaultRiskFreeRate)
		Expect(err).To(BeNil())

		minDrawdown := 0.0
		for _, m := range series.Measurements {
			minDrawdown = math.Min(minDrawdown, m.Drawdown)
		}
		Expect(metrics.MaxDrawdown).To(Equal(minDrawdown))
		Expect(metrics.MaxDrawdown).To(BeNumerically("~", -0.5, 1e-12))
	})

	It("has no drawdown for a rising series", func() {
		series := valueSeries(start, linear(100, 150, 20))
		metrics, err := portfolio.ComputeMetrics(series, portfolio.DefaultRiskFreeRate)
		Expect(err).To(BeNil())
		Expect(metrics.MaxDrawdown).To(BeNumerically("==", 0))
	})

	It("resolves a single row series to finite sentinels", func() {
		series := valueSeries(start, []float64{100})
		metrics, err := portfolio.ComputeMetrics(series, portfolio.DefaultRiskFreeRate)
		Expect(err).To(BeNil())
		Expect(metrics.Years).To(BeNumerically("==", 0))
		Expect(metrics.AnnualizedReturn).To(BeNumerically("==", 0))
		Expect(metrics.Volatility).To(BeNumerically("==", 0))
		Expect(metrics.SharpeRatio).To(BeNumerically("==", 0))
		Expect(metrics.MaxDrawdown).To(BeNumerically("==", 0))
		Expect(metrics.RiskLevel).To(Equal(portfolio.RiskVeryLow))
	})

	It("has zero volatility and sharpe with a single return", func() {
		series := valueSeries(start, []float64{100, 110})
		metrics, err := portfolio.ComputeMetrics(series, portfolio.DefaultRiskFreeRate)
		Expect(err).To(BeNil())
		Expect(metrics.Volatility).To(BeNumerically("==", 0))
		Expect(metrics.SharpeRatio).To(BeNumerically("==", 0))
	})

	It("fails on an empty series", func() {
		_, err := portfolio.ComputeMetrics(&portfolio.ValueSeries{}, portfolio.DefaultRiskFreeRate)
		Expect(err).To(MatchError(common.ErrEmptyRange))
	})

	Context("yearly summary", func() {
		It("finds the average, best and worst years", func() {
			summary := portfolio.SummarizeYears([]*portfolio.YearlyReturn{
				{Year: 2019, Return: 0.10},
				{Year: 2020, Return: -0.20},
				{Year: 2021, Return: 0.40},
				{Year: 2022, Return: 0},
			})
			Expect(summary.AverageReturn).To(BeNumerically("~", 0.075, 1e-12))
			Expect(summary.PositiveYears).To(Equal(2))
			Expect(summary.NegativeYears).To(Equal(1))
			Expect(summary.Best.Year).To(Equal(2021))
			Expect(summary.Worst.Year).To(Equal(2020))
		})

		It("handles no years", func() {
			summary := portfolio.SummarizeYears(nil)
			Expect(summary.Best).To(BeNil())
			Expect(summary.AverageReturn).To(BeNumerically("==", 0))
		})
	})

	It("summarizes the growth of the investment", func() {
		series := valueSeries(start, []float64{100, 125})
		summary := portfolio.SummarizeValue(series)
		Expect(summary.Growth).To(BeNumerically("~", 2500, 1e-9))
		Expect(summary.GrowthPercentage).To(BeNumerically("~", 25, 1e-9))
	})
})
