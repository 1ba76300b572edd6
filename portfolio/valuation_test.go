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
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/dataframe"
	"github.com/penny-vault/etfperf/portfolio"
)

var _ = Describe("Valuation", func() {
	var (
		start time.Time
	)

	BeforeEach(func() {
		start = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	})

	Context("with two instruments, one flat and one rising", func() {
		var (
			series *portfolio.ValueSeries
		)

		BeforeEach(func() {
			store := newStore(start, map[string][]float64{
				"A": constant(100, 10),
				"B": linear(100, 110, 10),
			})
			alloc, err := portfolio.Normalize(map[string]float64{"A": 0.5, "B": 0.5}, portfolio.ConventionFraction, 0.01)
			Expect(err).To(BeNil())

			series, err = portfolio.Value(store, alloc, 10000, fullRange(store))
			Expect(err).To(BeNil())
		})

		It("starts at the initial investment", func() {
			Expect(series.Len()).To(Equal(10))
			Expect(series.Measurements[0].TotalValue).To(BeNumerically("~", 10000, 1e-9))
		})

		It("ends at the weighted growth", func() {
			Expect(series.Measurements[9].TotalValue).To(BeNumerically("~", 10500, 1e-9))
			Expect(series.Measurements[9].Contributions[0]).To(BeNumerically("~", 5000, 1e-9))
			Expect(series.Measurements[9].Contributions[1]).To(BeNumerically("~", 5500, 1e-9))
			Expect(series.Measurements[9].Growth[1]).To(BeNumerically("~", 1.1, 1e-12))
			Expect(series.Measurements[9].CumulativeReturn).To(BeNumerically("~", 0.05, 1e-12))
		})

		It("has no drawdown", func() {
			for _, m := range series.Measurements {
				Expect(m.Drawdown).To(BeNumerically("==", 0))
			}
			metrics, err := portfolio.ComputeMetrics(series, portfolio.DefaultRiskFreeRate)
			Expect(err).To(BeNil())
			Expect(metrics.MaxDrawdown).To(BeNumerically("==", 0))
		})

		It("has no daily return on the first day", func() {
			Expect(isNaN(series.Measurements[0].DailyReturn)).To(BeTrue())
			Expect(series.Measurements[1].DailyReturn).To(BeNumerically(">", 0))
		})
	})

	It("tracks a single instrument exactly", func() {
		closes := []float64{100, 103.7, 99.1, 120.4, 87.3, 101.9}
		store := newStore(start, map[string][]float64{"SPY": closes})
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 1.0}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())

		series, err := portfolio.Value(store, alloc, 12345.67, fullRange(store))
		Expect(err).To(BeNil())
		for idx, m := range series.Measurements {
			Expect(m.TotalValue).To(Equal(12345.67 * (closes[idx] / closes[0])))
		}
	})

	It("keeps drawdown and peak consistent", func() {
		store := newStore(start, map[string][]float64{
			"SPY": {100, 110, 90, 95, 120, 80, 130},
			"BND": {50, 49, 51, 52, 48, 50, 47},
		})
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 70, "BND": 30}, portfolio.ConventionPercent, 0.01)
		Expect(err).To(BeNil())

		series, err := portfolio.Value(store, alloc, 1000, fullRange(store))
		Expect(err).To(BeNil())

		prevPeak := 0.0
		for _, m := range series.Measurements {
			Expect(m.Drawdown).To(BeNumerically("<=", 0))
			Expect(m.PeakValue).To(BeNumerically(">=", m.TotalValue))
			Expect(m.PeakValue).To(BeNumerically(">=", prevPeak))
			prevPeak = m.PeakValue
		}
	})

	It("produces identical series for percent and fraction conventions", func() {
		store := newStore(start, map[string][]float64{
			"SPY": {100, 110, 90, 95, 120},
			"BND": {50, 49, 51, 52, 48},
		})

		fractions, err := portfolio.Normalize(map[string]float64{"SPY": 0.25, "BND": 0.75}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
		percents, err := portfolio.Normalize(map[string]float64{"SPY": 25, "BND": 75}, portfolio.ConventionPercent, 0.01)
		Expect(err).To(BeNil())

		a, err := portfolio.Value(store, fractions, 10000, fullRange(store))
		Expect(err).To(BeNil())
		b, err := portfolio.Value(store, percents, 10000, fullRange(store))
		Expect(err).To(BeNil())

		Expect(b.Values()).To(Equal(a.Values()))
	})

	It("uses the first date common to every instrument as the baseline", func() {
		store := data.NewSnapshot(map[string]*dataframe.DataFrame{
			"SPY": priceSeries(start, []float64{100, 200, 300, 400}),
			"BND": priceSeries(start.AddDate(0, 0, 2), []float64{10, 20}),
		}, nil)
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 0.5, "BND": 0.5}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())

		series, err := portfolio.Value(store, alloc, 1000, fullRange(store))
		Expect(err).To(BeNil())
		Expect(series.Len()).To(Equal(2))
		Expect(series.Measurements[0].Date).To(Equal(start.AddDate(0, 0, 2)))
		Expect(series.Measurements[0].TotalValue).To(BeNumerically("~", 1000, 1e-9))
		// SPY 300 -> 400, BND 10 -> 20
		Expect(series.Measurements[1].TotalValue).To(BeNumerically("~", 500*4.0/3.0+1000, 1e-9))
	})

	It("gives zero weight instruments no contribution", func() {
		store := newStore(start, map[string][]float64{
			"SPY": {100, 110, 120},
			"BND": {0, 5, 10},
		})
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 1.0, "BND": 0}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())

		series, err := portfolio.Value(store, alloc, 1000, fullRange(store))
		Expect(err).To(BeNil())
		for _, m := range series.Measurements {
			Expect(m.Contributions[0]).To(BeNumerically("==", 0))
			Expect(m.Growth[0]).To(BeNumerically("==", 1.0), "non-positive first price grows at 1")
		}
	})

	Context("failure modes", func() {
		var (
			store *data.Snapshot
			alloc *portfolio.Allocation
		)

		BeforeEach(func() {
			store = newStore(start, map[string][]float64{
				"SPY": constant(100, 5),
				"BND": constant(50, 5),
			})
			var err error
			alloc, err = portfolio.Normalize(map[string]float64{"SPY": 0.5, "BND": 0.5}, portfolio.ConventionFraction, 0.01)
			Expect(err).To(BeNil())
		})

		It("rejects unsupported instruments before any computation", func() {
			bad, err := portfolio.Normalize(map[string]float64{"SPY": 0.5, "GBTC": 0.5}, portfolio.ConventionFraction, 0.01)
			Expect(err).To(BeNil())
			_, err = portfolio.Value(store, bad, 1000, data.Range{Start: start.AddDate(5, 0, 0), End: start.AddDate(6, 0, 0)})
			Expect(err).To(MatchError(common.ErrUnsupportedInstrument))
		})

		It("rejects non-positive investments", func() {
			_, err := portfolio.Value(store, alloc, 0, fullRange(store))
			Expect(err).To(MatchError(portfolio.ErrInvalidInvestment))
		})

		It("reports an empty range when the request is entirely before the data", func() {
			min, max := store.Bounds()
			r := data.ResolveRange("2015-01-01", "2016-01-01", min, max)
			_, err := portfolio.Value(store, alloc, 1000, r)
			Expect(err).To(MatchError(common.ErrEmptyRange))

			var e *common.Error
			Expect(errors.As(err, &e)).To(BeTrue())
			Expect(e.Instrument).To(Equal("BND"))
		})

		It("reports an empty range when instruments never overlap", func() {
			disjoint := data.NewSnapshot(map[string]*dataframe.DataFrame{
				"SPY": priceSeries(start, []float64{1, 2}),
				"BND": priceSeries(start.AddDate(0, 0, 5), []float64{1, 2}),
			}, nil)
			_, err := portfolio.Value(disjoint, alloc, 1000, fullRange(disjoint))
			Expect(err).To(MatchError(common.ErrEmptyRange))

			var e *common.Error
			Expect(errors.As(err, &e)).To(BeTrue())
			Expect(e.Instrument).To(Equal(""))
		})
	})

	Context("yearly returns", func() {
		It("uses only the rows in range and reports 0 for single row years", func() {
			dec30 := time.Date(2020, 12, 30, 0, 0, 0, 0, time.UTC)
			store := newStore(dec30, map[string][]float64{
				// Dec 30, Dec 31, Jan 1, Jan 2
				"SPY": {100, 110, 120, 132},
			})
			alloc, err := portfolio.Normalize(map[string]float64{"SPY": 1}, portfolio.ConventionFraction, 0.01)
			Expect(err).To(BeNil())

			r := data.Range{Start: dec30.AddDate(0, 0, 1), End: dec30.AddDate(0, 0, 3)}
			series, err := portfolio.Value(store, alloc, 1000, r)
			Expect(err).To(BeNil())
			Expect(series.YearlyReturns).To(HaveLen(2))
			Expect(series.YearlyReturns[0].Year).To(Equal(2020))
			Expect(series.YearlyReturns[0].Return).To(BeNumerically("==", 0))
			Expect(series.YearlyReturns[1].Year).To(Equal(2021))
			Expect(series.YearlyReturns[1].Return).To(BeNumerically("~", 0.1, 1e-12))
		})
	})
})
