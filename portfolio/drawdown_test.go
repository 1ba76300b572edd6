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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/portfolio"
)

var _ = Describe("Drawdown analysis", func() {
	var (
		start time.Time
	)

	BeforeEach(func() {
		start = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	})

	It("finds a V-shaped drawdown", func() {
		// 100 -> 80 -> 100 then flat
		series := valueSeries(start, []float64{100, 97, 94, 88, 80, 86, 93, 99.5, 100, 100})
		analysis := portfolio.AnalyzeDrawdowns(series)

		Expect(analysis.MaxDrawdown).To(BeNumerically("~", -0.2, 1e-12))
		Expect(analysis.MaxDrawdownDate).To(Equal(start.AddDate(0, 0, 4)))
		Expect(analysis.SevereDays).To(Equal(3))

		Expect(analysis.Periods).To(HaveLen(1))
		period := analysis.Periods[0]
		Expect(period.Start).To(Equal(start.AddDate(0, 0, 2)))
		Expect(period.End).To(Equal(start.AddDate(0, 0, 7)))
		Expect(period.MaxDrawdown).To(BeNumerically("~", -0.2, 1e-12))
		Expect(period.RecoveryDays).To(Equal(5))
		Expect(period.Recovered).To(BeTrue())
	})

	It("reports a period that has not recovered", func() {
		series := valueSeries(start, []float64{100, 90, 85, 92})
		analysis := portfolio.AnalyzeDrawdowns(series)
		Expect(analysis.Periods).To(HaveLen(1))
		Expect(analysis.Periods[0].Recovered).To(BeFalse())
		Expect(analysis.Periods[0].End).To(Equal(start.AddDate(0, 0, 3)))
		Expect(analysis.Periods[0].RecoveryDays).To(Equal(2))
	})

	It("ignores shallow dips", func() {
		series := valueSeries(start, []float64{100, 97, 96, 100})
		analysis := portfolio.AnalyzeDrawdowns(series)
		Expect(analysis.Periods).To(BeEmpty())
		Expect(analysis.SevereDays).To(Equal(0))
	})
})

var _ = Describe("Instruments", func() {
	var (
		start time.Time
		store *data.Snapshot
		alloc *portfolio.Allocation
	)

	BeforeEach(func() {
		start = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
		store = newStore(start, map[string][]float64{
			"SPY": {100, 110, 121},
			"BND": {50, 50, 50},
		})
		var err error
		alloc, err = portfolio.Normalize(map[string]float64{"SPY": 0.6, "BND": 0.4}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
	})

	It("computes each instrument's own performance", func() {
		series, err := portfolio.Value(store, alloc, 1000, fullRange(store))
		Expect(err).To(BeNil())

		perfs := portfolio.InstrumentPerformances(series)
		Expect(perfs).To(HaveLen(2))
		Expect(perfs[0].Ticker).To(Equal("BND"))
		Expect(perfs[0].TotalReturn).To(BeNumerically("==", 0))
		Expect(perfs[0].Volatility).To(BeNumerically("==", 0))
		Expect(perfs[1].Ticker).To(Equal("SPY"))
		Expect(perfs[1].FirstPrice).To(BeNumerically("==", 100))
		Expect(perfs[1].LastPrice).To(BeNumerically("==", 121))
		Expect(perfs[1].TotalReturn).To(BeNumerically("~", 0.21, 1e-12))
		Expect(perfs[1].Weight).To(BeNumerically("~", 0.6, 1e-12))
	})

	It("weights traded volume by allocation", func() {
		analysis, err := portfolio.WeightedVolume(store, alloc, fullRange(store))
		Expect(err).To(BeNil())
		Expect(analysis.Instruments).To(HaveLen(2))
		Expect(analysis.Combined.Len()).To(Equal(3))
		// every instrument trades 1000 shares a day
		Expect(analysis.Combined.Vals[0][0]).To(BeNumerically("~", 1000, 1e-9))
	})
})
