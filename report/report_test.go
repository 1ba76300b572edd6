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

package report_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/analytics"
	"github.com/penny-vault/etfperf/portfolio"
	"github.com/penny-vault/etfperf/report"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

var _ = Describe("Report", func() {
	DescribeTable("formats money",
		func(amount float64, currency, expected string) {
			Expect(report.FormatMoney(amount, currency)).To(Equal(expected))
		},
		Entry("dollars", 10450.0, "USD", "$10,450.00"),
		Entry("rounds cents", 1234.567, "usd", "$1,234.57"),
		Entry("unknown currency", 5.0, "XXXX", "$5.00"),
	)

	It("summarizes an analysis", func() {
		out := report.Summary(&analytics.AnalysisResponse{
			StartDate: "2021-01-04",
			EndDate:   "2021-01-13",
			Summary:   &analytics.ValueSummary{InitialValue: 10000, FinalValue: 10450, Growth: 450},
			Metrics:   &portfolio.RiskMetrics{TotalReturn: 0.045, RiskLevel: portfolio.RiskLow},
		}, "USD")
		Expect(out).To(ContainSubstring("$10,450.00"))
		Expect(out).To(ContainSubstring("4.50%"))
		Expect(out).To(ContainSubstring("Low"))
	})

	It("lists yearly returns", func() {
		out := report.YearlyReturns([]*analytics.YearlyReturn{{Year: 2020, YearlyReturn: 0.1}, {Year: 2021, YearlyReturn: -0.05}})
		Expect(out).To(ContainSubstring("2020"))
		Expect(out).To(ContainSubstring("10.00%"))
		Expect(out).To(ContainSubstring("-5.00%"))
	})

	It("reports when there are no drawdowns", func() {
		out := report.Drawdowns(&analytics.DrawdownResponse{MaxDrawdownDate: "2021-01-04"})
		Expect(out).To(ContainSubstring("NO DRAWDOWN PERIODS"))
	})

	Describe("charts", func() {
		It("renders the growth chart as a PNG", func() {
			img, err := report.GrowthChart([]*analytics.Point{
				{Date: "2021-01-04", TotalValue: 10000, PeakValue: 10000},
				{Date: "2021-01-05", TotalValue: 9500, PeakValue: 10000},
				{Date: "2021-01-06", TotalValue: 10200, PeakValue: 10200},
			})
			Expect(err).To(BeNil())
			Expect(bytes.HasPrefix(img, pngMagic)).To(BeTrue())
		})

		It("renders the drawdown chart as a PNG", func() {
			img, err := report.DrawdownChart([]*analytics.DrawdownPoint{
				{Date: "2021-01-04", Drawdown: 0},
				{Date: "2021-01-05", Drawdown: -0.05},
				{Date: "2021-01-06", Drawdown: 0},
			})
			Expect(err).To(BeNil())
			Expect(bytes.HasPrefix(img, pngMagic)).To(BeTrue())
		})

		It("needs at least two points", func() {
			_, err := report.GrowthChart([]*analytics.Point{{Date: "2021-01-04", TotalValue: 1}})
			Expect(errors.Is(err, report.ErrTooFewPoints)).To(BeTrue())
		})
	})
})
