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
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/portfolio"
)

var _ = Describe("Allocation", func() {
	DescribeTable("parses conventions", func(input string, expected portfolio.Convention) {
		c, err := portfolio.ParseConvention(input)
		Expect(err).To(BeNil())
		Expect(c).To(Equal(expected))
	},
		Entry("empty", "", portfolio.ConventionFraction),
		Entry("fraction", "fraction", portfolio.ConventionFraction),
		Entry("percent", "Percent", portfolio.ConventionPercent),
	)

	It("rejects unknown conventions", func() {
		_, err := portfolio.ParseConvention("basis-points")
		Expect(err).To(MatchError(portfolio.ErrUnknownConvention))
	})

	It("accepts a sum within tolerance and rescales to exactly 1", func() {
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 0.5, "BND": 0.495}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
		Expect(alloc.Tickers).To(Equal([]string{"BND", "SPY"}))
		Expect(alloc.Weights[0] + alloc.Weights[1]).To(BeNumerically("~", 1.0, 1e-15))
		Expect(alloc.Weight("spy")).To(BeNumerically("~", 0.5/0.995, 1e-15))
	})

	It("rejects a sum outside tolerance with the computed sum", func() {
		_, err := portfolio.Normalize(map[string]float64{"SPY": 0.5, "BND": 0.47}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(MatchError(common.ErrInvalidAllocation))

		var e *common.Error
		Expect(errors.As(err, &e)).To(BeTrue())
		Expect(*e.Sum).To(BeNumerically("~", 0.97, 1e-12))
	})

	DescribeTable("accepts sums that deviate by exactly the tolerance", func(weights map[string]float64, convention portfolio.Convention) {
		alloc, err := portfolio.Normalize(weights, convention, 0.01)
		Expect(err).To(BeNil())

		sum := 0.0
		for _, w := range alloc.Weights {
			sum += w
		}
		Expect(sum).To(Equal(1.0))
	},
		Entry("fractions summing to 0.99", map[string]float64{"SPY": 0.5, "BND": 0.49}, portfolio.ConventionFraction),
		Entry("a single fraction of 0.99", map[string]float64{"SPY": 0.99}, portfolio.ConventionFraction),
		Entry("fractions summing to 1.01", map[string]float64{"SPY": 0.51, "BND": 0.5}, portfolio.ConventionFraction),
		Entry("four fractions summing to 0.99", map[string]float64{"SPY": 0.25, "BND": 0.25, "QQQ": 0.25, "GLD": 0.24}, portfolio.ConventionFraction),
		Entry("percentages summing to 99", map[string]float64{"SPY": 60, "BND": 39}, portfolio.ConventionPercent),
		Entry("percentages summing to 101", map[string]float64{"SPY": 61, "BND": 40}, portfolio.ConventionPercent),
	)

	It("rescales uneven thirds to a sum of exactly 1", func() {
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 0.333, "BND": 0.333, "QQQ": 0.329}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
		Expect(alloc.Weights[0] + alloc.Weights[1] + alloc.Weights[2]).To(Equal(1.0))
		Expect(alloc.Weight("QQQ")).To(BeNumerically("~", 0.329/0.995, 1e-12))
	})

	It("leaves zero weights at exactly zero when rescaling", func() {
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 0.333, "BND": 0.662, "ZZZ": 0}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
		Expect(alloc.Weight("ZZZ")).To(Equal(0.0))
		Expect(alloc.Weights[0] + alloc.Weights[1] + alloc.Weights[2]).To(Equal(1.0))
	})

	It("rejects sums just beyond the tolerance", func() {
		_, err := portfolio.Normalize(map[string]float64{"SPY": 60, "BND": 38.9}, portfolio.ConventionPercent, 0.01)
		Expect(err).To(MatchError(common.ErrInvalidAllocation))
	})

	It("reports missing weights with the sum of the valid ones", func() {
		_, err := portfolio.Normalize(map[string]float64{"SPY": math.NaN(), "BND": 0.5}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(MatchError(common.ErrInvalidAllocation))

		var e *common.Error
		Expect(errors.As(err, &e)).To(BeTrue())
		Expect(*e.Sum).To(Equal(0.5))
		Expect(e.Message).To(ContainSubstring("SPY"))
	})

	It("produces identical weights for equivalent percent and fraction inputs", func() {
		fractions, err := portfolio.Normalize(map[string]float64{"SPY": 0.6, "BND": 0.4}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
		percents, err := portfolio.Normalize(map[string]float64{"SPY": 60, "BND": 40}, portfolio.ConventionPercent, 0.01)
		Expect(err).To(BeNil())
		Expect(percents).To(Equal(fractions))
	})

	It("treats percentages under the fraction convention as invalid", func() {
		_, err := portfolio.Normalize(map[string]float64{"SPY": 60, "BND": 40}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(MatchError(common.ErrInvalidAllocation))
	})

	DescribeTable("rejects malformed weights", func(weights map[string]float64) {
		_, err := portfolio.Normalize(weights, portfolio.ConventionFraction, 0.01)
		Expect(err).To(MatchError(common.ErrInvalidAllocation))
	},
		Entry("no weights", map[string]float64{}),
		Entry("negative weight", map[string]float64{"SPY": 1.5, "BND": -0.5}),
		Entry("NaN weight", map[string]float64{"SPY": math.NaN()}),
		Entry("all zero", map[string]float64{"SPY": 0}),
	)

	It("merges tickers that differ only by case", func() {
		alloc, err := portfolio.Normalize(map[string]float64{"spy": 0.5, "SPY": 0.5}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
		Expect(alloc.Tickers).To(Equal([]string{"SPY"}))
		Expect(alloc.Weights).To(Equal([]float64{1.0}))
	})

	It("reports unsupported instruments with the supported list", func() {
		store := newStore(time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC), map[string][]float64{
			"SPY": constant(100, 3),
			"BND": constant(80, 3),
		})
		err := portfolio.CheckSupported(store, []string{"SPY", "GBTC"})
		Expect(err).To(MatchError(common.ErrUnsupportedInstrument))

		var e *common.Error
		Expect(errors.As(err, &e)).To(BeTrue())
		Expect(e.Instrument).To(Equal("GBTC"))
		Expect(e.Supported).To(Equal([]string{"BND", "SPY"}))
	})
})
