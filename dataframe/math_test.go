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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/dataframe"
)

var _ = Describe("Math", func() {
	var (
		df *dataframe.DataFrame
	)

	BeforeEach(func() {
		df = &dataframe.DataFrame{
			Dates: []time.Time{
				time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 6, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 7, 0, 0, 0, 0, time.UTC),
			},
			ColNames: []string{"SPY", "BND"},
			Vals: [][]float64{
				{100, 110, 99, 120},
				{50, 50, 55, 44},
			},
		}
	})

	It("computes percent change with a leading NaN", func() {
		pct := df.PctChange()
		Expect(math.IsNaN(pct.Vals[0][0])).To(BeTrue())
		Expect(pct.Vals[0][1]).To(BeNumerically("~", 0.1, 1e-12))
		Expect(pct.Vals[0][2]).To(BeNumerically("~", -0.1, 1e-12))
		Expect(pct.Vals[1][3]).To(BeNumerically("~", -0.2, 1e-12))
	})

	It("computes the running maximum", func() {
		peak := df.CumMax()
		Expect(peak.Vals[0]).To(Equal([]float64{100, 110, 110, 120}))
		Expect(peak.Vals[1]).To(Equal([]float64{50, 50, 55, 55}))
	})

	It("running maximum skips NaN", func() {
		df.Vals[0][1] = math.NaN()
		peak := df.CumMax()
		Expect(peak.Vals[0]).To(Equal([]float64{100, 100, 100, 120}))
	})

	It("computes growth relative to the first row", func() {
		growth := df.Growth()
		Expect(growth.Vals[0][3]).To(BeNumerically("~", 1.2, 1e-12))
		Expect(growth.Vals[1][3]).To(BeNumerically("~", 0.88, 1e-12))
		Expect(df.Vals[0][0]).To(BeNumerically("==", 100.0), "source is not modified")
	})

	It("growth is flat when the first value is not positive", func() {
		df.Vals[1][0] = 0
		growth := df.Growth()
		Expect(growth.Vals[1]).To(Equal([]float64{1, 1, 1, 1}))
	})

	It("sums across rows", func() {
		sum := df.RowSum("total")
		Expect(sum.ColNames).To(Equal([]string{"total"}))
		Expect(sum.Vals[0]).To(Equal([]float64{150, 160, 154, 164}))
	})

	Context("statistics", func() {
		It("uses the sample standard deviation", func() {
			Expect(dataframe.StdDev([]float64{1, 2, 3, 4})).To(BeNumerically("~", 1.2909944487358056, 1e-12))
		})

		It("returns 0 for fewer than 2 samples", func() {
			Expect(dataframe.StdDev([]float64{1})).To(BeNumerically("==", 0.0))
			Expect(dataframe.StdDev([]float64{math.NaN(), 3})).To(BeNumerically("==", 0.0))
		})

		It("ignores non-finite values in the mean", func() {
			Expect(dataframe.Mean([]float64{math.NaN(), 2, 4, math.Inf(1)})).To(BeNumerically("~", 3.0, 1e-12))
			Expect(dataframe.Mean(nil)).To(BeNumerically("==", 0.0))
		})
	})
})
