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

package composition_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/composition"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/dataframe"
	"github.com/penny-vault/etfperf/portfolio"
)

var _ = Describe("Composition", func() {
	var (
		store *data.Snapshot
	)

	BeforeEach(func() {
		store = data.NewSnapshot(map[string]*dataframe.DataFrame{}, map[string][]data.Holding{
			"SPY": {
				{Company: "Apple Inc", Symbol: "AAPL", Sector: "Information Technology", Industry: "Hardware", Weight: 0.5},
				{Company: "Exxon Mobil Corp", Symbol: "XOM", Industry: "Oil", Weight: 0.3},
				{Company: "Mystery Widgets", Symbol: "MW", Industry: "Widgets", Weight: 0.2},
			},
			"QQQ": {
				{Company: "Apple Inc", Symbol: "AAPL", Sector: "Information Technology", Industry: "Hardware", Weight: 0.6},
				{Company: "Netflix Inc", Symbol: "NFLX", Sector: "-", Industry: "Media", Weight: 0.4},
			},
		})
	})

	It("weights companies by the ETF allocation", func() {
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 0.5, "QQQ": 0.5}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())

		breakdown, err := composition.LookThrough(store, alloc)
		Expect(err).To(BeNil())

		Expect(breakdown.Companies).To(HaveLen(4))
		Expect(breakdown.Companies[0].Company).To(Equal("Apple Inc"))
		Expect(breakdown.Companies[0].Weight).To(BeNumerically("~", 0.55, 1e-12))
		Expect(breakdown.Companies[0].ETFs).To(Equal([]string{"QQQ", "SPY"}))
		Expect(breakdown.Companies[1].Company).To(Equal("Netflix Inc"))
		Expect(breakdown.Companies[1].Sector).To(Equal(composition.SectorCommunication))

		sum := 0.0
		for _, c := range breakdown.Companies {
			sum += c.Weight
		}
		Expect(sum).To(BeNumerically("~", breakdown.Total, 1e-12))
		Expect(breakdown.Total).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("aggregates industries and classified sectors", func() {
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 1.0}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())

		breakdown, err := composition.LookThrough(store, alloc)
		Expect(err).To(BeNil())

		Expect(breakdown.Industries).To(HaveLen(3))
		Expect(breakdown.Industries[0].Name).To(Equal("Hardware"))

		Expect(breakdown.Sectors).To(HaveLen(3))
		Expect(breakdown.Sectors[0].Name).To(Equal(composition.SectorTechnology))
		Expect(breakdown.Sectors[1].Name).To(Equal(composition.SectorEnergy))
		Expect(breakdown.Sectors[1].Weight).To(BeNumerically("~", 0.3, 1e-12))
		Expect(breakdown.Sectors[2].Name).To(Equal(composition.SectorUnknown))
	})

	It("folds companies beyond the top 50 into Others", func() {
		holdings := make([]data.Holding, 60)
		for idx := range holdings {
			holdings[idx] = data.Holding{
				Company: fmt.Sprintf("Company %02d", idx),
				Sector:  "Industrials",
				Weight:  float64(60-idx) / 1830.0,
			}
		}
		big := data.NewSnapshot(nil, map[string][]data.Holding{"VTI": holdings})
		alloc, err := portfolio.Normalize(map[string]float64{"VTI": 1.0}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())

		breakdown, err := composition.LookThrough(big, alloc)
		Expect(err).To(BeNil())
		Expect(breakdown.Companies).To(HaveLen(composition.TopCompanies + 1))
		Expect(breakdown.Companies[0].Company).To(Equal("Company 00"))

		others := breakdown.Companies[composition.TopCompanies]
		Expect(others.Company).To(Equal(composition.OthersLabel))
		// the ten smallest weights: 10 + 9 + ... + 1
		Expect(others.Weight).To(BeNumerically("~", 55.0/1830.0, 1e-12))

		sum := 0.0
		for _, c := range breakdown.Companies {
			sum += c.Weight
		}
		Expect(sum).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("skips zero weight ETFs and rejects ETFs without holdings", func() {
		alloc, err := portfolio.Normalize(map[string]float64{"SPY": 1.0, "BND": 0}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
		_, err = composition.LookThrough(store, alloc)
		Expect(err).To(BeNil())

		alloc, err = portfolio.Normalize(map[string]float64{"SPY": 0.5, "BND": 0.5}, portfolio.ConventionFraction, 0.01)
		Expect(err).To(BeNil())
		_, err = composition.LookThrough(store, alloc)
		Expect(err).To(MatchError(common.ErrUnsupportedInstrument))
	})
})

var _ = Describe("Sector classification", func() {
	DescribeTable("classifies company names", func(company, sector string) {
		Expect(composition.ClassifySector(company)).To(Equal(sector))
	},
		Entry("direct keyword", "MICROSOFT CORP", composition.SectorTechnology),
		Entry("keyword within name", "JPMORGAN CHASE & CO", composition.SectorFinancials),
		Entry("plus separated special case", "PROCTER + GAMBLE CO", composition.SectorStaples),
		Entry("lower case", "Eli Lilly and Co", composition.SectorHealthCare),
		Entry("ticker abbreviation", "GOOGL CLASS A", composition.SectorCommunication),
		Entry("unknown", "Acme Widgets", composition.SectorUnknown),
	)

	DescribeTable("cleans company names", func(input, expected string) {
		Expect(composition.CleanCompanyName(input)).To(Equal(expected))
	},
		Entry("suffixes", "Apple Inc.", "APPLE"),
		Entry("class shares", "Alphabet Inc Class A", "ALPHABET"),
		Entry("plus sign", "S+P Global Inc", "S P GLOBAL"),
		Entry("ampersand", "Johnson + Johnson", "JOHNSON & JOHNSON"),
	)
})
