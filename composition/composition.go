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

// Package composition looks through a portfolio of ETFs to the companies,
// industries and sectors they hold.
package composition

import (
	"sort"
	"strings"

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/portfolio"
	"github.com/rs/zerolog/log"
)

const (
	// TopCompanies is the number of companies listed before the rest are
	// folded into Others
	TopCompanies = 50

	OthersLabel  = "Others"
	VariousLabel = "Various"
)

type CompanyWeight struct {
	Company string
	Symbol  string
	Sector  string

	// Weight is the fraction of the portfolio held in the company
	Weight float64

	// ETFs holding the company, in allocation order
	ETFs []string
}

type GroupWeight struct {
	Name   string
	Weight float64
}

type ETFHoldings struct {
	Ticker   string
	Weight   float64
	Holdings []data.Holding
}

type Breakdown struct {
	// Companies sorted by weight descending; at most TopCompanies entries
	// followed by an Others bucket
	Companies  []*CompanyWeight
	Industries []*GroupWeight
	Sectors    []*GroupWeight

	// Total is the portfolio weight covered by the holdings data
	Total float64

	ETFs []*ETFHoldings
}

// LookThrough weights the holdings of every ETF in alloc by the ETF's share of
// the portfolio. Zero weight ETFs are skipped; any other ETF without holdings
// fails with UnsupportedInstrument.
func LookThrough(store data.Store, alloc *portfolio.Allocation) (*Breakdown, error) {
	res := &Breakdown{
		Companies:  make([]*CompanyWeight, 0),
		Industries: make([]*GroupWeight, 0),
		Sectors:    make([]*GroupWeight, 0),
		ETFs:       make([]*ETFHoldings, 0, len(alloc.Tickers)),
	}

	companies := make(map[string]*CompanyWeight)
	industries := make(map[string]float64)
	sectors := make(map[string]float64)

	for idx, ticker := range alloc.Tickers {
		etfWeight := alloc.Weights[idx]
		if etfWeight == 0 {
			continue
		}

		holdings, ok := store.Holdings(ticker)
		if !ok {
			return nil, common.UnsupportedInstrument(ticker, store.HoldingsTickers())
		}

		classified := make([]data.Holding, len(holdings))
		for holdingIdx, holding := range holdings {
			if !knownSector(holding.Sector) {
				holding.Sector = ClassifySector(holding.Company)
			}
			classified[holdingIdx] = holding

			w := etfWeight * holding.Weight
			res.Total += w

			company, ok := companies[holding.Company]
			if !ok {
				company = &CompanyWeight{
					Company: holding.Company,
					Symbol:  holding.Symbol,
					Sector:  holding.Sector,
				}
				companies[holding.Company] = company
			}
			company.Weight += w
			if len(company.ETFs) == 0 || company.ETFs[len(company.ETFs)-1] != ticker {
				company.ETFs = append(company.ETFs, ticker)
			}

			industries[groupName(holding.Industry)] += w
			sectors[groupName(holding.Sector)] += w
		}

		res.ETFs = append(res.ETFs, &ETFHoldings{
			Ticker:   ticker,
			Weight:   etfWeight,
			Holdings: classified,
		})
	}

	sorted := make([]*CompanyWeight, 0, len(companies))
	for _, company := range companies {
		sorted = append(sorted, company)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			return sorted[i].Weight > sorted[j].Weight
		}
		return sorted[i].Company < sorted[j].Company
	})

	if len(sorted) > TopCompanies {
		others := &CompanyWeight{
			Company: OthersLabel,
			Sector:  VariousLabel,
			ETFs:    []string{},
		}
		for _, company := range sorted[TopCompanies:] {
			others.Weight += company.Weight
		}
		sorted = append(sorted[:TopCompanies], others)
	}

	res.Companies = sorted
	res.Industries = sortGroups(industries)
	res.Sectors = sortGroups(sectors)

	log.Debug().Int("NumCompanies", len(companies)).Float64("Total", res.Total).Msg("computed portfolio look-through")

	return res, nil
}

func groupName(name string) string {
	if !knownSector(name) {
		return SectorUnknown
	}
	return strings.TrimSpace(name)
}

func sortGroups(groups map[string]float64) []*GroupWeight {
	res := make([]*GroupWeight, 0, len(groups))
	for name, w := range groups {
		res = append(res, &GroupWeight{Name: name, Weight: w})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Weight != res[j].Weight {
			return res[i].Weight > res[j].Weight
		}
		return res[i].Name < res[j].Name
	})
	return res
}
