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

package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	companyColumns  = []string{"Holdings", "Company", "Name", "Security"}
	symbolColumns   = []string{"Ticker", "Symbol"}
	sectorColumns   = []string{"Sector", "Category"}
	industryColumns = []string{"Industry", "Category", "Sector"}

	// percentColumns hold a share of the fund in percent
	percentColumns = []string{"Percent_of_Fund", "Weight", "% of Fund", "Weight (%)"}
)

const marketValueColumn = "Market_Value"

// ReadHoldingsFile loads the holdings of one ETF from disk
func ReadHoldingsFile(path string) ([]Holding, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	res, err := ReadHoldings(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return res, nil
}

// ReadHoldings parses an ETF holdings table. Weights are converted to fractions
// of the fund: percentage columns are divided by 100 and market values become
// their share of the total market value. Rows without a company are skipped.
func ReadHoldings(r io.Reader) ([]Holding, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, ErrNoRows
	}

	header := records[0]
	companyIdx := findColumn(header, companyColumns)
	if companyIdx == -1 {
		return nil, ErrNoCompanyColumn
	}

	byMarketValue := false
	weightIdx := findColumn(header, percentColumns)
	if weightIdx == -1 {
		weightIdx = findColumn(header, []string{marketValueColumn})
		byMarketValue = true
	}
	if weightIdx == -1 {
		return nil, ErrNoWeightColumn
	}

	symbolIdx := findColumn(header, symbolColumns)
	sectorIdx := findColumn(header, sectorColumns)
	industryIdx := findColumn(header, industryColumns)

	holdings := make([]Holding, 0, len(records)-1)
	total := 0.0
	for _, row := range records[1:] {
		company := field(row, companyIdx)
		if company == "" || company == "--" {
			continue
		}

		weight := parseNumber(field(row, weightIdx))
		if math.IsNaN(weight) {
			weight = 0
		}

		holdings = append(holdings, Holding{
			Company:  company,
			Symbol:   field(row, symbolIdx),
			Sector:   field(row, sectorIdx),
			Industry: field(row, industryIdx),
			Weight:   weight,
		})
		total += weight
	}

	for idx := range holdings {
		switch {
		case !byMarketValue:
			holdings[idx].Weight /= 100
		case total > 0:
			holdings[idx].Weight /= total
		default:
			holdings[idx].Weight = 0
		}
	}

	return holdings, nil
}

// findColumn returns the index of the first candidate present in header, -1 if none is
func findColumn(header []string, candidates []string) int {
	for _, candidate := range candidates {
		for idx, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), candidate) {
				return idx
			}
		}
	}
	return -1
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
