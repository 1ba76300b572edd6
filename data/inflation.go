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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penny-vault/etfperf/dataframe"
	"github.com/rs/zerolog/log"
)

// Inflation table files and their columns
const (
	MarketInflationFile = "spy_inflation.csv"
	BankValuesFile      = "bank_values.csv"

	ColumnNominal  = "nominal_inv_10k"
	ColumnReal     = "real_inv_10k"
	ColumnBankReal = "real_value"
)

// Inflation holds the inflation adjusted comparison tables. Market tracks a
// fixed investment in the market index in nominal and real terms; Bank is
// the real value of the same amount left on deposit. Either may be nil.
type Inflation struct {
	Market *dataframe.DataFrame
	Bank   *dataframe.DataFrame
}

// LoadInflation reads the market and bank tables from dir. Files that do not
// exist are skipped; nil is returned when neither does.
func LoadInflation(dir string) (*Inflation, error) {
	inflation := &Inflation{}

	var err error
	inflation.Market, err = readOptionalTable(filepath.Join(dir, MarketInflationFile), ColumnNominal, ColumnReal)
	if err != nil {
		return nil, err
	}

	inflation.Bank, err = readOptionalTable(filepath.Join(dir, BankValuesFile), ColumnBankReal)
	if err != nil {
		return nil, err
	}

	if inflation.Market == nil && inflation.Bank == nil {
		return nil, nil
	}
	return inflation, nil
}

func readOptionalTable(path string, columns ...string) (*dataframe.DataFrame, error) {
	fh, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("File", path).Msg("inflation table not present")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	df, err := ReadTable(fh, columns...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return df, nil
}

// ReadTable parses a delimited file with a header row into a dataframe holding
// the requested columns, matched case insensitively, indexed by the date
// column. Rows with an unparseable date are skipped and a repeated date keeps
// its last row.
func ReadTable(r io.Reader, columns ...string) (*dataframe.DataFrame, error) {
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
	dateIdx := findColumn(header, []string{"date"})
	if dateIdx < 0 {
		return nil, ErrNoDateColumn
	}

	colIdx := make([]int, len(columns))
	for idx, name := range columns {
		colIdx[idx] = findColumn(header, []string{name})
		if colIdx[idx] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	rows := make(map[time.Time][]float64, len(records)-1)
	for _, record := range records[1:] {
		dt, err := ParseDate(field(record, dateIdx))
		if err != nil {
			log.Debug().Str("Date", field(record, dateIdx)).Msg("skipping row with unparseable date")
			continue
		}

		vals := make([]float64, len(columns))
		for idx, c := range colIdx {
			vals[idx] = parseNumber(field(record, c))
		}
		rows[dt] = vals
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	dates := make([]time.Time, 0, len(rows))
	for dt := range rows {
		dates = append(dates, dt)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	names := make([]string, len(columns))
	for idx, name := range columns {
		names[idx] = strings.ToLower(name)
	}

	df := dataframe.New(names...)
	for _, dt := range dates {
		df.InsertRow(dt, rows[dt]...)
	}
	return df, nil
}
