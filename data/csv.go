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
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/etfperf/dataframe"
	"github.com/rs/zerolog/log"
)

// Layout identifies how a price file is organized
type Layout string

const (
	// LayoutStandard has a single header row naming Date and the OHLCV columns
	LayoutStandard Layout = "standard"

	// LayoutMultiHeader is the yfinance export: a metric row, a "Ticker" row and
	// a "Date" row precede the data
	LayoutMultiHeader Layout = "multi-header"

	// LayoutWide has a Date column followed by one close price column per ticker
	LayoutWide Layout = "wide"
)

type column struct {
	ticker string
	metric Metric
}

// ReadPriceFile loads a price file from disk. Tickers of single instrument files
// are taken from the file name.
func ReadPriceFile(path string) (map[string]*dataframe.DataFrame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	res, err := ReadPrices(fh, TickerFromFilename(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return res, nil
}

// TickerFromFilename derives an instrument ticker from a file name, e.g.
// "brk-b_prices.csv" is BRK-B
func TickerFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if idx := strings.Index(base, "_"); idx > 0 {
		base = base[:idx]
	}
	return strings.ToUpper(strings.TrimSpace(base))
}

// ReadPrices parses delimited price data in any supported layout into one series
// per ticker. defaultTicker names the series of standard layout files.
func ReadPrices(r io.Reader, defaultTicker string) (map[string]*dataframe.DataFrame, error) {
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

	layout, columns, dataRows, err := sniffLayout(records, defaultTicker)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("Layout", string(layout)).Str("DefaultTicker", defaultTicker).Int("NumColumns", len(columns)).Int("NumRows", len(dataRows)).Msg("parsing price data")

	return buildSeries(columns, dataRows), nil
}

// sniffLayout determines the layout of records and maps each column after the
// first onto a ticker and metric
func sniffLayout(records [][]string, defaultTicker string) (Layout, []column, [][]string, error) {
	header := records[0]

	if len(records) >= 3 && strings.EqualFold(strings.TrimSpace(records[1][0]), "ticker") {
		tickers := records[1]
		columns := make([]column, len(header))
		for idx := 1; idx < len(header); idx++ {
			metric, ok := metricFromHeader(header[idx])
			ticker := ""
			if idx < len(tickers) {
				ticker = strings.ToUpper(strings.TrimSpace(tickers[idx]))
			}
			if ticker == "" {
				ticker = defaultTicker
			}
			if ok {
				columns[idx] = column{ticker: ticker, metric: metric}
			}
		}

		// skip the metric, ticker and date rows
		start := 2
		if strings.EqualFold(strings.TrimSpace(records[2][0]), "date") {
			start = 3
		}
		return LayoutMultiHeader, columns, records[start:], nil
	}

	if !strings.Contains(strings.ToLower(header[0]), "date") {
		return "", nil, nil, ErrNoDateColumn
	}

	columns := make([]column, len(header))
	standard := false
	for idx := 1; idx < len(header); idx++ {
		if metric, ok := metricFromHeader(header[idx]); ok {
			standard = true
			columns[idx] = column{ticker: defaultTicker, metric: metric}
		}
	}

	if standard {
		preferClose(header, columns)
		return LayoutStandard, columns, records[1:], nil
	}

	for idx := 1; idx < len(header); idx++ {
		ticker := strings.ToUpper(strings.TrimSpace(header[idx]))
		if ticker != "" {
			columns[idx] = column{ticker: ticker, metric: MetricClose}
		}
	}

	return LayoutWide, columns, records[1:], nil
}

// metricFromHeader maps a column header onto a metric; "Adj Close" counts as close
func metricFromHeader(h string) (Metric, bool) {
	h = strings.ToLower(strings.TrimSpace(h))
	switch {
	case strings.Contains(h, "close") || strings.HasPrefix(h, "adj"):
		return MetricClose, true
	case strings.Contains(h, "high"):
		return MetricHigh, true
	case strings.Contains(h, "low"):
		return MetricLow, true
	case strings.Contains(h, "open"):
		return MetricOpen, true
	case strings.Contains(h, "volume"):
		return MetricVolume, true
	}
	return "", false
}

// preferClose drops an adjusted close column when the file also has a plain close
func preferClose(header []string, columns []column) {
	hasPlain := false
	for idx := 1; idx < len(header); idx++ {
		if strings.EqualFold(strings.TrimSpace(header[idx]), "close") {
			hasPlain = true
		}
	}

	if !hasPlain {
		return
	}

	for idx := 1; idx < len(header); idx++ {
		if columns[idx].metric == MetricClose && !strings.EqualFold(strings.TrimSpace(header[idx]), "close") {
			columns[idx] = column{}
		}
	}
}

func buildSeries(columns []column, rows [][]string) map[string]*dataframe.DataFrame {
	// ticker -> date -> bar; later rows overwrite earlier ones
	bars := make(map[string]map[time.Time]*Bar)

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		date, err := ParseDate(row[0])
		if err != nil {
			log.Debug().Str("Value", row[0]).Msg("skipping row with unparseable date")
			continue
		}

		for idx := 1; idx < len(row) && idx < len(columns); idx++ {
			col := columns[idx]
			if col.ticker == "" {
				continue
			}

			tickerBars, ok := bars[col.ticker]
			if !ok {
				tickerBars = make(map[time.Time]*Bar)
				bars[col.ticker] = tickerBars
			}

			bar, ok := tickerBars[date]
			if !ok {
				bar = newBar(date)
				tickerBars[date] = bar
			}

			bar.set(col.metric, parseNumber(row[idx]))
		}
	}

	res := make(map[string]*dataframe.DataFrame, len(bars))
	for ticker, tickerBars := range bars {
		res[ticker] = barsToDataFrame(tickerBars)
	}

	return res
}

func newBar(date time.Time) *Bar {
	return &Bar{
		Date:   date,
		Open:   math.NaN(),
		High:   math.NaN(),
		Low:    math.NaN(),
		Close:  math.NaN(),
		Volume: math.NaN(),
	}
}

func (bar *Bar) set(metric Metric, val float64) {
	switch metric {
	case MetricOpen:
		bar.Open = val
	case MetricHigh:
		bar.High = val
	case MetricLow:
		bar.Low = val
	case MetricClose:
		bar.Close = val
	case MetricVolume:
		bar.Volume = val
	}
}

func barsToDataFrame(bars map[time.Time]*Bar) *dataframe.DataFrame {
	sorted := make([]*Bar, 0, len(bars))
	for _, bar := range bars {
		sorted = append(sorted, bar)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	df := dataframe.New(metricNames()...)
	for _, bar := range sorted {
		df.InsertRow(bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}
	return df
}

// parseNumber accepts values like "1,234.5", "$12.00" and "4.5%"; blanks are NaN
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "$", "", "%", "").Replace(s)
	if s == "" {
		return math.NaN()
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return val
}
