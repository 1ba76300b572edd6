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
	"sort"
	"strings"
	"time"

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/dataframe"
)

var _ Store = (*Snapshot)(nil)

// Snapshot is an immutable copy of the reference data. It is safe for
// concurrent readers; nothing modifies a snapshot once it is published.
type Snapshot struct {
	Version  uint64
	LoadedAt time.Time

	series    map[string]*dataframe.DataFrame
	holdings  map[string][]Holding
	tickers   []string
	inflation *Inflation
}

// NewSnapshot builds a snapshot from price series keyed by ticker and holdings
// keyed by ETF ticker. Keys are upper cased.
func NewSnapshot(series map[string]*dataframe.DataFrame, holdings map[string][]Holding) *Snapshot {
	snap := &Snapshot{
		LoadedAt: time.Now(),
		series:   make(map[string]*dataframe.DataFrame, len(series)),
		holdings: make(map[string][]Holding, len(holdings)),
		tickers:  make([]string, 0, len(series)),
	}

	for ticker, df := range series {
		ticker = strings.ToUpper(ticker)
		snap.series[ticker] = df
		snap.tickers = append(snap.tickers, ticker)
	}
	sort.Strings(snap.tickers)

	for ticker, rows := range holdings {
		snap.holdings[strings.ToUpper(ticker)] = rows
	}

	return snap
}

// WithInflation attaches the inflation tables. It must be called before the
// snapshot is published.
func (snap *Snapshot) WithInflation(inflation *Inflation) *Snapshot {
	snap.inflation = inflation
	return snap
}

// Inflation returns the inflation tables, false when none were loaded
func (snap *Snapshot) Inflation() (*Inflation, bool) {
	return snap.inflation, snap.inflation != nil
}

// Series returns the price series of ticker
func (snap *Snapshot) Series(ticker string) (*dataframe.DataFrame, bool) {
	df, ok := snap.series[strings.ToUpper(ticker)]
	return df, ok
}

// Holdings returns the company holdings of an ETF
func (snap *Snapshot) Holdings(ticker string) ([]Holding, bool) {
	rows, ok := snap.holdings[strings.ToUpper(ticker)]
	return rows, ok
}

// Tickers returns every instrument with price data, sorted
func (snap *Snapshot) Tickers() []string {
	res := make([]string, len(snap.tickers))
	copy(res, snap.tickers)
	return res
}

// HoldingsTickers returns every ETF with holdings data, sorted
func (snap *Snapshot) HoldingsTickers() []string {
	res := make([]string, 0, len(snap.holdings))
	for ticker := range snap.holdings {
		res = append(res, ticker)
	}
	sort.Strings(res)
	return res
}

// Bounds returns the earliest and latest date of the requested tickers, or of
// every instrument when none are given. Unknown tickers are ignored; zero times
// are returned when nothing matches.
func (snap *Snapshot) Bounds(tickers ...string) (time.Time, time.Time) {
	if len(tickers) == 0 {
		tickers = snap.tickers
	}

	var min, max time.Time
	for _, ticker := range tickers {
		df, ok := snap.Series(ticker)
		if !ok || df.Len() == 0 {
			continue
		}
		if min.IsZero() {
			min, max = df.Start(), df.End()
			continue
		}
		min = common.MinTime(min, df.Start())
		max = common.MaxTime(max, df.End())
	}

	return min, max
}
