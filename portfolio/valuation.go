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

package portfolio

import (
	"errors"
	"math"
	"time"

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/dataframe"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidInvestment = errors.New("initial investment must be a positive number")
)

// Measurement is the state of the portfolio at the close of a day
type Measurement struct {
	Date             time.Time
	TotalValue       float64
	DailyReturn      float64 // NaN on the first day
	CumulativeReturn float64
	PeakValue        float64
	Drawdown         float64

	// Contributions and Growth are aligned with ValueSeries.Tickers
	Contributions []float64
	Growth        []float64
}

// YearlyReturn is the return of the portfolio over the rows of one calendar year
type YearlyReturn struct {
	Year   int
	Return float64
}

// ValueSeries is the daily value of a portfolio over a date range
type ValueSeries struct {
	Tickers           []string
	Weights           []float64
	InitialInvestment float64
	Range             data.Range

	// Prices are the joined close prices the series was computed from
	Prices *dataframe.DataFrame

	Measurements  []*Measurement
	YearlyReturns []*YearlyReturn
}

// Value reconstructs the daily value of initialInvestment split across the
// allocation and held from the first date in range. Every instrument is
// filtered to the range and the series are inner joined on date, so the first
// row of the joined table is the common baseline for every instrument.
func Value(store data.Store, alloc *Allocation, initialInvestment float64, r data.Range) (*ValueSeries, error) {
	if math.IsNaN(initialInvestment) || math.IsInf(initialInvestment, 0) || initialInvestment <= 0 {
		return nil, ErrInvalidInvestment
	}

	if err := CheckSupported(store, alloc.Tickers); err != nil {
		return nil, err
	}

	prices, err := closePrices(store, alloc.Tickers, r)
	if err != nil {
		return nil, err
	}

	log.Debug().Strs("Tickers", alloc.Tickers).Time("Start", r.Start).Time("End", r.End).Int("NumRows", prices.Len()).Msg("valuing portfolio")

	growth := prices.Growth()

	contributions := make([][]float64, len(alloc.Tickers))
	for idx, w := range alloc.Weights {
		contributions[idx] = make([]float64, prices.Len())
		if w == 0 {
			continue
		}
		floats.ScaleTo(contributions[idx], initialInvestment*w, growth.Vals[idx])
	}

	values := (&dataframe.DataFrame{
		Dates:    prices.Dates,
		ColNames: alloc.Tickers,
		Vals:     contributions,
	}).RowSum("Value")

	total := values.Vals[0]
	dailyReturn := values.PctChange().Vals[0]
	peak := values.CumMax().Vals[0]

	series := &ValueSeries{
		Tickers:           alloc.Tickers,
		Weights:           alloc.Weights,
		InitialInvestment: initialInvestment,
		Range:             r,
		Prices:            prices,
		Measurements:      make([]*Measurement, prices.Len()),
	}

	for rowIdx, dt := range prices.Dates {
		m := &Measurement{
			Date:          dt,
			TotalValue:    total[rowIdx],
			DailyReturn:   dailyReturn[rowIdx],
			PeakValue:     peak[rowIdx],
			Contributions: make([]float64, len(alloc.Tickers)),
			Growth:        make([]float64, len(alloc.Tickers)),
		}

		if total[0] != 0 {
			m.CumulativeReturn = total[rowIdx]/total[0] - 1
		}

		if m.PeakValue > 0 {
			m.Drawdown = m.TotalValue/m.PeakValue - 1
		}

		for colIdx := range alloc.Tickers {
			m.Contributions[colIdx] = contributions[colIdx][rowIdx]
			m.Growth[colIdx] = growth.Vals[colIdx][rowIdx]
		}

		series.Measurements[rowIdx] = m
	}

	series.YearlyReturns = yearlyReturns(values)

	return series, nil
}

// closePrices filters the close series of every ticker to the range and inner
// joins them on date. Missing closes are dropped before the join.
func closePrices(store data.Store, tickers []string, r data.Range) (*dataframe.DataFrame, error) {
	dfMap := make(dataframe.Map, len(tickers))
	for _, ticker := range tickers {
		df, ok := store.Series(ticker)
		if !ok {
			return nil, common.UnsupportedInstrument(ticker, store.Tickers())
		}

		closeDf, err := df.Select(string(data.MetricClose))
		if err != nil {
			return nil, err
		}

		filtered, err := data.FilterSeries(ticker, closeDf.Rename(ticker), r)
		if err != nil {
			return nil, err
		}

		filtered = filtered.DropNA()
		if filtered.Len() == 0 {
			return nil, r.EmptyRange(ticker)
		}

		dfMap[ticker] = filtered
	}

	joined := dfMap.Intersect(tickers...)
	if joined.Len() == 0 {
		return nil, r.EmptyRange("")
	}

	return joined, nil
}

// Len returns the number of days in the series
func (series *ValueSeries) Len() int {
	return len(series.Measurements)
}

// Values returns the total value of every day
func (series *ValueSeries) Values() []float64 {
	res := make([]float64, len(series.Measurements))
	for idx, m := range series.Measurements {
		res[idx] = m.TotalValue
	}
	return res
}

// Column names of ValueSeries.DataFrame
const (
	ColumnValue       = "Value"
	ColumnDailyReturn = "DailyReturn"
	ColumnDrawdown    = "Drawdown"
)

// DataFrame returns the total value, daily return and drawdown as a dataframe
func (series *ValueSeries) DataFrame() *dataframe.DataFrame {
	df := dataframe.New(ColumnValue, ColumnDailyReturn, ColumnDrawdown)
	for _, m := range series.Measurements {
		df.InsertRow(m.Date, m.TotalValue, m.DailyReturn, m.Drawdown)
	}
	return df
}

// yearlyReturns computes last/first - 1 over the rows of each calendar year in
// range. Years with fewer than 2 rows have a return of 0.
func yearlyReturns(values *dataframe.DataFrame) []*YearlyReturn {
	vals := values.Vals[0]
	years := values.Years()
	res := make([]*YearlyReturn, len(years))
	for idx, year := range years {
		yr := &YearlyReturn{Year: year.Year}
		if year.Len() >= 2 && vals[year.Begin] != 0 {
			yr.Return = common.Finite(vals[year.End-1]/vals[year.Begin] - 1)
		}
		res[idx] = yr
	}
	return res
}
