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

package analytics

import (
	"context"
	"math"
	"strings"

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/correlation"
	"github.com/penny-vault/etfperf/data"
	"github.com/spf13/viper"
)

// DefaultCorrelationUniverse supplies the tickers of a correlation request
// that names neither tickers nor a universe
const DefaultCorrelationUniverse = "growth"

// Correlate computes the pairwise correlation matrix of the requested tickers.
// Tickers without data stay in the output as degenerate rows.
func (s *Service) Correlate(ctx context.Context, req *CorrelationRequest) (res *CorrelationResponse, err error) {
	ctx, span := s.startSpan(ctx, "Correlate")
	defer func() { endSpan(span, err) }()

	kind, err := correlation.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, snap, "correlation", req, func() (*CorrelationResponse, error) {
		tickers := upperAll(req.Tickers)

		switch {
		case len(tickers) == 0:
			name := req.Universe
			if name == "" {
				name = viper.GetString("correlation.universe")
			}
			if name == "" {
				name = DefaultCorrelationUniverse
			}
			universe, err := data.LookupUniverse(name)
			if err != nil {
				return nil, err
			}
			tickers = universe.Tickers
		case req.Universe != "":
			if err := checkUniverse(req.Universe, tickers); err != nil {
				return nil, err
			}
		}

		min, max := snap.Bounds(tickers...)
		r := data.ResolveRange(req.StartDate, req.EndDate, min, max)

		matrix := correlation.FromStore(snap, tickers, r, kind)

		return &CorrelationResponse{
			Tickers:           matrix.IDs,
			Kind:              kind,
			StartDate:         r.Start.Format(common.DateLayout),
			EndDate:           r.End.Format(common.DateLayout),
			CorrelationMatrix: matrix.Cells,
			Warnings:          r.Warnings(),
		}, nil
	})
}

// Candlestick returns the daily OHLCV rows of one instrument in range
func (s *Service) Candlestick(ctx context.Context, req *CandlestickRequest) (res *CandlestickResponse, err error) {
	_, span := s.startSpan(ctx, "Candlestick")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	df, ok := snap.Series(ticker)
	if !ok {
		return nil, common.UnsupportedInstrument(req.Ticker, snap.Tickers())
	}

	r := data.ResolveRange(req.StartDate, req.EndDate, df.Start(), df.End())
	filtered, err := data.FilterSeries(ticker, df, r)
	if err != nil {
		return nil, err
	}

	cols := make([][]float64, 5)
	for idx, metric := range []data.Metric{data.MetricOpen, data.MetricHigh, data.MetricLow, data.MetricClose, data.MetricVolume} {
		col, err := filtered.Column(string(metric))
		if err != nil {
			col = make([]float64, filtered.Len())
			for i := range col {
				col[i] = math.NaN()
			}
		}
		cols[idx] = col
	}

	res = &CandlestickResponse{
		Ticker:    ticker,
		StartDate: r.Start.Format(common.DateLayout),
		EndDate:   r.End.Format(common.DateLayout),
		Candles:   make([]*Candle, filtered.Len()),
		Warnings:  r.Warnings(),
	}

	for idx, date := range filtered.Dates {
		res.Candles[idx] = &Candle{
			Date:   date.Format(common.DateLayout),
			Open:   common.NullableFloat(cols[0][idx]),
			High:   common.NullableFloat(cols[1][idx]),
			Low:    common.NullableFloat(cols[2][idx]),
			Close:  common.NullableFloat(cols[3][idx]),
			Volume: common.NullableFloat(cols[4][idx]),
		}
	}

	return res, nil
}

// DateRange reports the dates covered by a universe, or by every instrument
// when universe is blank, and each instrument's total return in percent over
// its full history
func (s *Service) DateRange(ctx context.Context, universe string) (res *DateRangeResponse, err error) {
	_, span := s.startSpan(ctx, "DateRange")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	tickers := snap.Tickers()
	if universe != "" {
		u, err := data.LookupUniverse(universe)
		if err != nil {
			return nil, err
		}
		tickers = u.Tickers
	}

	min, max := snap.Bounds(tickers...)
	if min.IsZero() {
		return nil, common.EmptyRange("", min, max)
	}

	res = &DateRangeResponse{
		Universe:    universe,
		StartDate:   min.Format(common.DateLayout),
		EndDate:     max.Format(common.DateLayout),
		Instruments: make([]*InstrumentRange, 0, len(tickers)),
	}

	for _, ticker := range tickers {
		inst := &InstrumentRange{Ticker: ticker}
		if df, ok := snap.Series(ticker); ok && df.Len() > 0 {
			inst.StartDate = df.Start().Format(common.DateLayout)
			inst.EndDate = df.End().Format(common.DateLayout)
			inst.TotalReturn = historyReturn(snap, ticker)
		}
		res.Instruments = append(res.Instruments, inst)
	}

	return res, nil
}

// historyReturn is the percent change from the first to the last close,
// rounded to 2 decimal places. Any failure yields 0.
func historyReturn(store data.Store, ticker string) float64 {
	df, ok := store.Series(ticker)
	if !ok {
		return 0
	}

	closeDf, err := df.Select(string(data.MetricClose))
	if err != nil {
		return 0
	}

	closeDf = closeDf.DropNA()
	if closeDf.Len() == 0 {
		return 0
	}

	first := closeDf.Vals[0][0]
	last := closeDf.Vals[0][closeDf.Len()-1]
	if first == 0 {
		return 0
	}

	return common.Round(common.Finite((last/first-1)*100), 2)
}

// Universes lists the named instrument baskets a portfolio may be restricted to
func (s *Service) Universes(ctx context.Context) []*data.Universe {
	_, span := s.startSpan(ctx, "Universes")
	defer func() { endSpan(span, nil) }()
	return data.Universes()
}
