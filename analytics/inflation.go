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

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/dataframe"
	"github.com/penny-vault/etfperf/portfolio"
	"github.com/spf13/viper"
)

// DefaultSampleEvery thins the inflation series when no frequency is asked for
const DefaultSampleEvery = 4

// Figures reported by InflationStats when the inflation.* keys are unset, in percent
const (
	DefaultLocalInflation  = 1.8
	DefaultGlobalInflation = 4.5
	DefaultBankInterest    = 0.5
	DefaultMarketReturnMin = 7.0
	DefaultMarketReturnMax = 10.0
)

// RealVsNominal returns the value of a fixed market investment in nominal and
// inflation adjusted terms
func (s *Service) RealVsNominal(ctx context.Context, req *InflationRequest) (res *RealVsNominalResponse, err error) {
	ctx, span := s.startSpan(ctx, "RealVsNominal")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	inflation, ok := snap.Inflation()
	if !ok || inflation.Market == nil {
		return nil, data.ErrNoInflationData
	}

	return cached(ctx, s, snap, "real-vs-nominal", req, func() (*RealVsNominalResponse, error) {
		df, r, err := sampleInflation(inflation.Market, req)
		if err != nil {
			return nil, err
		}

		nominal, _ := df.Column(data.ColumnNominal)
		realVals, _ := df.Column(data.ColumnReal)

		res := &RealVsNominalResponse{
			StartDate: r.Start.Format(common.DateLayout),
			EndDate:   r.End.Format(common.DateLayout),
			Points:    make([]*RealNominalPoint, df.Len()),
			Warnings:  r.Warnings(),
		}
		for idx, date := range df.Dates {
			res.Points[idx] = &RealNominalPoint{
				Date:    date.Format(common.DateLayout),
				Nominal: common.NullableFloat(nominal[idx]),
				Real:    common.NullableFloat(realVals[idx]),
			}
		}
		return res, nil
	})
}

// BankVsMarket compares the inflation adjusted value of money left on deposit
// with the same amount invested in the market, on the dates both tables share
func (s *Service) BankVsMarket(ctx context.Context, req *InflationRequest) (res *BankVsMarketResponse, err error) {
	ctx, span := s.startSpan(ctx, "BankVsMarket")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	inflation, ok := snap.Inflation()
	if !ok || inflation.Market == nil || inflation.Bank == nil {
		return nil, data.ErrNoInflationData
	}

	return cached(ctx, s, snap, "bank-vs-market", req, func() (*BankVsMarketResponse, error) {
		market, err := inflation.Market.Select(data.ColumnReal)
		if err != nil {
			return nil, err
		}

		joined := dataframe.Map{
			"bank_value":   inflation.Bank,
			"market_value": market,
		}.Intersect("bank_value", "market_value")
		if joined.Len() == 0 {
			return nil, data.ErrNoInflationData
		}

		df, r, err := sampleInflation(joined, req)
		if err != nil {
			return nil, err
		}

		res := &BankVsMarketResponse{
			StartDate: r.Start.Format(common.DateLayout),
			EndDate:   r.End.Format(common.DateLayout),
			Points:    make([]*BankMarketPoint, df.Len()),
			Warnings:  r.Warnings(),
		}
		for idx, date := range df.Dates {
			res.Points[idx] = &BankMarketPoint{
				Date:   date.Format(common.DateLayout),
				Bank:   common.NullableFloat(df.Vals[0][idx]),
				Market: common.NullableFloat(df.Vals[1][idx]),
			}
		}
		return res, nil
	})
}

// InflationStats reports the headline inflation and return figures from the
// inflation.* config keys. When the tables are loaded the annualized real
// returns of the market and of a bank deposit over the full history are
// added.
func (s *Service) InflationStats(ctx context.Context) (res *InflationStatsResponse, err error) {
	_, span := s.startSpan(ctx, "InflationStats")
	defer func() { endSpan(span, err) }()

	res = &InflationStatsResponse{
		LocalInflation:  configFloat("inflation.local", DefaultLocalInflation),
		GlobalInflation: configFloat("inflation.global", DefaultGlobalInflation),
		BankInterest:    configFloat("inflation.bank_interest", DefaultBankInterest),
		MarketReturnRange: &ReturnRange{
			Min: configFloat("inflation.market_return_min", DefaultMarketReturnMin),
			Max: configFloat("inflation.market_return_max", DefaultMarketReturnMax),
		},
	}

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	if inflation, ok := snap.Inflation(); ok {
		res.RealMarketReturn = realReturn(inflation.Market, data.ColumnReal)
		res.RealBankReturn = realReturn(inflation.Bank, data.ColumnBankReal)
	}

	return res, nil
}

// sampleInflation restricts df to the requested range and thins it either to
// the requested calendar frequency or to every nth row
func sampleInflation(df *dataframe.DataFrame, req *InflationRequest) (*dataframe.DataFrame, data.Range, error) {
	r := data.ResolveRange(req.StartDate, req.EndDate, df.Start(), df.End())
	filtered, err := data.FilterSeries("", df, r)
	if err != nil {
		return nil, r, err
	}

	if req.Frequency != "" {
		freq, err := dataframe.ParseFrequency(req.Frequency)
		if err != nil {
			return nil, r, err
		}
		return filtered.Frequency(freq), r, nil
	}

	n := req.SampleEvery
	if n <= 0 {
		n = viper.GetInt("inflation.sample_every")
	}
	if n <= 0 {
		n = DefaultSampleEvery
	}
	return filtered.Every(n), r, nil
}

// realReturn is the annualized growth of column in percent, rounded to 2
// places; nil when the table is absent or too short
func realReturn(df *dataframe.DataFrame, column string) *float64 {
	if df == nil {
		return nil
	}
	col, err := df.Column(column)
	if err != nil {
		return nil
	}

	first, last := -1, -1
	for idx, v := range col {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			if first < 0 {
				first = idx
			}
			last = idx
		}
	}
	if first < 0 || first == last {
		return nil
	}

	rate := portfolio.AnnualizedGrowth(col[first], col[last], df.Dates[first], df.Dates[last])
	return common.NullableFloat(common.Round(rate*100, 2))
}

func configFloat(key string, def float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return def
}
