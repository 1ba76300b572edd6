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

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/composition"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/portfolio"
	"github.com/rs/zerolog/log"
)

// Analyze computes the value series, yearly returns and risk metrics of a
// portfolio
func (s *Service) Analyze(ctx context.Context, req *PortfolioRequest) (res *AnalysisResponse, err error) {
	ctx, span := s.startSpan(ctx, "Analyze")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, snap, "analyze", req, func() (*AnalysisResponse, error) {
		series, r, err := s.value(snap, req)
		if err != nil {
			return nil, err
		}

		metrics, err := portfolio.ComputeMetrics(series, s.riskFreeRate)
		if err != nil {
			return nil, err
		}

		log.Debug().Object("Metrics", metrics).Object("Allocation", &portfolio.Allocation{Tickers: series.Tickers, Weights: series.Weights}).Msg("analyzed portfolio")

		return &AnalysisResponse{
			StartDate:       r.Start.Format(common.DateLayout),
			EndDate:         r.End.Format(common.DateLayout),
			PortfolioSeries: points(series),
			YearlyReturns:   yearlyReturns(series.YearlyReturns),
			Metrics:         metrics,
			Summary:         valueSummary(portfolio.SummarizeValue(series)),
			Warnings:        r.Warnings(),
		}, nil
	})
}

// Drawdown reports the drawdown series and the periods the portfolio spent
// in drawdown
func (s *Service) Drawdown(ctx context.Context, req *PortfolioRequest) (res *DrawdownResponse, err error) {
	ctx, span := s.startSpan(ctx, "Drawdown")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, snap, "drawdown", req, func() (*DrawdownResponse, error) {
		series, r, err := s.value(snap, req)
		if err != nil {
			return nil, err
		}

		analysis := portfolio.AnalyzeDrawdowns(series)

		resp := &DrawdownResponse{
			StartDate:       r.Start.Format(common.DateLayout),
			EndDate:         r.End.Format(common.DateLayout),
			DrawdownSeries:  make([]*DrawdownPoint, series.Len()),
			MaxDrawdown:     common.Finite(analysis.MaxDrawdown),
			MaxDrawdownDate: analysis.MaxDrawdownDate.Format(common.DateLayout),
			SevereDays:      analysis.SevereDays,
			Periods:         make([]*DrawdownPeriod, len(analysis.Periods)),
			Warnings:        r.Warnings(),
		}

		for idx, m := range series.Measurements {
			resp.DrawdownSeries[idx] = &DrawdownPoint{
				Date:     m.Date.Format(common.DateLayout),
				Drawdown: common.Finite(m.Drawdown),
			}
		}

		for idx, period := range analysis.Periods {
			resp.Periods[idx] = &DrawdownPeriod{
				StartDate:    period.Start.Format(common.DateLayout),
				EndDate:      period.End.Format(common.DateLayout),
				MaxDrawdown:  common.Finite(period.MaxDrawdown),
				RecoveryDays: period.RecoveryDays,
				Recovered:    period.Recovered,
			}
		}

		return resp, nil
	})
}

// YearlyReturns reports the calendar year returns and their summary
func (s *Service) YearlyReturns(ctx context.Context, req *PortfolioRequest) (res *YearlyReturnsResponse, err error) {
	ctx, span := s.startSpan(ctx, "YearlyReturns")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, snap, "yearly", req, func() (*YearlyReturnsResponse, error) {
		series, r, err := s.value(snap, req)
		if err != nil {
			return nil, err
		}

		summary := portfolio.SummarizeYears(series.YearlyReturns)
		resp := &YearlyReturnsResponse{
			StartDate:     r.Start.Format(common.DateLayout),
			EndDate:       r.End.Format(common.DateLayout),
			YearlyReturns: yearlyReturns(series.YearlyReturns),
			AverageReturn: summary.AverageReturn,
			PositiveYears: summary.PositiveYears,
			NegativeYears: summary.NegativeYears,
			Warnings:      r.Warnings(),
		}

		if summary.Best != nil {
			resp.BestYear = &YearlyReturn{Year: summary.Best.Year, YearlyReturn: common.Finite(summary.Best.Return)}
			resp.WorstYear = &YearlyReturn{Year: summary.Worst.Year, YearlyReturn: common.Finite(summary.Worst.Return)}
		}

		return resp, nil
	})
}

// Instruments reports the performance of each instrument in the portfolio
// along with the normalized growth of the instruments that carry weight
func (s *Service) Instruments(ctx context.Context, req *PortfolioRequest) (res *InstrumentsResponse, err error) {
	ctx, span := s.startSpan(ctx, "Instruments")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, snap, "instruments", req, func() (*InstrumentsResponse, error) {
		series, r, err := s.value(snap, req)
		if err != nil {
			return nil, err
		}

		perfs := portfolio.InstrumentPerformances(series)
		resp := &InstrumentsResponse{
			StartDate:   r.Start.Format(common.DateLayout),
			EndDate:     r.End.Format(common.DateLayout),
			Instruments: make([]*Instrument, len(perfs)),
			Warnings:    r.Warnings(),
		}

		for idx, perf := range perfs {
			inst := &Instrument{
				Ticker:      perf.Ticker,
				Weight:      perf.Weight,
				FirstPrice:  perf.FirstPrice,
				LastPrice:   perf.LastPrice,
				TotalReturn: perf.TotalReturn,
				Volatility:  perf.Volatility,
			}
			if perf.Weight != 0 {
				inst.Growth = make([]*GrowthPoint, series.Len())
				for rowIdx, m := range series.Measurements {
					inst.Growth[rowIdx] = &GrowthPoint{
						Date:  m.Date.Format(common.DateLayout),
						Value: common.Finite(m.Growth[idx]),
					}
				}
			}
			resp.Instruments[idx] = inst
		}

		return resp, nil
	})
}

// Volume reports the traded volume of each instrument and the allocation
// weighted volume of the portfolio
func (s *Service) Volume(ctx context.Context, req *PortfolioRequest) (res *VolumeResponse, err error) {
	ctx, span := s.startSpan(ctx, "Volume")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, snap, "volume", req, func() (*VolumeResponse, error) {
		alloc, err := s.allocation(snap, req, true)
		if err != nil {
			return nil, err
		}

		min, max := snap.Bounds(alloc.Tickers...)
		r := data.ResolveRange(req.StartDate, req.EndDate, min, max)

		analysis, err := portfolio.WeightedVolume(snap, alloc, r)
		if err != nil {
			return nil, err
		}

		resp := &VolumeResponse{
			StartDate:   r.Start.Format(common.DateLayout),
			EndDate:     r.End.Format(common.DateLayout),
			Instruments: make(map[string][]*VolumePoint, len(analysis.Instruments)),
			Combined:    volumePoints(analysis.Combined),
			Warnings:    r.Warnings(),
		}
		for ticker, df := range analysis.Instruments {
			resp.Instruments[ticker] = volumePoints(df)
		}

		return resp, nil
	})
}

// Composition looks through the ETFs to the companies, industries and sectors
// the portfolio holds. Weights are reported in percent.
func (s *Service) Composition(ctx context.Context, req *PortfolioRequest) (res *CompositionResponse, err error) {
	ctx, span := s.startSpan(ctx, "Composition")
	defer func() { endSpan(span, err) }()

	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, snap, "composition", req, func() (*CompositionResponse, error) {
		alloc, err := s.allocation(snap, req, false)
		if err != nil {
			return nil, err
		}

		breakdown, err := composition.LookThrough(snap, alloc)
		if err != nil {
			return nil, err
		}

		resp := &CompositionResponse{
			Companies:  make([]*CompanyWeight, len(breakdown.Companies)),
			Industries: groupWeights(breakdown.Industries),
			Sectors:    groupWeights(breakdown.Sectors),
			Total:      percent(breakdown.Total),
			ETFs:       make(map[string]*ETFBreakdown, len(breakdown.ETFs)),
		}

		for idx, company := range breakdown.Companies {
			resp.Companies[idx] = &CompanyWeight{
				Company: company.Company,
				Symbol:  company.Symbol,
				Sector:  company.Sector,
				Weight:  percent(company.Weight),
				ETFs:    company.ETFs,
			}
		}

		for _, etf := range breakdown.ETFs {
			eb := &ETFBreakdown{
				Weight:    etf.Weight,
				Companies: make([]*CompanyWeight, len(etf.Holdings)),
			}
			for idx, holding := range etf.Holdings {
				eb.Companies[idx] = &CompanyWeight{
					Company: holding.Company,
					Symbol:  holding.Symbol,
					Sector:  holding.Sector,
					Weight:  percent(holding.Weight),
					ETFs:    []string{etf.Ticker},
				}
			}
			resp.ETFs[etf.Ticker] = eb
		}

		return resp, nil
	})
}
