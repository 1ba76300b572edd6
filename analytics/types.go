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
	"bytes"
	"math"

	"github.com/goccy/go-json"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/correlation"
	"github.com/penny-vault/etfperf/portfolio"
)

// Weights maps tickers to requested allocation weights
type Weights map[string]float64

// UnmarshalJSON decodes a JSON object of weights. A value that is null or not
// a number decodes as NaN so that normalization rejects it as an invalid
// allocation instead of failing the whole request body.
func (w *Weights) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*w = nil
		return nil
	}

	res := make(Weights, len(raw))
	for ticker, val := range raw {
		val = bytes.TrimSpace(val)
		var f float64
		if len(val) == 0 || bytes.Equal(val, []byte("null")) || json.Unmarshal(val, &f) != nil {
			f = math.NaN()
		}
		res[ticker] = f
	}
	*w = res
	return nil
}

// PortfolioRequest is the input of every portfolio operation
type PortfolioRequest struct {
	Allocations       Weights `json:"allocations"`
	InitialInvestment float64 `json:"initial_investment"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`

	// Universe optionally restricts the allowed tickers
	Universe string `json:"universe,omitempty"`

	// Convention is "fraction" or "percent"; blank uses the configured default
	Convention string `json:"convention,omitempty"`
}

type CorrelationRequest struct {
	Tickers   []string `json:"tickers"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Universe  string   `json:"universe,omitempty"`
	Kind      string   `json:"kind,omitempty"`
}

type CandlestickRequest struct {
	Ticker    string `json:"ticker"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Point is one day of the portfolio value series
type Point struct {
	Date             string             `json:"date"`
	TotalValue       float64            `json:"total_value"`
	DailyReturn      *float64           `json:"daily_return"`
	CumulativeReturn float64            `json:"cumulative_return"`
	PeakValue        float64            `json:"peak_value"`
	Drawdown         float64            `json:"drawdown"`
	Contributions    map[string]float64 `json:"contributions"`
}

type YearlyReturn struct {
	Year         int     `json:"year"`
	YearlyReturn float64 `json:"yearly_return"`
}

type ValueSummary struct {
	InitialValue     float64 `json:"initial_value"`
	FinalValue       float64 `json:"final_value"`
	Growth           float64 `json:"growth"`
	GrowthPercentage float64 `json:"growth_percentage"`
}

type AnalysisResponse struct {
	StartDate       string                 `json:"start_date"`
	EndDate         string                 `json:"end_date"`
	PortfolioSeries []*Point               `json:"portfolio_series"`
	YearlyReturns   []*YearlyReturn        `json:"yearly_returns"`
	Metrics         *portfolio.RiskMetrics `json:"metrics"`
	Summary         *ValueSummary          `json:"summary"`
	Warnings        []*common.Error        `json:"warnings,omitempty"`
}

type DrawdownPoint struct {
	Date     string  `json:"date"`
	Drawdown float64 `json:"drawdown"`
}

type DrawdownPeriod struct {
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	RecoveryDays int     `json:"recovery_days"`
	Recovered    bool    `json:"recovered"`
}

type DrawdownResponse struct {
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	DrawdownSeries  []*DrawdownPoint  `json:"drawdown_series"`
	MaxDrawdown     float64           `json:"max_drawdown"`
	MaxDrawdownDate string            `json:"max_drawdown_date"`
	SevereDays      int               `json:"severe_days"`
	Periods         []*DrawdownPeriod `json:"periods"`
	Warnings        []*common.Error   `json:"warnings,omitempty"`
}

type YearlyReturnsResponse struct {
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	YearlyReturns []*YearlyReturn `json:"yearly_returns"`
	AverageReturn float64         `json:"average_return"`
	PositiveYears int             `json:"positive_years"`
	NegativeYears int             `json:"negative_years"`
	BestYear      *YearlyReturn   `json:"best_year"`
	WorstYear     *YearlyReturn   `json:"worst_year"`
	Warnings      []*common.Error `json:"warnings,omitempty"`
}

type GrowthPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Instrument struct {
	Ticker      string         `json:"ticker"`
	Weight      float64        `json:"weight"`
	FirstPrice  float64        `json:"first_price"`
	LastPrice   float64        `json:"last_price"`
	TotalReturn float64        `json:"total_return"`
	Volatility  float64        `json:"volatility"`
	Growth      []*GrowthPoint `json:"growth,omitempty"`
}

type InstrumentsResponse struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Instruments []*Instrument   `json:"instruments"`
	Warnings    []*common.Error `json:"warnings,omitempty"`
}

type VolumePoint struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

type VolumeResponse struct {
	StartDate   string                    `json:"start_date"`
	EndDate     string                    `json:"end_date"`
	Instruments map[string][]*VolumePoint `json:"instruments"`
	Combined    []*VolumePoint            `json:"combined"`
	Warnings    []*common.Error           `json:"warnings,omitempty"`
}

// CompanyWeight weights are percentages of the portfolio
type CompanyWeight struct {
	Company string   `json:"company"`
	Symbol  string   `json:"symbol"`
	Sector  string   `json:"sector"`
	Weight  float64  `json:"weight"`
	ETFs    []string `json:"etfs"`
}

type GroupWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type ETFBreakdown struct {
	Weight    float64          `json:"weight"`
	Companies []*CompanyWeight `json:"companies"`
}

type CompositionResponse struct {
	Companies  []*CompanyWeight         `json:"companies"`
	Industries []*GroupWeight           `json:"industries"`
	Sectors    []*GroupWeight           `json:"sectors"`
	Total      float64                  `json:"total"`
	ETFs       map[string]*ETFBreakdown `json:"etfs"`
}

type CorrelationResponse struct {
	Tickers           []string             `json:"tickers"`
	Kind              correlation.Kind     `json:"kind"`
	StartDate         string               `json:"start_date"`
	EndDate           string               `json:"end_date"`
	CorrelationMatrix [][]correlation.Cell `json:"correlation_matrix"`
	Warnings          []*common.Error      `json:"warnings,omitempty"`
}

type Candle struct {
	Date   string   `json:"date"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *float64 `json:"volume"`
}

type CandlestickResponse struct {
	Ticker    string          `json:"ticker"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Candles   []*Candle       `json:"candles"`
	Warnings  []*common.Error `json:"warnings,omitempty"`
}

type InstrumentRange struct {
	Ticker    string `json:"ticker"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// TotalReturn over the full history in percent
	TotalReturn float64 `json:"total_return"`
}

type DateRangeResponse struct {
	Universe    string             `json:"universe,omitempty"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Instruments []*InstrumentRange `json:"instruments"`
}

// InflationRequest selects and thins an inflation series. Frequency takes
// precedence over SampleEvery.
type InflationRequest struct {
	StartDate   string `json:"start_date,omitempty" query:"start_date"`
	EndDate     string `json:"end_date,omitempty" query:"end_date"`
	Frequency   string `json:"frequency,omitempty" query:"frequency"`
	SampleEvery int    `json:"sample_every,omitempty" query:"sample_every"`
}

type RealNominalPoint struct {
	Date    string   `json:"date"`
	Nominal *float64 `json:"nominal_inv_10k"`
	Real    *float64 `json:"real_inv_10k"`
}

type RealVsNominalResponse struct {
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Points    []*RealNominalPoint `json:"data"`
	Warnings  []*common.Error     `json:"warnings,omitempty"`
}

type BankMarketPoint struct {
	Date   string   `json:"date"`
	Bank   *float64 `json:"bank_value"`
	Market *float64 `json:"spy_value"`
}

type BankVsMarketResponse struct {
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Points    []*BankMarketPoint `json:"data"`
	Warnings  []*common.Error    `json:"warnings,omitempty"`
}

type ReturnRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// InflationStatsResponse figures are percentages
type InflationStatsResponse struct {
	LocalInflation    float64      `json:"local_inflation"`
	GlobalInflation   float64      `json:"global_inflation"`
	BankInterest      float64      `json:"bank_interest"`
	MarketReturnRange *ReturnRange `json:"spy_return_range"`
	RealMarketReturn  *float64     `json:"real_market_return,omitempty"`
	RealBankReturn    *float64     `json:"real_bank_return,omitempty"`
}
