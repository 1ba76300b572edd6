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
	"github.com/penny-vault/etfperf/common"
)

// InstrumentPerformance is the stand-alone performance of one holding over the
// dates of a ValueSeries
type InstrumentPerformance struct {
	Ticker      string
	Weight      float64
	FirstPrice  float64
	LastPrice   float64
	TotalReturn float64
	Volatility  float64
}

// InstrumentPerformances computes the performance of every instrument in series
// from the joined close prices, in the order of series.Tickers
func InstrumentPerformances(series *ValueSeries) []*InstrumentPerformance {
	res := make([]*InstrumentPerformance, 0, len(series.Tickers))
	if series.Prices == nil || series.Prices.Len() == 0 {
		return res
	}

	returns := series.Prices.PctChange()
	last := series.Prices.Len() - 1

	for idx, ticker := range series.Tickers {
		prices := series.Prices.Vals[idx]
		res = append(res, &InstrumentPerformance{
			Ticker:      ticker,
			Weight:      series.Weights[idx],
			FirstPrice:  common.Finite(prices[0]),
			LastPrice:   common.Finite(prices[last]),
			TotalReturn: totalReturn(prices[0], prices[last]),
			Volatility:  annualizedVolatility(returns.Vals[idx]),
		})
	}

	return res
}
