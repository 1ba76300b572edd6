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
	"github.com/rs/zerolog"
)

func (alloc *Allocation) MarshalZerologObject(e *zerolog.Event) {
	for idx, ticker := range alloc.Tickers {
		e.Float64(ticker, alloc.Weights[idx])
	}
}

func (o *DrawdownPeriod) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Start", o.Start).Time("End", o.End).Float64("MaxDrawdown", o.MaxDrawdown).Int("RecoveryDays", o.RecoveryDays).Bool("Recovered", o.Recovered)
}

func (metrics *RiskMetrics) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("InitialValue", metrics.InitialValue)
	e.Float64("FinalValue", metrics.FinalValue)
	e.Float64("TotalReturn", metrics.TotalReturn)
	e.Float64("AnnualizedReturn", metrics.AnnualizedReturn)
	e.Float64("Volatility", metrics.Volatility)
	e.Float64("MaxDrawdown", metrics.MaxDrawdown)
	e.Float64("SharpeRatio", metrics.SharpeRatio)
	e.Str("RiskLevel", string(metrics.RiskLevel))
	e.Float64("Years", metrics.Years)
}
