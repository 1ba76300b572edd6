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
	"time"

	"github.com/penny-vault/etfperf/dataframe"
)

type Metric string

const (
	MetricOpen   Metric = "Open"
	MetricHigh   Metric = "High"
	MetricLow    Metric = "Low"
	MetricClose  Metric = "Close"
	MetricVolume Metric = "Volume"
)

// Metrics is the column order of every price series
var Metrics = []Metric{MetricOpen, MetricHigh, MetricLow, MetricClose, MetricVolume}

func metricNames() []string {
	names := make([]string, len(Metrics))
	for idx, m := range Metrics {
		names[idx] = string(m)
	}
	return names
}

// Bar is a single day of trading for an instrument. Missing fields are NaN.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Holding is one company held by an ETF; Weight is a fraction of the ETF
type Holding struct {
	Company  string  `json:"company"`
	Symbol   string  `json:"symbol,omitempty"`
	Sector   string  `json:"sector,omitempty"`
	Industry string  `json:"industry,omitempty"`
	Weight   float64 `json:"weight"`
}

// Store provides read-only access to the reference price and holdings data
type Store interface {
	// Series returns the price series for ticker with one column per Metric
	Series(ticker string) (*dataframe.DataFrame, bool)

	// Holdings returns the company holdings of an ETF
	Holdings(ticker string) ([]Holding, bool)

	// Tickers returns every instrument with price data, sorted
	Tickers() []string

	// HoldingsTickers returns every ETF with holdings data, sorted
	HoldingsTickers() []string

	// Bounds returns the earliest and latest date across the requested tickers,
	// or across every instrument when none are given
	Bounds(tickers ...string) (time.Time, time.Time)
}
