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
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/dataframe"
	"gonum.org/v1/gonum/floats"
)

// VolumeAnalysis holds the traded volume of each instrument and the
// allocation weighted volume of the portfolio
type VolumeAnalysis struct {
	// Instruments maps ticker to its volume series in range
	Instruments dataframe.Map

	// Combined is the weighted sum of volumes over the dates every instrument traded
	Combined *dataframe.DataFrame
}

// WeightedVolume filters every instrument's volume to the range and combines
// them as the sum of weight * volume
func WeightedVolume(store data.Store, alloc *Allocation, r data.Range) (*VolumeAnalysis, error) {
	if err := CheckSupported(store, alloc.Tickers); err != nil {
		return nil, err
	}

	analysis := &VolumeAnalysis{
		Instruments: make(dataframe.Map, len(alloc.Tickers)),
	}

	for _, ticker := range alloc.Tickers {
		df, _ := store.Series(ticker)
		volumeDf, err := df.Select(string(data.MetricVolume))
		if err != nil {
			return nil, err
		}

		filtered := r.Apply(volumeDf.Rename(ticker)).DropNA()
		if filtered.Len() == 0 {
			return nil, r.EmptyRange(ticker)
		}
		analysis.Instruments[ticker] = filtered
	}

	joined := analysis.Instruments.Intersect(alloc.Tickers...)
	combined := make([]float64, joined.Len())
	for idx, w := range alloc.Weights {
		floats.AddScaled(combined, w, joined.Vals[idx])
	}

	analysis.Combined = &dataframe.DataFrame{
		Dates:    joined.Dates,
		ColNames: []string{"Volume"},
		Vals:     [][]float64{combined},
	}

	return analysis, nil
}
