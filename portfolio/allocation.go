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
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/data"
)

// Convention declares how the caller expresses allocation weights
type Convention string

const (
	// ConventionFraction weights sum to 1
	ConventionFraction Convention = "fraction"

	// ConventionPercent weights sum to 100
	ConventionPercent Convention = "percent"
)

// DefaultTolerance is the allowed deviation of the weight sum from 1
const DefaultTolerance = 0.01

const toleranceEpsilon = 1e-9

var (
	ErrUnknownConvention = errors.New("unknown allocation convention")
)

// ParseConvention converts a config or request value into a Convention. An
// empty string is the fraction convention.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fraction", "fractions":
		return ConventionFraction, nil
	case "percent", "percentage", "percentages":
		return ConventionPercent, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownConvention, s)
	}
}

// Total is the sum a complete allocation has under the convention
func (c Convention) Total() float64 {
	if c == ConventionPercent {
		return 100
	}
	return 1
}

// Allocation is a normalized set of weights: fractions that sum to 1
type Allocation struct {
	// Tickers in sorted order
	Tickers []string

	// Weights are aligned with Tickers
	Weights []float64
}

// Weight returns the normalized weight of ticker, 0 when it is not allocated
func (alloc *Allocation) Weight(ticker string) float64 {
	ticker = strings.ToUpper(ticker)
	for idx, t := range alloc.Tickers {
		if t == ticker {
			return alloc.Weights[idx]
		}
	}
	return 0
}

// Map returns the normalized weights keyed by ticker
func (alloc *Allocation) Map() map[string]float64 {
	res := make(map[string]float64, len(alloc.Tickers))
	for idx, t := range alloc.Tickers {
		res[t] = alloc.Weights[idx]
	}
	return res
}

// Normalize validates weights expressed under convention and rescales them to
// fractions summing to exactly 1. Weights must be finite and non-negative and
// their sum must be within tolerance of the convention's total. Weights that
// are NaN mark values the caller sent as missing or non-numeric.
func Normalize(weights map[string]float64, convention Convention, tolerance float64) (*Allocation, error) {
	if len(weights) == 0 {
		return nil, common.InvalidAllocation(0, "no weights provided")
	}

	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	merged := make(map[string]float64, len(weights))
	rawSum := 0.0
	var missing, negative []string
	for ticker, w := range weights {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		switch {
		case math.IsNaN(w) || math.IsInf(w, 0):
			missing = append(missing, ticker)
			continue
		case w < 0:
			negative = append(negative, ticker)
		}
		merged[ticker] += w
		rawSum += w
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, common.InvalidAllocation(rawSum, fmt.Sprintf("weight for %s is missing or not a number", strings.Join(missing, ", ")))
	}
	if len(negative) > 0 {
		sort.Strings(negative)
		return nil, common.InvalidAllocation(rawSum, fmt.Sprintf("weight for %s is negative", strings.Join(negative, ", ")))
	}

	tickers := make([]string, 0, len(merged))
	for ticker := range merged {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	total := convention.Total()
	fractions := make([]float64, len(tickers))
	sum := 0.0
	for idx, ticker := range tickers {
		fractions[idx] = merged[ticker] / total
		sum += fractions[idx]
	}

	// dividing by the total leaves ulp-level noise, e.g. 99/100 deviates from 1 by 0.010000000000000009
	if math.Abs(sum-1.0) > tolerance+toleranceEpsilon {
		return nil, common.InvalidAllocation(rawSum, fmt.Sprintf("weights must sum to %g within %g", total, tolerance*total))
	}

	last := -1
	for idx := range fractions {
		fractions[idx] /= sum
		if fractions[idx] != 0 {
			last = idx
		}
	}

	// the last non-zero weight absorbs the rounding residual so the weights
	// sum, in ticker order, to exactly 1
	if last >= 0 {
		others := 0.0
		for idx, w := range fractions {
			if idx != last {
				others += w
			}
		}
		fractions[last] = 1.0 - others
	}

	return &Allocation{
		Tickers: tickers,
		Weights: fractions,
	}, nil
}

// CheckSupported fails with UnsupportedInstrument for the first ticker (in sorted
// order) that has no price series in store
func CheckSupported(store data.Store, tickers []string) error {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)

	for _, ticker := range sorted {
		if _, ok := store.Series(ticker); !ok {
			return common.UnsupportedInstrument(strings.ToUpper(ticker), store.Tickers())
		}
	}
	return nil
}
