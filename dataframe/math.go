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

package dataframe

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Growth divides every value by the first value of its column, e.g. a price series becomes
// the growth of 1 unit invested on the first date. Columns that start at a non-positive or
// missing value are flat at 1.
func (df *DataFrame) Growth() *DataFrame {
	df = df.Copy()
	if df.Len() == 0 {
		return df
	}

	for _, col := range df.Vals {
		first := col[0]
		for rowIdx := range col {
			if math.IsNaN(first) || first <= 0 {
				col[rowIdx] = 1.0
				continue
			}
			col[rowIdx] /= first
		}
	}

	return df
}

// PctChange computes the period over period change of each column. The first
// row of the result is NaN.
func (df *DataFrame) PctChange() *DataFrame {
	res := &DataFrame{
		Dates:    df.Dates,
		ColNames: df.ColNames,
		Vals:     make([][]float64, len(df.Vals)),
	}

	for colIdx, col := range df.Vals {
		out := make([]float64, len(col))
		for rowIdx := range col {
			if rowIdx == 0 {
				out[rowIdx] = math.NaN()
				continue
			}
			out[rowIdx] = col[rowIdx]/col[rowIdx-1] - 1.0
		}
		res.Vals[colIdx] = out
	}

	return res
}

// CumMax computes the running maximum of each column. NaN values do not
// advance the maximum.
func (df *DataFrame) CumMax() *DataFrame {
	res := &DataFrame{
		Dates:    df.Dates,
		ColNames: df.ColNames,
		Vals:     make([][]float64, len(df.Vals)),
	}

	for colIdx, col := range df.Vals {
		out := make([]float64, len(col))
		peak := math.NaN()
		for rowIdx, val := range col {
			if !math.IsNaN(val) && (math.IsNaN(peak) || val > peak) {
				peak = val
			}
			out[rowIdx] = peak
		}
		res.Vals[colIdx] = out
	}

	return res
}

// RowSum sums every row across all columns and returns a single column dataframe
// with the given name
func (df *DataFrame) RowSum(name string) *DataFrame {
	sum := make([]float64, df.Len())
	for _, col := range df.Vals {
		floats.Add(sum, col)
	}

	return &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{name},
		Vals:     [][]float64{sum},
	}
}

// Finite returns the values of col that are neither NaN nor infinite
func Finite(col []float64) []float64 {
	res := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			res = append(res, v)
		}
	}
	return res
}

// StdDev returns the sample standard deviation of the finite values in col. Fewer
// than 2 values yields 0.
func StdDev(col []float64) float64 {
	vals := Finite(col)
	if len(vals) < 2 {
		return 0
	}
	return stat.StdDev(vals, nil)
}

// Mean returns the mean of the finite values in col, 0 if there are none
func Mean(col []float64) float64 {
	vals := Finite(col)
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}
