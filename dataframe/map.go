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
	"sort"
	"time"

	"github.com/penny-vault/etfperf/common"
)

// Map holds one single-column dataframe per key
type Map map[string]*DataFrame

// Intersect joins the first column of the dataframes named by keys on date, keeping only
// dates present in every dataframe. Columns are named by key and ordered as keys.
// Missing keys are treated as empty dataframes.
func (dfMap Map) Intersect(keys ...string) *DataFrame {
	res := New(keys...)
	if len(keys) == 0 {
		return res
	}

	cursors := make([]int, len(keys))
	frames := make([]*DataFrame, len(keys))
	for idx, key := range keys {
		df, ok := dfMap[key]
		if !ok || df.ColCount() == 0 {
			return res
		}
		frames[idx] = df
	}

	// merge walk over sorted dates
	for {
		var candidate time.Time
		for idx, df := range frames {
			if cursors[idx] >= df.Len() {
				return res
			}
			candidate = common.MaxTime(candidate, df.Dates[cursors[idx]])
		}

		matched := true
		for idx, df := range frames {
			for cursors[idx] < df.Len() && df.Dates[cursors[idx]].Before(candidate) {
				cursors[idx]++
			}
			if cursors[idx] >= df.Len() {
				return res
			}
			if !df.Dates[cursors[idx]].Equal(candidate) {
				matched = false
			}
		}

		if !matched {
			continue
		}

		res.Dates = append(res.Dates, candidate)
		for idx, df := range frames {
			res.Vals[idx] = append(res.Vals[idx], df.Vals[0][cursors[idx]])
			cursors[idx]++
		}
	}
}

// Union joins the first column of the dataframes named by keys on the union of their
// dates. Values missing from a dataframe on a date are NaN. Missing keys produce all
// NaN columns.
func (dfMap Map) Union(keys ...string) *DataFrame {
	res := New(keys...)

	seen := make(map[int64]time.Time)
	for _, key := range keys {
		df, ok := dfMap[key]
		if !ok {
			continue
		}
		for _, dt := range df.Dates {
			seen[dt.UnixNano()] = dt
		}
	}

	res.Dates = make([]time.Time, 0, len(seen))
	for _, dt := range seen {
		res.Dates = append(res.Dates, dt)
	}
	sort.Slice(res.Dates, func(i, j int) bool {
		return res.Dates[i].Before(res.Dates[j])
	})

	rowOf := make(map[int64]int, len(res.Dates))
	for idx, dt := range res.Dates {
		rowOf[dt.UnixNano()] = idx
	}

	for colIdx, key := range keys {
		col := make([]float64, len(res.Dates))
		for idx := range col {
			col[idx] = math.NaN()
		}
		if df, ok := dfMap[key]; ok && df.ColCount() > 0 {
			for rowIdx, dt := range df.Dates {
				col[rowOf[dt.UnixNano()]] = df.Vals[0][rowIdx]
			}
		}
		res.Vals[colIdx] = col
	}

	return res
}
