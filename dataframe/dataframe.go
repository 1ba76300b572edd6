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
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

// New creates an empty dataframe with the requested columns
func New(colNames ...string) *DataFrame {
	df := &DataFrame{
		Dates:    make([]time.Time, 0),
		ColNames: make([]string, len(colNames)),
		Vals:     make([][]float64, len(colNames)),
	}
	copy(df.ColNames, colNames)
	for idx := range df.Vals {
		df.Vals[idx] = make([]float64, 0)
	}
	return df
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// ColIndex returns the index of the specified column or -1 if it doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// Column returns the values of the named column. The returned slice is shared
// with the dataframe.
func (df *DataFrame) Column(colName string) ([]float64, error) {
	idx := df.ColIndex(colName)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, colName)
	}
	return df.Vals[idx], nil
}

// Copy creates a deep copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Dates:    make([]time.Time, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Dates, df.Dates)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[0]
}

// End returns the last date of the dataframe
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[len(df.Dates)-1]
}

// Select returns a new dataframe, sharing storage, that only has the requested columns
func (df *DataFrame) Select(colNames ...string) (*DataFrame, error) {
	res := &DataFrame{
		Dates:    df.Dates,
		ColNames: make([]string, 0, len(colNames)),
		Vals:     make([][]float64, 0, len(colNames)),
	}

	for _, name := range colNames {
		col, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		res.ColNames = append(res.ColNames, name)
		res.Vals = append(res.Vals, col)
	}

	return res, nil
}

// Rename returns a dataframe sharing storage with the columns renamed in order
func (df *DataFrame) Rename(colNames ...string) *DataFrame {
	if len(colNames) != len(df.ColNames) {
		log.Panic().Int("NumNames", len(colNames)).Int("NumColumns", len(df.ColNames)).Msg("number of names must equal number of columns")
	}
	res := &DataFrame{
		Dates:    df.Dates,
		ColNames: make([]string, len(colNames)),
		Vals:     df.Vals,
	}
	copy(res.ColNames, colNames)
	return res
}

// InsertRow adds a new row to the dataframe. Date must be after the last date in the dataframe and vals must equal the number
// of columns. If either of these conditions are not met then panic
func (df *DataFrame) InsertRow(date time.Time, vals ...float64) *DataFrame {
	if len(df.Dates) != 0 {
		last := df.Dates[len(df.Dates)-1]
		if !last.Before(date) {
			log.Panic().Time("lastDate", last).Time("newDate", date).Msg("newDate must be after lastDate")
		}
	}

	if len(vals) != len(df.ColNames) {
		log.Panic().Int("NumValsPassed", len(vals)).Int("NumColumns", len(df.ColNames)).Msg("number of vals passed must equal number of columns")
	}

	df.Dates = append(df.Dates, date)
	for colIdx := range df.ColNames {
		df.Vals[colIdx] = append(df.Vals[colIdx], vals[colIdx])
	}

	return df
}

// DropNA removes rows that have a NaN in any column; returns a new dataframe
func (df *DataFrame) DropNA() *DataFrame {
	res := New(df.ColNames...)

	for rowIdx, date := range df.Dates {
		keep := true
		for _, col := range df.Vals {
			if math.IsNaN(col[rowIdx]) {
				keep = false
				break
			}
		}

		if keep {
			res.Dates = append(res.Dates, date)
			for colIdx, col := range df.Vals {
				res.Vals[colIdx] = append(res.Vals[colIdx], col[rowIdx])
			}
		}
	}

	return res
}

// Between returns the rows with begin <= date < end. The result shares storage with df.
func (df *DataFrame) Between(begin, end time.Time) *DataFrame {
	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    []time.Time{},
		Vals:     make([][]float64, len(df.Vals)),
	}
	for colIdx := range df2.Vals {
		df2.Vals[colIdx] = []float64{}
	}

	if !begin.Before(end) || df.Len() == 0 {
		return df2
	}

	beginIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(begin)
	})

	endIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(end)
	})

	if beginIdx >= endIdx {
		return df2
	}

	df2.Dates = df.Dates[beginIdx:endIdx]
	for colIdx, col := range df.Vals {
		df2.Vals[colIdx] = col[beginIdx:endIdx]
	}

	return df2
}

// Frequency returns a dataframe down-sampled to the requested calendar frequency; note this is not
// an in-place function but creates a copy of the data. Period ends keep the last row of each
// period present in the data, period begins keep the first.
func (df *DataFrame) Frequency(frequency Frequency) *DataFrame {
	var samePeriod func(a, b time.Time) bool

	switch frequency {
	case Daily:
		return df.Copy()
	case MonthBegin, MonthEnd:
		samePeriod = func(a, b time.Time) bool {
			return a.Year() == b.Year() && a.Month() == b.Month()
		}
	case YearBegin, YearEnd:
		samePeriod = func(a, b time.Time) bool {
			return a.Year() == b.Year()
		}
	default:
		log.Panic().Str("Frequency", string(frequency)).Msg("unknown frequency provided to dataframe frequency function")
	}

	isBegin := frequency == MonthBegin || frequency == YearBegin
	res := New(df.ColNames...)

	for rowIdx, date := range df.Dates {
		var keep bool
		if isBegin {
			keep = rowIdx == 0 || !samePeriod(df.Dates[rowIdx-1], date)
		} else {
			keep = rowIdx == len(df.Dates)-1 || !samePeriod(df.Dates[rowIdx+1], date)
		}

		if keep {
			res.Dates = append(res.Dates, date)
			for colIdx, col := range df.Vals {
				res.Vals[colIdx] = append(res.Vals[colIdx], col[rowIdx])
			}
		}
	}

	return res
}

// Every returns a copy keeping the first row and every nth row after it. n below 2 keeps every row.
func (df *DataFrame) Every(n int) *DataFrame {
	if n < 2 {
		return df.Copy()
	}

	res := New(df.ColNames...)
	for rowIdx := 0; rowIdx < df.Len(); rowIdx += n {
		res.Dates = append(res.Dates, df.Dates[rowIdx])
		for colIdx, col := range df.Vals {
			res.Vals[colIdx] = append(res.Vals[colIdx], col[rowIdx])
		}
	}
	return res
}

// Years partitions the rows of the dataframe by calendar year in date order
func (df *DataFrame) Years() []YearSlice {
	years := make([]YearSlice, 0)
	for rowIdx, date := range df.Dates {
		if len(years) == 0 || years[len(years)-1].Year != date.Year() {
			years = append(years, YearSlice{Year: date.Year(), Begin: rowIdx, End: rowIdx + 1})
			continue
		}
		years[len(years)-1].End = rowIdx + 1
	}
	return years
}

// Table renders an ASCII formatted table of the dataframe
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 {
		return "<NO DATA>"
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(append([]string{"Date"}, df.ColNames...))

	footer := make([]string, len(df.ColNames)+1)
	footer[0] = "Num Rows"
	if len(footer) > 1 {
		footer[1] = fmt.Sprintf("%d", df.Len())
	}
	table.SetFooter(footer)
	table.SetBorder(false)

	for rowIdx, date := range df.Dates {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, date.Format("2006-01-02"))
		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[rowIdx]))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
