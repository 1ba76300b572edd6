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
	"errors"
	"fmt"
	"strings"
	"time"
)

// DataFrame stores a table of values organized by date. Vals is column
// major - e.g.,
// SPY    VUG
// 1      4
// 2      5
// 3      6
//
// Vals[0][0] = 1
// Vals[1][0] = 4
//
// Missing values are stored as NaN. Dates must be strictly increasing.
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

// Frequency defines a calendar period used to down-sample a dataframe
type Frequency string

const (
	Daily      Frequency = "Daily"
	MonthBegin Frequency = "MonthBegin"
	MonthEnd   Frequency = "MonthEnd"
	Monthly    Frequency = "MonthEnd"
	YearBegin  Frequency = "YearBegin"
	YearEnd    Frequency = "YearEnd"
	Annually   Frequency = "YearEnd"
)

var (
	ErrUnknownColumn    = errors.New("column does not exist in dataframe")
	ErrUnknownFrequency = errors.New("unknown frequency")
)

// ParseFrequency matches s case insensitively against the frequency names
// and the aliases daily, monthly, annually and yearly
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "monthbegin":
		return MonthBegin, nil
	case "monthend", "monthly":
		return MonthEnd, nil
	case "yearbegin":
		return YearBegin, nil
	case "yearend", "annually", "yearly":
		return YearEnd, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFrequency, s)
	}
}

// YearSlice identifies the rows of a dataframe belonging to one calendar year.
// Rows are Begin (inclusive) through End (exclusive).
type YearSlice struct {
	Year  int
	Begin int
	End   int
}

// Len returns the number of rows in the slice
func (ys YearSlice) Len() int {
	return ys.End - ys.Begin
}
