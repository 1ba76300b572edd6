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
	"fmt"
	"strings"
	"time"

	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/dataframe"
	"github.com/rs/zerolog/log"
)

// dateLayouts are tried in order; the 4 digit year layout must come before the 2 digit one
var dateLayouts = []string{
	common.DateLayout,
	"02/01/2006",
	"02/01/06",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate converts s into a UTC calendar date (midnight)
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, s); err == nil {
			return time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Range is a resolved, inclusive range of calendar dates
type Range struct {
	Start time.Time
	End   time.Time

	// StartFallback and EndFallback are set when the requested bound could not
	// be parsed and the dataset bound was used instead
	StartFallback bool
	EndFallback   bool

	// RequestedStart and RequestedEnd hold the bounds as the caller sent them
	RequestedStart string
	RequestedEnd   string

	warnings []*common.Error
}

// FullRange covers every date from min to max
func FullRange(min, max time.Time) Range {
	return Range{Start: min, End: max}
}

// ResolveRange parses the requested bounds and fits them to the data available
// between min and max. Empty bounds default to the dataset bounds; unparseable
// bounds do too but are flagged. Reversed bounds are swapped and both are then
// clamped to [min, max].
func ResolveRange(startStr, endStr string, min, max time.Time) Range {
	r := Range{
		RequestedStart: strings.TrimSpace(startStr),
		RequestedEnd:   strings.TrimSpace(endStr),
	}

	r.Start, r.StartFallback = resolveBound("start_date", startStr, min)
	if r.StartFallback {
		r.warnings = append(r.warnings, common.MalformedDate("start_date", startStr, min))
	}

	r.End, r.EndFallback = resolveBound("end_date", endStr, max)
	if r.EndFallback {
		r.warnings = append(r.warnings, common.MalformedDate("end_date", endStr, max))
	}

	if r.Start.After(r.End) {
		r.Start, r.End = r.End, r.Start
	}

	if !min.IsZero() {
		r.Start = common.MaxTime(r.Start, min)
	}
	if !max.IsZero() {
		r.End = common.MinTime(r.End, max)
	}

	return r
}

func resolveBound(field, s string, fallback time.Time) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return fallback, false
	}

	dt, err := ParseDate(s)
	if err != nil {
		log.Warn().Str("Field", field).Str("Value", s).Time("Fallback", fallback).Msg("malformed date; falling back to dataset bound")
		return fallback, true
	}

	return dt, false
}

// Warnings lists the malformed bounds that were replaced during resolution
func (r Range) Warnings() []*common.Error {
	return r.warnings
}

// EmptyRange is the failure for instrument (blank for the combined table)
// having no rows in the range. It names both the resolved and the requested
// bounds.
func (r Range) EmptyRange(instrument string) *common.Error {
	return r.annotate(common.EmptyRange(instrument, r.Start, r.End))
}

// TooFewRows is the failure for a combined table with fewer than two rows in
// the range
func (r Range) TooFewRows(rows int) *common.Error {
	return r.annotate(common.TooFewRows(rows, r.Start, r.End))
}

func (r Range) annotate(e *common.Error) *common.Error {
	e.RequestedStartDate = r.RequestedStart
	e.RequestedEndDate = r.RequestedEnd
	return e
}

// Apply returns the rows of df that fall in the range. The end date is inclusive:
// rows are kept when Start <= date < End + 1 day.
func (r Range) Apply(df *dataframe.DataFrame) *dataframe.DataFrame {
	return df.Between(r.Start, r.End.AddDate(0, 0, 1))
}

// FilterSeries applies the range to an instrument's series and fails with
// EmptyRange when no rows remain
func FilterSeries(ticker string, df *dataframe.DataFrame, r Range) (*dataframe.DataFrame, error) {
	res := r.Apply(df)
	if res.Len() == 0 {
		return nil, r.EmptyRange(ticker)
	}
	return res, nil
}
