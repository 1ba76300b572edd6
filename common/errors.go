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

package common

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is the machine readable class of an analytics failure
type Category string

const (
	CategoryUnsupportedInstrument Category = "UnsupportedInstrument"
	CategoryInvalidAllocation     Category = "InvalidAllocation"
	CategoryEmptyRange            Category = "EmptyRange"
	CategoryDegenerateComputation Category = "DegenerateComputation"
	CategoryMalformedDate         Category = "MalformedDate"
	CategoryBadRequest            Category = "BadRequest"
	CategoryNotFound              Category = "NotFound"
	CategoryInternal              Category = "Internal"
)

var (
	ErrUnsupportedInstrument = errors.New("unsupported instrument")
	ErrInvalidAllocation     = errors.New("invalid allocation")
	ErrEmptyRange            = errors.New("no data in range")
	ErrDegenerateComputation = errors.New("insufficient data for computation")
	ErrMalformedDate         = errors.New("malformed date")
)

// Error describes a failure of an analytics request along with the details
// a caller needs to correct it
type Error struct {
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Instrument string   `json:"instrument,omitempty"`
	Supported  []string `json:"supported,omitempty"`
	Sum        *float64 `json:"sum,omitempty"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`

	// RequestedStartDate and RequestedEndDate are the bounds as the caller
	// sent them, before parsing and clamping
	RequestedStartDate string `json:"requested_start_date,omitempty"`
	RequestedEndDate   string `json:"requested_end_date,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap maps the category onto its sentinel so errors.Is works on categories
func (e *Error) Unwrap() error {
	switch e.Category {
	case CategoryUnsupportedInstrument:
		return ErrUnsupportedInstrument
	case CategoryInvalidAllocation:
		return ErrInvalidAllocation
	case CategoryEmptyRange:
		return ErrEmptyRange
	case CategoryDegenerateComputation:
		return ErrDegenerateComputation
	case CategoryMalformedDate:
		return ErrMalformedDate
	default:
		return nil
	}
}

// UnsupportedInstrument is returned when a ticker is not present in the reference data
func UnsupportedInstrument(ticker string, supported []string) *Error {
	return &Error{
		Category:   CategoryUnsupportedInstrument,
		Message:    fmt.Sprintf("ticker %s is not supported; supported tickers: %s", ticker, strings.Join(supported, ", ")),
		Instrument: ticker,
		Supported:  supported,
	}
}

// InvalidAllocation is returned when weights are negative, missing, or do not sum to the declared total
func InvalidAllocation(sum float64, reason string) *Error {
	s := sum
	return &Error{
		Category: CategoryInvalidAllocation,
		Message:  fmt.Sprintf("invalid allocation (sum=%g): %s", sum, reason),
		Sum:      &s,
	}
}

// EmptyRange is returned when filtering leaves no rows; instrument is blank for the combined table
func EmptyRange(instrument string, start, end time.Time) *Error {
	startStr := start.Format(DateLayout)
	endStr := end.Format(DateLayout)
	msg := fmt.Sprintf("no data available between %s and %s", startStr, endStr)
	if instrument != "" {
		msg = fmt.Sprintf("no data for %s between %s and %s", instrument, startStr, endStr)
	}
	return &Error{
		Category:   CategoryEmptyRange,
		Message:    msg,
		Instrument: instrument,
		StartDate:  startStr,
		EndDate:    endStr,
	}
}

// TooFewRows is the EmptyRange failure of a series that has rows in range but
// fewer than the two needed to measure any change
func TooFewRows(rows int, start, end time.Time) *Error {
	startStr := start.Format(DateLayout)
	endStr := end.Format(DateLayout)
	return &Error{
		Category:  CategoryEmptyRange,
		Message:   fmt.Sprintf("only %d trading day(s) between %s and %s; at least 2 are required", rows, startStr, endStr),
		StartDate: startStr,
		EndDate:   endStr,
	}
}

// MalformedDate reports a date string that could not be parsed and was replaced
// by the dataset bound
func MalformedDate(field, value string, fallback time.Time) *Error {
	return &Error{
		Category: CategoryMalformedDate,
		Message:  fmt.Sprintf("could not parse %s %q; using %s", field, value, fallback.Format(DateLayout)),
	}
}

// CategoryOf returns the category of err or CategoryInternal when err is not an *Error
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryInternal
}
