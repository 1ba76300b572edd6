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

// Package correlation computes pairwise Pearson correlation matrices over
// instrument price or return series.
package correlation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/dataframe"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

type Kind string

const (
	// KindPrices correlates close prices
	KindPrices Kind = "prices"

	// KindReturns correlates daily returns of the close prices
	KindReturns Kind = "returns"
)

var (
	ErrUnknownKind = errors.New("unknown correlation kind")
)

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "price", "prices":
		return KindPrices, nil
	case "return", "returns":
		return KindReturns, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, s)
	}
}

type Cell struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Correlation float64 `json:"correlation"`
}

// Matrix is square over IDs; Cells[i][j] correlates IDs[i] with IDs[j]
type Matrix struct {
	IDs   []string
	Cells [][]Cell
}

// Identity returns the degenerate matrix: 1 on the diagonal, 0 elsewhere
func Identity(ids []string) *Matrix {
	m := &Matrix{
		IDs:   ids,
		Cells: make([][]Cell, len(ids)),
	}
	for i, source := range ids {
		row := make([]Cell, len(ids))
		for j, target := range ids {
			row[j] = Cell{Source: source, Target: target}
			if i == j {
				row[j].Correlation = 1.0
			}
		}
		m.Cells[i] = row
	}
	return m
}

// Correlate computes the correlation matrix of the first column of each series
// named in ids over the range r. Series that are missing or have no rows in
// range keep their place in the output as degenerate rows. Fewer than two
// usable series yields the identity matrix. Repeated ids keep only their first
// position.
func Correlate(seriesByID dataframe.Map, ids []string, r data.Range, kind Kind) *Matrix {
	ids = uniqueIDs(ids)
	res := Identity(ids)

	filtered := make(dataframe.Map, len(ids))
	for _, id := range ids {
		df, ok := seriesByID[id]
		if !ok || df.ColCount() == 0 {
			log.Debug().Str("ID", id).Msg("no series for correlation; emitting degenerate row")
			continue
		}

		df = r.Apply(df).DropNA()
		if kind == KindReturns && df.Len() > 0 {
			df = df.PctChange().DropNA()
		}

		if df.Len() == 0 {
			log.Debug().Str("ID", id).Time("Start", r.Start).Time("End", r.End).Msg("series empty in range; emitting degenerate row")
			continue
		}

		filtered[id] = df
	}

	if len(filtered) < 2 {
		return res
	}

	// the computation set keeps the order of ids
	computed := make([]string, 0, len(filtered))
	for _, id := range ids {
		if _, ok := filtered[id]; ok {
			computed = append(computed, id)
		}
	}

	table := filtered.Union(computed...)
	pos := make(map[string]int, len(computed))
	for idx, id := range computed {
		pos[id] = idx
	}

	for i, source := range ids {
		si, ok := pos[source]
		if !ok {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			tj, ok := pos[ids[j]]
			if !ok {
				continue
			}
			corr := pearson(table.Vals[si], table.Vals[tj])
			res.Cells[i][j].Correlation = corr
			res.Cells[j][i].Correlation = corr
		}
	}

	return res
}

// FromStore correlates the close prices of ids held by store. Identifiers the
// store does not know are treated like series with no data in range.
func FromStore(store data.Store, ids []string, r data.Range, kind Kind) *Matrix {
	series := make(dataframe.Map, len(ids))
	for _, id := range ids {
		df, ok := store.Series(id)
		if !ok {
			log.Warn().Str("ID", id).Msg("correlation requested for unknown instrument")
			continue
		}
		closeDf, err := df.Select(string(data.MetricClose))
		if err != nil {
			log.Warn().Err(err).Str("ID", id).Msg("instrument has no close prices")
			continue
		}
		series[id] = closeDf
	}
	return Correlate(series, ids, r, kind)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}

// pearson correlates the rows where both x and y are present. Fewer than two
// shared points or zero variance yields 0.
func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for idx := range x {
		if math.IsNaN(x[idx]) || math.IsNaN(y[idx]) {
			continue
		}
		xs = append(xs, x[idx])
		ys = append(ys, y[idx])
	}

	if len(xs) < 2 {
		return 0
	}

	corr := stat.Correlation(xs, ys, nil)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		return 0
	}
	return corr
}

// Values returns the correlations as a dense row-major matrix
func (m *Matrix) Values() [][]float64 {
	res := make([][]float64, len(m.Cells))
	for i, row := range m.Cells {
		res[i] = make([]float64, len(row))
		for j, cell := range row {
			res[i][j] = cell.Correlation
		}
	}
	return res
}

// Table renders an ASCII formatted table of the matrix
func (m *Matrix) Table() string {
	if len(m.IDs) == 0 {
		return "<NO DATA>"
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(append([]string{""}, m.IDs...))
	table.SetBorder(false)

	for i, vals := range m.Values() {
		row := make([]string, 0, len(vals)+1)
		row = append(row, m.IDs[i])
		for _, v := range vals {
			row = append(row, fmt.Sprintf("%.4f", v))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
