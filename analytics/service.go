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

// Package analytics wires the reference data, the valuation and metrics
// engines and the result cache into the operations served to callers.
package analytics

import (
	"context"
	"encoding/binary"
	"strings"

	"github.com/goccy/go-json"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/observability/opentelemetry"
	"github.com/penny-vault/etfperf/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotSource hands out the current reference data
type SnapshotSource interface {
	Snapshot() (*data.Snapshot, error)
}

type Service struct {
	source SnapshotSource
	cache  *common.Cache

	convention   portfolio.Convention
	tolerance    float64
	riskFreeRate float64
}

// NewService creates a service reading from source. cache may be nil.
func NewService(source SnapshotSource, cache *common.Cache) *Service {
	return &Service{
		source:       source,
		cache:        cache,
		convention:   portfolio.ConventionFraction,
		tolerance:    portfolio.DefaultTolerance,
		riskFreeRate: portfolio.DefaultRiskFreeRate,
	}
}

// NewServiceFromConfig creates a service with the allocation.* and metrics.*
// config keys applied
func NewServiceFromConfig(source SnapshotSource, cache *common.Cache) (*Service, error) {
	s := NewService(source, cache)

	conv, err := portfolio.ParseConvention(viper.GetString("allocation.convention"))
	if err != nil {
		return nil, err
	}
	s.convention = conv

	if viper.IsSet("allocation.tolerance") {
		s.tolerance = viper.GetFloat64("allocation.tolerance")
	}

	if viper.IsSet("metrics.risk_free_rate") {
		s.riskFreeRate = viper.GetFloat64("metrics.risk_free_rate")
	}

	log.Info().Str("Convention", string(s.convention)).Float64("Tolerance", s.tolerance).Float64("RiskFreeRate", s.riskFreeRate).Bool("Cache", cache != nil).Msg("analytics service configured")

	return s, nil
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return opentelemetry.Tracer().Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("category", string(common.CategoryOf(err))))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// cached returns the stored response for (op, req, snapshot version) or
// computes and stores it. Failures are never cached.
func cached[T any](ctx context.Context, s *Service, snap *data.Snapshot, op string, req any, compute func() (T, error)) (T, error) {
	if s.cache == nil {
		return compute()
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return compute()
	}

	version := make([]byte, 8)
	binary.BigEndian.PutUint64(version, snap.Version)
	key := common.Key([]byte(op), reqBytes, version)

	subLog := log.With().Str("Op", op).Str("Key", key).Logger()

	if payload, ok, err := s.cache.Get(ctx, key); ok && err == nil {
		var res T
		if err := json.Unmarshal(payload, &res); err == nil {
			subLog.Debug().Msg("cache hit")
			return res, nil
		}
		subLog.Warn().Msg("could not decode cached payload; recomputing")
	}

	res, err := compute()
	if err != nil {
		return res, err
	}

	payload, err := json.Marshal(res)
	if err != nil {
		subLog.Warn().Err(err).Msg("could not encode result for cache")
		return res, nil
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		subLog.Warn().Err(err).Msg("could not store result in cache")
	}

	return res, nil
}

// allocation validates tickers against the universe and the store and then
// normalizes the weights
func (s *Service) allocation(snap *data.Snapshot, req *PortfolioRequest, requirePrices bool) (*portfolio.Allocation, error) {
	tickers := make([]string, 0, len(req.Allocations))
	for ticker := range req.Allocations {
		tickers = append(tickers, ticker)
	}

	if req.Universe != "" {
		if err := checkUniverse(req.Universe, tickers); err != nil {
			return nil, err
		}
	}

	if requirePrices {
		if err := portfolio.CheckSupported(snap, tickers); err != nil {
			return nil, err
		}
	}

	conv := s.convention
	if req.Convention != "" {
		var err error
		conv, err = portfolio.ParseConvention(req.Convention)
		if err != nil {
			return nil, common.InvalidAllocation(0, err.Error())
		}
	}

	return portfolio.Normalize(req.Allocations, conv, s.tolerance)
}

func checkUniverse(name string, tickers []string) error {
	universe, err := data.LookupUniverse(name)
	if err != nil {
		return err
	}

	allowed := make(map[string]bool, len(universe.Tickers))
	for _, t := range universe.Tickers {
		allowed[t] = true
	}

	upper := make([]string, len(tickers))
	copy(upper, tickers)
	common.ArrToUpper(upper)

	for _, t := range upper {
		if !allowed[t] {
			return common.UnsupportedInstrument(t, universe.Tickers)
		}
	}
	return nil
}

// value resolves the requested range and runs the valuation engine. A series
// with fewer than two rows fails with EmptyRange.
func (s *Service) value(snap *data.Snapshot, req *PortfolioRequest) (*portfolio.ValueSeries, data.Range, error) {
	alloc, err := s.allocation(snap, req, true)
	if err != nil {
		return nil, data.Range{}, err
	}

	min, max := snap.Bounds(alloc.Tickers...)
	r := data.ResolveRange(req.StartDate, req.EndDate, min, max)

	series, err := portfolio.Value(snap, alloc, req.InitialInvestment, r)
	if err != nil {
		return nil, r, err
	}

	if series.Len() < 2 {
		return nil, r, r.TooFewRows(series.Len())
	}

	return series, r, nil
}

// upperAll normalizes tickers to upper case, dropping blanks and repeats
func upperAll(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	res := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		res = append(res, t)
	}
	return res
}
