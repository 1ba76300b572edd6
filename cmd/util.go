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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/penny-vault/etfperf/analytics"
	"github.com/penny-vault/etfperf/data"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	ErrMalformedAllocation = errors.New("allocations must be given as TICKER=WEIGHT")
)

// portfolio request flags shared by the analysis commands
var (
	startDate  string
	endDate    string
	investment float64
	universe   string
	asJSON     bool
)

func addPortfolioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&startDate, "start", "", "First date of the analysis (YYYY-MM-DD or DD/MM/YYYY); defaults to the first date with data")
	cmd.Flags().StringVar(&endDate, "end", "", "Last date of the analysis; defaults to the last date with data")
	cmd.Flags().Float64Var(&investment, "investment", 10_000, "Initial investment")
	cmd.Flags().StringVar(&universe, "universe", "", "Restrict tickers to a named universe")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
}

// loadService reads the reference data and builds a service without a result cache
func loadService(ctx context.Context) *analytics.Service {
	manager := data.NewManagerFromConfig()
	if err := manager.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not load reference data")
	}

	service, err := analytics.NewServiceFromConfig(manager, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("could not configure analytics service")
	}
	return service
}

// parseAllocations converts TICKER=WEIGHT arguments into a weight map
func parseAllocations(args []string) (map[string]float64, error) {
	res := make(map[string]float64, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAllocation, arg)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAllocation, arg)
		}
		res[strings.TrimSpace(parts[0])] += weight
	}
	return res, nil
}

func portfolioRequest(args []string) *analytics.PortfolioRequest {
	allocations, err := parseAllocations(args)
	if err != nil {
		log.Fatal().Err(err).Msg("could not parse allocations")
	}

	return &analytics.PortfolioRequest{
		Allocations:       allocations,
		InitialInvestment: investment,
		StartDate:         startDate,
		EndDate:           endDate,
		Universe:          universe,
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("could not encode result")
	}
}
