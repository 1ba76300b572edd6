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
	"fmt"

	"github.com/penny-vault/etfperf/analytics"
	"github.com/penny-vault/etfperf/correlation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var correlationKind string

func init() {
	correlateCmd.Flags().StringVar(&startDate, "start", "", "First date of the analysis")
	correlateCmd.Flags().StringVar(&endDate, "end", "", "Last date of the analysis")
	correlateCmd.Flags().StringVar(&universe, "universe", "", "Universe to correlate when no tickers are given")
	correlateCmd.Flags().StringVar(&correlationKind, "kind", "prices", "Correlate close prices (prices) or daily returns (returns)")
	correlateCmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(correlateCmd)
}

var correlateCmd = &cobra.Command{
	Use:   "correlate [flags] [TICKER...]",
	Short: "Print the correlation matrix of instruments",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		service := loadService(ctx)

		res, err := service.Correlate(ctx, &analytics.CorrelationRequest{
			Tickers:   args,
			StartDate: startDate,
			EndDate:   endDate,
			Universe:  universe,
			Kind:      correlationKind,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not correlate instruments")
		}

		if asJSON {
			printJSON(res)
			return
		}

		fmt.Printf("Correlation of %s from %s to %s\n\n", res.Kind, res.StartDate, res.EndDate)
		matrix := &correlation.Matrix{IDs: res.Tickers, Cells: res.CorrelationMatrix}
		fmt.Println(matrix.Table())
	},
}
