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

	"github.com/penny-vault/etfperf/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var currency string

func init() {
	addPortfolioFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&currency, "currency", "USD", "Currency used to display values")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] TICKER=WEIGHT...",
	Short: "Backtest a fixed-weight portfolio",
	Long:  `Value a fixed-weight portfolio over the requested dates and report its growth, risk metrics, yearly returns and drawdowns.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		service := loadService(ctx)
		req := portfolioRequest(args)

		res, err := service.Analyze(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Msg("could not analyze portfolio")
		}

		drawdown, err := service.Drawdown(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Msg("could not analyze drawdowns")
		}

		if asJSON {
			printJSON(map[string]any{
				"analysis": res,
				"drawdown": drawdown,
			})
			return
		}

		fmt.Println(report.Summary(res, currency))
		fmt.Println(report.YearlyReturns(res.YearlyReturns))
		fmt.Println(report.Drawdowns(drawdown))
	},
}
