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
	"os"
	"path/filepath"

	"github.com/penny-vault/etfperf/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var chartDir string

func init() {
	addPortfolioFlags(chartCmd)
	chartCmd.Flags().StringVarP(&chartDir, "out", "o", ".", "Directory to write growth.png and drawdown.png to")
	rootCmd.AddCommand(chartCmd)
}

var chartCmd = &cobra.Command{
	Use:   "chart [flags] TICKER=WEIGHT...",
	Short: "Render growth and drawdown charts of a portfolio",
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

		growthPNG, err := report.GrowthChart(res.PortfolioSeries)
		if err != nil {
			log.Fatal().Err(err).Msg("could not render growth chart")
		}

		drawdownPNG, err := report.DrawdownChart(drawdown.DrawdownSeries)
		if err != nil {
			log.Fatal().Err(err).Msg("could not render drawdown chart")
		}

		for name, img := range map[string][]byte{"growth.png": growthPNG, "drawdown.png": drawdownPNG} {
			fn := filepath.Join(chartDir, name)
			if err := os.WriteFile(fn, img, 0644); err != nil {
				log.Fatal().Err(err).Str("FileName", fn).Msg("could not write chart")
			}
			log.Info().Str("FileName", fn).Msg("wrote chart")
		}
	},
}
