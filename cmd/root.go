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
	"fmt"
	"io"
	"os"

	"github.com/penny-vault/etfperf/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logCloser io.Closer

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "ETFPERF_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "ETFPERF_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "ETFPERF_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "ETFPERF_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "Write human readable logs instead of JSON")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Reference data
	viper.BindEnv("data.dir", "ETFPERF_DATA_DIR")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory of price CSV files")
	viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	viper.BindEnv("data.holdings_dir", "ETFPERF_HOLDINGS_DIR")
	rootCmd.PersistentFlags().String("holdings-dir", "", "Directory of ETF holdings CSV files")
	viper.BindPFlag("data.holdings_dir", rootCmd.PersistentFlags().Lookup("holdings-dir"))

	viper.BindEnv("data.inflation_dir", "ETFPERF_INFLATION_DIR")
	rootCmd.PersistentFlags().String("inflation-dir", "", "Directory holding spy_inflation.csv and bank_values.csv")
	viper.BindPFlag("data.inflation_dir", rootCmd.PersistentFlags().Lookup("inflation-dir"))

	// Analytics
	viper.BindEnv("allocation.convention", "ETFPERF_CONVENTION")
	rootCmd.PersistentFlags().String("convention", "fraction", "Default allocation convention: fraction (sum to 1) or percent (sum to 100)")
	viper.BindPFlag("allocation.convention", rootCmd.PersistentFlags().Lookup("convention"))

	viper.BindEnv("metrics.risk_free_rate", "ETFPERF_RISK_FREE_RATE")
	rootCmd.PersistentFlags().Float64("risk-free-rate", 0.02, "Annual risk free rate used by the Sharpe ratio")
	viper.BindPFlag("metrics.risk_free_rate", rootCmd.PersistentFlags().Lookup("risk-free-rate"))

	viper.SetDefault("allocation.tolerance", 0.01)
	viper.SetDefault("correlation.universe", "growth")
	viper.SetDefault("cache.local_size", 256)
	viper.SetDefault("cache.ttl", 3600)
	viper.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	viper.SetDefault("inflation.sample_every", 4)
	viper.SetDefault("inflation.local", 1.8)
	viper.SetDefault("inflation.global", 4.5)
	viper.SetDefault("inflation.bank_interest", 0.5)
	viper.SetDefault("inflation.market_return_min", 7)
	viper.SetDefault("inflation.market_return_max", 10)
}

var rootCmd = &cobra.Command{
	Use:     "etfperf",
	Version: common.CurrentVersion.String(),
	Short:   "etfperf analyzes the performance of ETF portfolios",
	Long:    `Backtest fixed-weight ETF portfolios against historical prices and report returns, risk, drawdowns, composition and correlation.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logCloser = common.SetupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
