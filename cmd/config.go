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
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configOut string

func init() {
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "Write the configuration to this file instead of stdout")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long:  `Print the configuration merged from the config file, environment and flags. The output is a valid config.toml.`,
	Run: func(cmd *cobra.Command, args []string) {
		out, err := toml.Marshal(viper.AllSettings())
		if err != nil {
			log.Fatal().Err(err).Msg("could not encode configuration")
		}

		if configOut == "" {
			fmt.Print(string(out))
			return
		}

		if err := os.WriteFile(configOut, out, 0600); err != nil {
			log.Fatal().Err(err).Str("FileName", configOut).Msg("could not write configuration")
		}
	},
}
