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
	"sort"

	"github.com/penny-vault/etfperf/common"
	"github.com/spf13/viper"
)

// Universe is a named, fixed basket of instruments that a portfolio may allocate to
type Universe struct {
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
}

// DefaultUniverses are used when the configuration does not define any
var DefaultUniverses = map[string][]string{
	"high-lt":   {"SPY", "GBTC", "BRK-B", "VUG"},
	"low-lt":    {"SPY", "BND", "VTIP", "VXUS"},
	"growth":    {"ARKK", "IWF", "QQQ", "UPRO"},
	"defensive": {"USMV", "VYM", "SPLV", "AGG"},
}

// Universes returns the configured universes sorted by name. The `universes`
// config table overrides the defaults, e.g.
//
//	[universes]
//	high-lt = ["SPY", "GBTC", "BRK-B", "VUG"]
func Universes() []*Universe {
	defs := DefaultUniverses
	if configured := viper.GetStringMapStringSlice("universes"); len(configured) > 0 {
		defs = configured
	}

	res := make([]*Universe, 0, len(defs))
	for name, tickers := range defs {
		upper := make([]string, len(tickers))
		copy(upper, tickers)
		common.ArrToUpper(upper)
		res = append(res, &Universe{Name: name, Tickers: upper})
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})

	return res
}

// LookupUniverse returns the universe with the given name
func LookupUniverse(name string) (*Universe, error) {
	for _, u := range Universes() {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownUniverse, name)
}
