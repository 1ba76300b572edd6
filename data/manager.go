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
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/penny-vault/etfperf/dataframe"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Manager owns the lifecycle of the reference data. Readers call Snapshot and
// keep using the snapshot they received; Reload publishes a new snapshot
// without touching the old one.
type Manager struct {
	priceDir     string
	holdingsDir  string
	inflationDir string

	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewManager creates a manager reading price files from priceDir and holdings
// files from holdingsDir (optional)
func NewManager(priceDir, holdingsDir string) *Manager {
	return &Manager{
		priceDir:    priceDir,
		holdingsDir: holdingsDir,
	}
}

// NewManagerFromConfig creates a manager from the data.dir, data.holdings_dir
// and data.inflation_dir keys
func NewManagerFromConfig() *Manager {
	return NewManager(viper.GetString("data.dir"), viper.GetString("data.holdings_dir")).
		WithInflationDir(viper.GetString("data.inflation_dir"))
}

// WithInflationDir sets the directory holding the inflation tables (optional)
func (manager *Manager) WithInflationDir(dir string) *Manager {
	manager.inflationDir = dir
	return manager
}

// Load reads the reference data if it has not been loaded yet
func (manager *Manager) Load(ctx context.Context) error {
	if manager.current.Load() != nil {
		return nil
	}
	return manager.Reload(ctx)
}

// Reload reads every file from disk and publishes a fresh snapshot. On error
// the previous snapshot stays in place.
func (manager *Manager) Reload(ctx context.Context) error {
	if manager.priceDir == "" {
		return ErrDataDirNotSet
	}

	start := time.Now()
	subLog := log.With().Str("PriceDir", manager.priceDir).Str("HoldingsDir", manager.holdingsDir).Logger()

	series, err := loadPriceDir(ctx, manager.priceDir)
	if err != nil {
		subLog.Error().Err(err).Msg("could not load price data")
		return err
	}

	holdings := make(map[string][]Holding)
	if manager.holdingsDir != "" {
		holdings, err = loadHoldingsDir(ctx, manager.holdingsDir)
		if err != nil {
			subLog.Error().Err(err).Msg("could not load holdings data")
			return err
		}
	}

	var inflation *Inflation
	if manager.inflationDir != "" {
		inflation, err = LoadInflation(manager.inflationDir)
		if err != nil {
			subLog.Error().Err(err).Str("InflationDir", manager.inflationDir).Msg("could not load inflation data")
			return err
		}
	}

	snap := NewSnapshot(series, holdings).WithInflation(inflation)
	manager.Publish(snap)

	subLog.Info().Uint64("Version", snap.Version).Int("NumInstruments", len(series)).Int("NumHoldings", len(holdings)).Bool("Inflation", inflation != nil).Dur("Elapsed", time.Since(start)).Msg("loaded reference data")
	return nil
}

// Publish makes snap the current snapshot and assigns it the next version
func (manager *Manager) Publish(snap *Snapshot) {
	snap.Version = manager.version.Add(1)
	manager.current.Store(snap)
}

// Snapshot returns the current reference data
func (manager *Manager) Snapshot() (*Snapshot, error) {
	snap := manager.current.Load()
	if snap == nil {
		return nil, ErrSnapshotNotLoaded
	}
	return snap, nil
}

func csvFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func loadPriceDir(ctx context.Context, dir string) (map[string]*dataframe.DataFrame, error) {
	files, err := csvFiles(dir)
	if err != nil {
		return nil, err
	}

	series := make(map[string]*dataframe.DataFrame)
	for _, fn := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileSeries, err := ReadPriceFile(fn)
		if err != nil {
			log.Warn().Err(err).Str("File", fn).Msg("skipping unreadable price file")
			continue
		}

		for ticker, df := range fileSeries {
			if _, ok := series[ticker]; ok {
				log.Warn().Str("Ticker", ticker).Str("File", fn).Msg("ticker defined in multiple files; using the last one")
			}
			series[ticker] = df
		}
	}

	if len(series) == 0 {
		return nil, ErrNoRows
	}

	return series, nil
}

func loadHoldingsDir(ctx context.Context, dir string) (map[string][]Holding, error) {
	files, err := csvFiles(dir)
	if err != nil {
		return nil, err
	}

	holdings := make(map[string][]Holding, len(files))
	for _, fn := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := ReadHoldingsFile(fn)
		if err != nil {
			log.Warn().Err(err).Str("File", fn).Msg("skipping unreadable holdings file")
			continue
		}
		holdings[TickerFromFilename(fn)] = rows
	}

	return holdings, nil
}
