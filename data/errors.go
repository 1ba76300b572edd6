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

import "errors"

var (
	ErrNotFound          = errors.New("instrument not found")
	ErrInvalidDate       = errors.New("could not parse date")
	ErrNoDateColumn      = errors.New("file has no date column")
	ErrNoRows            = errors.New("file has no data rows")
	ErrNoWeightColumn    = errors.New("holdings file has no weight column")
	ErrNoCompanyColumn   = errors.New("holdings file has no company column")
	ErrDataDirNotSet     = errors.New("data directory not configured")
	ErrSnapshotNotLoaded = errors.New("reference data has not been loaded")
	ErrUnknownUniverse   = errors.New("unknown universe")
	ErrMissingColumn     = errors.New("file is missing a required column")
	ErrNoInflationData   = errors.New("inflation data has not been loaded")
)
