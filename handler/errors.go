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

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/correlation"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/dataframe"
	"github.com/penny-vault/etfperf/portfolio"
	"github.com/rs/zerolog/log"
)

// StatusFor maps an analytics error onto an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrUnsupportedInstrument),
		errors.Is(err, common.ErrInvalidAllocation),
		errors.Is(err, portfolio.ErrInvalidInvestment),
		errors.Is(err, portfolio.ErrUnknownConvention),
		errors.Is(err, correlation.ErrUnknownKind),
		errors.Is(err, dataframe.ErrUnknownFrequency):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrEmptyRange),
		errors.Is(err, data.ErrUnknownUniverse),
		errors.Is(err, data.ErrNoInflationData):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// sendError writes err as a JSON error body. Errors without a category are
// given one from their status code.
func sendError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)

	var body *common.Error
	if !errors.As(err, &body) {
		body = &common.Error{Message: err.Error()}
		switch status {
		case fiber.StatusBadRequest:
			body.Category = common.CategoryBadRequest
		case fiber.StatusNotFound:
			body.Category = common.CategoryNotFound
		default:
			body.Category = common.CategoryInternal
		}
	}

	subLog := log.With().Str("Path", c.Path()).Int("Status", status).Str("Category", string(body.Category)).Logger()
	if status >= fiber.StatusInternalServerError {
		subLog.Error().Err(err).Msg("request failed")
	} else {
		subLog.Info().Err(err).Msg("request rejected")
	}

	return c.Status(status).JSON(body)
}
