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
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/etfperf/analytics"
	"github.com/penny-vault/etfperf/common"
	"github.com/rs/zerolog/log"
)

func (h *Handler) RealVsNominal(c *fiber.Ctx) error {
	return serveQuery(c, h.service.RealVsNominal)
}

func (h *Handler) BankVsMarket(c *fiber.Ctx) error {
	return serveQuery(c, h.service.BankVsMarket)
}

// InflationStats reports the headline inflation figures
func (h *Handler) InflationStats(c *fiber.Ctx) error {
	ctx, span := startSpan(c)
	defer span.End()

	res, err := h.service.InflationStats(ctx)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}

// serveQuery decodes the query string into an InflationRequest and runs op
func serveQuery[Res any](c *fiber.Ctx, op func(context.Context, *analytics.InflationRequest) (Res, error)) error {
	ctx, span := startSpan(c)
	defer span.End()

	req := new(analytics.InflationRequest)
	if err := c.QueryParser(req); err != nil {
		log.Warn().Err(err).Str("Path", c.Path()).Msg("could not decode query parameters")
		return c.Status(fiber.StatusBadRequest).JSON(&common.Error{
			Category: common.CategoryBadRequest,
			Message:  "query parameters are not valid: " + err.Error(),
		})
	}

	res, err := op(ctx, req)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}
