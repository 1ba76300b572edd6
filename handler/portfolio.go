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
	"github.com/gofiber/fiber/v2"
)

// Analyze values a portfolio and computes its risk metrics
func (h *Handler) Analyze(c *fiber.Ctx) error {
	return serve(c, h.service.Analyze)
}

func (h *Handler) Drawdown(c *fiber.Ctx) error {
	return serve(c, h.service.Drawdown)
}

func (h *Handler) YearlyReturns(c *fiber.Ctx) error {
	return serve(c, h.service.YearlyReturns)
}

func (h *Handler) Instruments(c *fiber.Ctx) error {
	return serve(c, h.service.Instruments)
}

func (h *Handler) Volume(c *fiber.Ctx) error {
	return serve(c, h.service.Volume)
}

// Composition looks through the portfolio to its companies and sectors
func (h *Handler) Composition(c *fiber.Ctx) error {
	return serve(c, h.service.Composition)
}

func (h *Handler) Correlation(c *fiber.Ctx) error {
	return serve(c, h.service.Correlate)
}

func (h *Handler) Candlestick(c *fiber.Ctx) error {
	return serve(c, h.service.Candlestick)
}
