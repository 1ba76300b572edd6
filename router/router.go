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

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/etfperf/handler"
)

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App, h *handler.Handler) {
	app.Get("/health", h.Ping)

	api := app.Group("/v1")
	api.Get("/universes", h.Universes)
	api.Get("/date-range", h.DateRange)

	// Portfolio
	portfolio := api.Group("/portfolio")
	portfolio.Post("/analyze", h.Analyze)
	portfolio.Post("/drawdown", h.Drawdown)
	portfolio.Post("/yearly-returns", h.YearlyReturns)
	portfolio.Post("/instruments", h.Instruments)
	portfolio.Post("/volume", h.Volume)
	portfolio.Post("/composition", h.Composition)

	// Market data
	api.Post("/correlation", h.Correlation)
	api.Post("/candlestick", h.Candlestick)

	// Inflation
	visualisation := api.Group("/visualisation")
	visualisation.Get("/real-vs-nominal", h.RealVsNominal)
	visualisation.Get("/bank-vs-market", h.BankVsMarket)
	visualisation.Get("/inflation-stats", h.InflationStats)
}
