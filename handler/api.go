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

// Package handler adapts the analytics service to HTTP
package handler

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/etfperf/analytics"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	service *analytics.Service
}

func New(service *analytics.Service) *Handler {
	return &Handler{service: service}
}

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2021-06-19T08:09:10.115924-05:00"`
	Version string `json:"version"`
}

// Ping reports that the server is alive
func (h *Handler) Ping(c *fiber.Ctx) error {
	now, err := time.Now().MarshalText()
	if err != nil {
		log.Error().Err(err).Msg("error while getting time in ping")
		return c.JSON(PingResponse{
			Status:  "error",
			Message: err.Error(),
			Version: common.CurrentVersion.String(),
		})
	}

	return c.JSON(PingResponse{
		Status:  "success",
		Message: "API is alive",
		Time:    string(now),
		Version: common.CurrentVersion.String(),
	})
}

// Universes lists the named instrument universes
func (h *Handler) Universes(c *fiber.Ctx) error {
	ctx, span := startSpan(c)
	defer span.End()

	return c.JSON(h.service.Universes(ctx))
}

// DateRange reports the dataset bounds, optionally limited by the universe
// query parameter
func (h *Handler) DateRange(c *fiber.Ctx) error {
	ctx, span := startSpan(c)
	defer span.End()

	res, err := h.service.DateRange(ctx, c.Query("universe"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}

func startSpan(c *fiber.Ctx) (context.Context, trace.Span) {
	return opentelemetry.Tracer().Start(c.UserContext(), c.Route().Path, trace.WithAttributes(opentelemetry.SpanAttributesFromFiber(c)...))
}

// serve decodes the JSON body into a Req, runs op and encodes the result
func serve[Req any, Res any](c *fiber.Ctx, op func(context.Context, *Req) (Res, error)) error {
	ctx, span := startSpan(c)
	defer span.End()

	req := new(Req)
	if err := json.Unmarshal(c.Body(), req); err != nil {
		log.Warn().Err(err).Str("Path", c.Path()).Msg("could not decode request body")
		return c.Status(fiber.StatusBadRequest).JSON(&common.Error{
			Category: common.CategoryBadRequest,
			Message:  "request body is not valid JSON: " + err.Error(),
		})
	}

	res, err := op(ctx, req)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}
