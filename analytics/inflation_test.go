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

package analytics_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/analytics"
	"github.com/penny-vault/etfperf/common"
	"github.com/penny-vault/etfperf/data"
	"github.com/penny-vault/etfperf/dataframe"
)

var _ = Describe("Inflation", func() {
	var (
		ctx     context.Context
		service *analytics.Service
		req     *analytics.InflationRequest
	)

	BeforeEach(func() {
		ctx = context.Background()
		service = analytics.NewService(inflationManager(), nil)
		req = &analytics.InflationRequest{}
	})

	Describe("RealVsNominal", func() {
		It("keeps every 4th row by default", func() {
			res, err := service.RealVsNominal(ctx, req)
			Expect(err).To(BeNil())
			Expect(res.StartDate).To(Equal("2020-01-31"))
			Expect(res.EndDate).To(Equal("2020-12-31"))
			Expect(res.Points).To(HaveLen(3))
			Expect(res.Points[1].Date).To(Equal("2020-05-31"))
			Expect(*res.Points[1].Nominal).To(BeNumerically("==", 10400))
			Expect(*res.Points[1].Real).To(BeNumerically("==", 10200))
			Expect(res.Points[2].Date).To(Equal("2020-09-30"))
		})

		It("honors the requested sampling step", func() {
			req.SampleEvery = 1
			res, err := service.RealVsNominal(ctx, req)
			Expect(err).To(BeNil())
			Expect(res.Points).To(HaveLen(12))
		})

		It("down-samples to a calendar frequency", func() {
			req.Frequency = "yearly"
			res, err := service.RealVsNominal(ctx, req)
			Expect(err).To(BeNil())
			Expect(res.Points).To(HaveLen(1))
			Expect(res.Points[0].Date).To(Equal("2020-12-31"))
		})

		It("applies the requested range", func() {
			req.StartDate = "2020-06-01"
			req.EndDate = "2020-08-31"
			req.SampleEvery = 1
			res, err := service.RealVsNominal(ctx, req)
			Expect(err).To(BeNil())
			Expect(res.Points).To(HaveLen(3))
			Expect(res.Points[0].Date).To(Equal("2020-06-30"))
			Expect(res.Points[2].Date).To(Equal("2020-08-31"))
		})

		It("rejects an unknown frequency", func() {
			req.Frequency = "fortnightly"
			_, err := service.RealVsNominal(ctx, req)
			Expect(errors.Is(err, dataframe.ErrUnknownFrequency)).To(BeTrue())
		})

		It("fails with EmptyRange when the range lies after the data", func() {
			req.StartDate = "2030-01-01"
			req.EndDate = "2030-02-01"
			_, err := service.RealVsNominal(ctx, req)
			Expect(errors.Is(err, common.ErrEmptyRange)).To(BeTrue())
		})

		It("fails when no inflation data is loaded", func() {
			service = analytics.NewService(fixtureManager(), nil)
			_, err := service.RealVsNominal(ctx, req)
			Expect(err).To(MatchError(data.ErrNoInflationData))
		})
	})

	Describe("BankVsMarket", func() {
		It("joins the tables on their shared dates", func() {
			req.SampleEvery = 1
			res, err := service.BankVsMarket(ctx, req)
			Expect(err).To(BeNil())
			Expect(res.Points).To(HaveLen(6))
			Expect(res.Points[1].Date).To(Equal("2020-03-31"))
			Expect(*res.Points[1].Bank).To(BeNumerically("==", 9980))
			Expect(*res.Points[1].Market).To(BeNumerically("==", 10100))
		})

		It("samples the joined rows", func() {
			res, err := service.BankVsMarket(ctx, req)
			Expect(err).To(BeNil())
			Expect(res.Points).To(HaveLen(2))
			Expect(res.Points[1].Date).To(Equal("2020-09-30"))
			Expect(*res.Points[1].Bank).To(BeNumerically("==", 9920))
			Expect(*res.Points[1].Market).To(BeNumerically("==", 10400))
		})

		It("fails when no inflation data is loaded", func() {
			service = analytics.NewService(fixtureManager(), nil)
			_, err := service.BankVsMarket(ctx, req)
			Expect(err).To(MatchError(data.ErrNoInflationData))
		})
	})

	Describe("InflationStats", func() {
		It("reports the headline figures without data", func() {
			service = analytics.NewService(fixtureManager(), nil)
			res, err := service.InflationStats(ctx)
			Expect(err).To(BeNil())
			Expect(res.LocalInflation).To(Equal(analytics.DefaultLocalInflation))
			Expect(res.GlobalInflation).To(Equal(analytics.DefaultGlobalInflation))
			Expect(res.BankInterest).To(Equal(analytics.DefaultBankInterest))
			Expect(res.MarketReturnRange.Min).To(Equal(analytics.DefaultMarketReturnMin))
			Expect(res.MarketReturnRange.Max).To(Equal(analytics.DefaultMarketReturnMax))
			Expect(res.RealMarketReturn).To(BeNil())
			Expect(res.RealBankReturn).To(BeNil())
		})

		It("adds the annualized real returns when data is loaded", func() {
			res, err := service.InflationStats(ctx)
			Expect(err).To(BeNil())
			Expect(*res.RealMarketReturn).To(BeNumerically("~", 6.01, 1e-9))
			Expect(*res.RealBankReturn).To(BeNumerically("~", -1.2, 1e-9))
		})
	})
})
