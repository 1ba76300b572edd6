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

package common_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/etfperf/common"
)

var _ = Describe("Cache", func() {
	var (
		ctx   context.Context
		cache *common.Cache
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		cache, err = common.NewCache(2, "", time.Minute)
		Expect(err).To(BeNil())
	})

	It("returns what was stored", func() {
		payload := []byte(strings.Repeat("portfolio ", 100))
		Expect(cache.Set(ctx, "k", payload)).To(Succeed())

		val, ok, err := cache.Get(ctx, "k")
		Expect(err).To(BeNil())
		Expect(ok).To(BeTrue())
		Expect(val).To(Equal(payload))
	})

	It("misses unknown keys", func() {
		_, ok, err := cache.Get(ctx, "missing")
		Expect(err).To(BeNil())
		Expect(ok).To(BeFalse())
	})

	It("evicts the least recently used entry", func() {
		Expect(cache.Set(ctx, "a", []byte("1"))).To(Succeed())
		Expect(cache.Set(ctx, "b", []byte("2"))).To(Succeed())
		Expect(cache.Set(ctx, "c", []byte("3"))).To(Succeed())
		Expect(cache.Len()).To(Equal(2))

		_, ok, _ := cache.Get(ctx, "a")
		Expect(ok).To(BeFalse())
	})

	It("purges the local tier", func() {
		Expect(cache.Set(ctx, "a", []byte("1"))).To(Succeed())
		cache.Purge()
		Expect(cache.Len()).To(Equal(0))
	})

	It("rejects a malformed redis url", func() {
		_, err := common.NewCache(2, "not a url", time.Minute)
		Expect(err).ToNot(BeNil())
	})

	It("derives distinct keys from part boundaries", func() {
		Expect(common.Key([]byte("ab"), []byte("c"))).ToNot(Equal(common.Key([]byte("a"), []byte("bc"))))
		Expect(common.Key([]byte("ab"), []byte("c"))).To(Equal(common.Key([]byte("ab"), []byte("c"))))
	})
})

var _ = Describe("Error", func() {
	It("unwraps to the category sentinel", func() {
		err := fmt.Errorf("wrapped: %w", common.UnsupportedInstrument("ZZZ", []string{"SPY"}))
		Expect(errors.Is(err, common.ErrUnsupportedInstrument)).To(BeTrue())
		Expect(common.CategoryOf(err)).To(Equal(common.CategoryUnsupportedInstrument))
	})

	It("records the allocation sum", func() {
		e := common.InvalidAllocation(0.7, "weights must sum to 1")
		Expect(*e.Sum).To(BeNumerically("~", 0.7, 1e-12))
		Expect(errors.Is(e, common.ErrInvalidAllocation)).To(BeTrue())
	})

	It("names the instrument of an empty range", func() {
		start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		e := common.EmptyRange("BND", start, start.AddDate(0, 1, 0))
		Expect(e.Message).To(ContainSubstring("BND"))
		Expect(e.StartDate).To(Equal("2020-01-01"))
		Expect(e.EndDate).To(Equal("2020-02-01"))
	})

	It("treats plain errors as internal", func() {
		Expect(common.CategoryOf(errors.New("boom"))).To(Equal(common.CategoryInternal))
	})
})

var _ = Describe("Util", func() {
	It("replaces non-finite values", func() {
		Expect(common.Finite(math.NaN())).To(BeNumerically("==", 0))
		Expect(common.Finite(math.Inf(-1))).To(BeNumerically("==", 0))
		Expect(common.Finite(1.5)).To(BeNumerically("==", 1.5))
		Expect(common.NullableFloat(math.NaN())).To(BeNil())
		Expect(*common.NullableFloat(2)).To(BeNumerically("==", 2))
	})

	It("rounds to decimal places", func() {
		Expect(common.Round(9.000000000000007, 2)).To(BeNumerically("==", 9))
		Expect(common.Round(1.23456, 3)).To(BeNumerically("~", 1.235, 1e-12))
	})

	It("upper cases tickers in place", func() {
		tickers := []string{"spy", "Bnd"}
		common.ArrToUpper(tickers)
		Expect(tickers).To(Equal([]string{"SPY", "BND"}))
	})

	It("includes the program name in the version string", func() {
		Expect(common.BuildVersionString(false)).To(HavePrefix(common.ProgramName + " v"))
	})
})
