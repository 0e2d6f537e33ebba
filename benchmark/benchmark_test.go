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

package benchmark_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvrisk/benchmark"
	"github.com/penny-vault/pvrisk/dataframe"
)

var metrics = []string{"1D", "YTD"}

var _ = Describe("Aggregate", func() {
	var (
		constituents []*benchmark.Constituent
	)

	BeforeEach(func() {
		constituents = []*benchmark.Constituent{
			{Ticker: "AAPL", Sector: "Tech", MarketCap: 0.5, Returns: map[string]float64{"1D": 1.0, "YTD": 10.0}},
			{Ticker: "XOM", Sector: "Energy", MarketCap: 300, Returns: map[string]float64{"1D": -2.0, "YTD": 4.0}},
			{Ticker: "MSFT", Sector: "Tech", MarketCap: 0.3, Returns: map[string]float64{"1D": 2.0, "YTD": -5.0}},
			{Ticker: "NVDA", Sector: "Tech", MarketCap: 0.2, Returns: map[string]float64{"1D": -4.0, "YTD": 20.0}},
		}
	})

	It("has one row per sector sorted by key", func() {
		df := benchmark.Aggregate(constituents, metrics)
		Expect(df.Index).To(Equal([]string{"Energy", "Tech"}))
		Expect(df.ColNames).To(Equal(metrics))
	})

	It("computes the market-cap weighted mean", func() {
		df := benchmark.Aggregate(constituents, metrics)
		oneDay, err := df.Value("Tech", "1D")
		Expect(err).To(BeNil())
		Expect(oneDay).To(BeNumerically("~", 0.5*1.0+0.3*2.0+0.2*-4.0, 1e-9))

		ytd, err := df.Value("Tech", "YTD")
		Expect(err).To(BeNil())
		Expect(ytd).To(BeNumerically("~", 0.5*10.0+0.3*-5.0+0.2*20.0, 1e-9))
	})

	It("gives a single constituent sector its own returns", func() {
		df := benchmark.Aggregate(constituents, metrics)
		oneDay, err := df.Value("Energy", "1D")
		Expect(err).To(BeNil())
		Expect(oneDay).To(BeNumerically("~", -2.0, 1e-9))
	})

	It("does not depend on input order", func() {
		reversed := make([]*benchmark.Constituent, len(constituents))
		for idx, c := range constituents {
			reversed[len(constituents)-idx-1] = c
		}

		a := benchmark.Aggregate(constituents, metrics)
		b := benchmark.Aggregate(reversed, metrics)
		Expect(b.Index).To(Equal(a.Index))
		for colIdx := range a.Vals {
			for rowIdx := range a.Vals[colIdx] {
				Expect(b.Vals[colIdx][rowIdx]).To(BeNumerically("~", a.Vals[colIdx][rowIdx], 1e-9))
			}
		}
	})

	It("yields NaN for a sector with zero total weight", func() {
		constituents = append(constituents,
			&benchmark.Constituent{Ticker: "NEE", Sector: "Utilities", MarketCap: 0, Returns: map[string]float64{"1D": 1.0, "YTD": 2.0}},
			&benchmark.Constituent{Ticker: "DUK", Sector: "Utilities", MarketCap: 0, Returns: map[string]float64{"1D": 3.0, "YTD": 4.0}},
		)

		df := benchmark.Aggregate(constituents, metrics)
		val, err := df.Value("Utilities", "1D")
		Expect(err).To(BeNil())
		Expect(math.IsNaN(val)).To(BeTrue())
	})

	It("yields NaN for a metric that no constituent reports", func() {
		df := benchmark.Aggregate(constituents, []string{"1D", "1M"})
		val, err := df.Value("Tech", "1M")
		Expect(err).To(BeNil())
		Expect(math.IsNaN(val)).To(BeTrue())
	})

	It("skips constituents with missing values", func() {
		constituents[0].Returns["1D"] = math.NaN()
		df := benchmark.Aggregate(constituents, metrics)
		val, err := df.Value("Tech", "1D")
		Expect(err).To(BeNil())
		Expect(val).To(BeNumerically("~", (0.3*2.0+0.2*-4.0)/0.5, 1e-9))
	})

	It("appends the market total as the last row", func() {
		df := benchmark.Build("SPX Index", constituents, metrics)
		Expect(df.Index).To(Equal([]string{"Energy", "Tech", "SPX Index"}))

		total, err := df.Value("SPX Index", "1D")
		Expect(err).To(BeNil())
		expected := (0.5*1.0 + 300*-2.0 + 0.3*2.0 + 0.2*-4.0) / 301.0
		Expect(total).To(BeNumerically("~", expected, 1e-9))
	})
})

var _ = Describe("Diff", func() {
	var (
		us *dataframe.DataFrame
		eu *dataframe.DataFrame
	)

	BeforeEach(func() {
		us = &dataframe.DataFrame{
			Index:    []string{"Energy", "Tech", "Utilities", "SPX Index"},
			ColNames: []string{"1D", "YTD", "5D"},
			Vals:     [][]float64{{1, 2, 3, 1.5}, {10, 20, 30, 15}, {0, 0, 0, 0}},
		}
		eu = &dataframe.DataFrame{
			Index:    []string{"Energy", "Health", "Tech", "SXXP Index"},
			ColNames: []string{"1D", "YTD"},
			Vals:     [][]float64{{4, 7, 1, 2.5}, {12, 3, 25, 11}},
		}
	})

	It("subtracts a from b for shared sectors", func() {
		diff := benchmark.Diff(us, eu)
		val, err := diff.Value("Tech", "YTD")
		Expect(err).To(BeNil())
		Expect(val).To(Equal(5.0))

		val, err = diff.Value("Energy", "1D")
		Expect(err).To(BeNil())
		Expect(val).To(Equal(3.0))
	})

	It("only keeps the intersection of sectors and columns", func() {
		diff := benchmark.Diff(us, eu)
		Expect(diff.Index).NotTo(ContainElement("Utilities"))
		Expect(diff.Index).NotTo(ContainElement("Health"))
		Expect(diff.ColNames).To(Equal([]string{"1D", "YTD"}))
	})

	It("appends the difference of the total rows", func() {
		diff := benchmark.Diff(us, eu)
		Expect(diff.Len()).To(Equal(3))
		Expect(diff.Index[2]).To(Equal("SXXP Index vs. SPX Index"))

		val, err := diff.Value("SXXP Index vs. SPX Index", "1D")
		Expect(err).To(BeNil())
		Expect(val).To(Equal(1.0))

		val, err = diff.Value("SXXP Index vs. SPX Index", "YTD")
		Expect(err).To(BeNil())
		Expect(val).To(Equal(-4.0))
	})

	It("is antisymmetric", func() {
		ab := benchmark.Diff(us, eu)
		ba := benchmark.Diff(eu, us)
		for _, sector := range []string{"Energy", "Tech"} {
			for _, col := range []string{"1D", "YTD"} {
				x, err := ab.Value(sector, col)
				Expect(err).To(BeNil())
				y, err := ba.Value(sector, col)
				Expect(err).To(BeNil())
				Expect(x).To(Equal(-y))
			}
		}

		abTotal := ab.Last()
		baTotal := ba.Last()
		for colIdx := range abTotal.ColNames {
			Expect(abTotal.Vals[colIdx][0]).To(Equal(-baTotal.Vals[colIdx][0]))
		}
	})

	It("returns an empty table when an input is empty", func() {
		diff := benchmark.Diff(us, &dataframe.DataFrame{})
		Expect(diff.Len()).To(Equal(0))
	})
})

var _ = DescribeTable("NormalizeSector",
	func(label, expected string) {
		Expect(benchmark.NormalizeSector(label)).To(Equal(expected))
	},
	Entry("numeric prefix", "45 Information Technology", "Information Technology"),
	Entry("dotted prefix", "10. Energy", "Energy"),
	Entry("dashed prefix", "55 - Utilities", "Utilities"),
	Entry("no prefix", "Health Care", "Health Care"),
	Entry("surrounding space", "  20 Industrials ", "Industrials"),
	Entry("digits inside the name are kept", "Web3 Services", "Web3 Services"),
)
