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

package benchmark

import (
	"math"
	"sort"

	"github.com/penny-vault/pvrisk/dataframe"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// Aggregate computes Σ(metric * weight) / Σ(weight) for every metric and every sector, where the
// weight is the constituent's market capitalization. Rows are sorted by sector key so the result does
// not depend on input order. Constituents with a NaN metric or weight are skipped for that metric; a
// sector without any usable weight yields NaN.
func Aggregate(constituents []*Constituent, metrics []string) *dataframe.DataFrame {
	bySector := make(map[string][]*Constituent)
	for _, c := range constituents {
		bySector[c.Sector] = append(bySector[c.Sector], c)
	}

	sectors := make([]string, 0, len(bySector))
	for sector := range bySector {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	df := dataframe.New([]string{}, metrics)
	for _, sector := range sectors {
		df.InsertRow(sector, weightedMeans(sector, bySector[sector], metrics)...)
	}

	return df
}

// Build aggregates constituents by sector and appends the market-wide weighted mean as the last row
// labeled with the index name (e.g. "SPX Index")
func Build(index string, constituents []*Constituent, metrics []string) *dataframe.DataFrame {
	df := Aggregate(constituents, metrics)
	df.InsertRow(index, weightedMeans(index, constituents, metrics)...)

	log.Debug().Str("Index", index).Int("NumConstituents", len(constituents)).Int("NumSectors", df.Len()-1).Msg("built sector benchmark")
	return df
}

func weightedMeans(group string, constituents []*Constituent, metrics []string) []float64 {
	res := make([]float64, len(metrics))
	vals := make([]float64, 0, len(constituents))
	weights := make([]float64, 0, len(constituents))

	for metricIdx, metric := range metrics {
		vals = vals[:0]
		weights = weights[:0]

		for _, c := range constituents {
			val, ok := c.Returns[metric]
			if !ok || math.IsNaN(val) || math.IsNaN(c.MarketCap) {
				continue
			}
			vals = append(vals, val)
			weights = append(weights, c.MarketCap)
		}

		totalWeight := floats.Sum(weights)
		if totalWeight == 0 {
			log.Warn().Str("Group", group).Str("Metric", metric).Int("NumConstituents", len(constituents)).Msg("group has no weight; benchmark is undefined")
			res[metricIdx] = math.NaN()
			continue
		}

		res[metricIdx] = floats.Dot(vals, weights) / totalWeight
	}

	return res
}
