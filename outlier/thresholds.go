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

// Package outlier derives statistical cut-off lines from a reference population and flags the
// entities whose returns fall outside of them.
package outlier

import (
	"math"
	"sort"

	"github.com/penny-vault/pvrisk/dataframe"
	"github.com/penny-vault/pvrisk/position"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	LowCutoff  = "low cut-off"
	HighCutoff = "high cut-off"
)

// Band configures which quantiles become the low and high cut-offs and the granularity they are
// rounded to
type Band struct {
	Low         float64 `mapstructure:"low_quantile"`
	High        float64 `mapstructure:"high_quantile"`
	Granularity float64 `mapstructure:"granularity"`
}

var DefaultBand = Band{
	Low:         0.01,
	High:        0.99,
	Granularity: 0.5,
}

// Thresholds holds one row per monitored column with the columns LowCutoff and HighCutoff
type Thresholds struct {
	Frame *dataframe.DataFrame
}

// MonitoredColumns returns the raw horizon columns followed by their relative-to-sector columns
func MonitoredColumns(horizons []string) []string {
	cols := make([]string, 0, 2*len(horizons))
	cols = append(cols, horizons...)
	for _, horizon := range horizons {
		cols = append(cols, position.RelativeColumn(horizon))
	}
	return cols
}

// ComputeThresholds computes the low and high quantile of every requested column of the reference
// population, rounded to the band's granularity. A column missing from the population gets NaN
// cut-offs, which never flag anything.
func ComputeThresholds(population *dataframe.DataFrame, cols []string, band Band) *Thresholds {
	df := dataframe.New(cols, []string{LowCutoff, HighCutoff})

	for rowIdx, col := range cols {
		vals := population.Col(col)
		if vals == nil {
			log.Warn().Str("Column", col).Msg("reference population has no such column; cut-offs are undefined")
			continue
		}

		df.Vals[0][rowIdx] = RoundTo(Quantile(vals, band.Low), band.Granularity)
		df.Vals[1][rowIdx] = RoundTo(Quantile(vals, band.High), band.Granularity)
	}

	return &Thresholds{Frame: df}
}

// Low returns the low cut-off for the column; NaN if the column is not monitored
func (t *Thresholds) Low(col string) float64 {
	val, err := t.Frame.Value(col, LowCutoff)
	if err != nil {
		return math.NaN()
	}
	return val
}

// High returns the high cut-off for the column; NaN if the column is not monitored
func (t *Thresholds) High(col string) float64 {
	val, err := t.Frame.Value(col, HighCutoff)
	if err != nil {
		return math.NaN()
	}
	return val
}

// Quantile computes the p-th quantile of vals by linear interpolation between the closest order
// statistics (h = (n-1)p). NaN values are ignored; an empty input yields NaN.
func Quantile(vals []float64, p float64) float64 {
	sorted := make([]float64, 0, len(vals))
	for _, val := range vals {
		if !math.IsNaN(val) {
			sorted = append(sorted, val)
		}
	}

	if len(sorted) == 0 || math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN()
	}

	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}

	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// RoundTo rounds val to the nearest multiple of granularity; ties go to the even multiple
// (e.g. -8.25 -> -8.0, -8.75 -> -9.0 for a granularity of 0.5)
func RoundTo(val, granularity float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) || granularity <= 0 {
		return val
	}

	step := decimal.NewFromFloat(granularity)
	rounded, _ := decimal.NewFromFloat(val).Div(step).RoundBank(0).Mul(step).Float64()
	return rounded
}
