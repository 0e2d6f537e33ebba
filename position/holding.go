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

// Package position holds the per-instrument rows of a reporting run and the calculations that
// attach performance relative to the instrument's sector benchmark.
package position

import (
	"math"
	"sort"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pvrisk/benchmark"
	"github.com/penny-vault/pvrisk/dataframe"
)

const (
	SinceEntryColumn = "% since AEQ"
	relativeSuffix   = " vs. Sector"
)

// Holding is one position of a portfolio or one constituent of a screened universe
type Holding struct {
	Portfolio   string
	Name        string
	ISIN        string
	Query       string
	Sector      string
	Region      string
	Currency    string
	EntryPrice  float64
	EntryFXRate float64
	Quantity    float64
	LastPrice   float64
	Returns     map[string]float64
	Relative    map[string]float64
}

type jsonHolding struct {
	Portfolio   string              `json:"portfolio,omitempty"`
	Name        string              `json:"name"`
	ISIN        string              `json:"isin,omitempty"`
	Query       string              `json:"query,omitempty"`
	Sector      string              `json:"sector"`
	Region      string              `json:"region"`
	Currency    string              `json:"currency,omitempty"`
	EntryPrice  *float64            `json:"entry_price"`
	EntryFXRate *float64            `json:"entry_fx_rate"`
	Quantity    *float64            `json:"quantity"`
	LastPrice   *float64            `json:"last_price"`
	SinceEntry  *float64            `json:"since_entry"`
	Returns     map[string]*float64 `json:"returns"`
	Relative    map[string]*float64 `json:"relative"`
}

// MarshalJSON writes the prices and returns of the holding; unknown values are written as null
func (h *Holding) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonHolding{
		Portfolio:   h.Portfolio,
		Name:        h.Name,
		ISIN:        h.ISIN,
		Query:       h.Query,
		Sector:      h.Sector,
		Region:      h.Region,
		Currency:    h.Currency,
		EntryPrice:  nullable(h.EntryPrice),
		EntryFXRate: nullable(h.EntryFXRate),
		Quantity:    nullable(h.Quantity),
		LastPrice:   nullable(h.LastPrice),
		SinceEntry:  nullable(h.SinceEntry()),
		Returns:     nullableMap(h.Returns),
		Relative:    nullableMap(h.Relative),
	})
}

func nullable(val float64) *float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return nil
	}
	return &val
}

func nullableMap(vals map[string]float64) map[string]*float64 {
	res := make(map[string]*float64, len(vals))
	for k, v := range vals {
		res[k] = nullable(v)
	}
	return res
}

// RelativeColumn returns the name of the column holding the return of horizon relative to the sector
func RelativeColumn(horizon string) string {
	return horizon + relativeSuffix
}

// Key uniquely identifies the holding within a run
func (h *Holding) Key() string {
	if h.Portfolio == "" {
		return h.Name
	}
	return h.Portfolio + " / " + h.Name
}

// CostBasis returns the entry price converted into the quote currency using the entry fx-rate, if one
// was recorded
func (h *Holding) CostBasis() float64 {
	if h.EntryFXRate > 0 {
		return h.EntryPrice * h.EntryFXRate
	}
	return h.EntryPrice
}

// SinceEntry returns the percentage change from the cost basis to the last price; NaN when either
// price is unknown or the cost basis is zero
func (h *Holding) SinceEntry() float64 {
	basis := h.CostBasis()
	if basis == 0 || math.IsNaN(basis) || math.IsNaN(h.LastPrice) {
		return math.NaN()
	}
	return ((h.LastPrice - basis) / basis) * 100
}

// Return looks up the raw return for the horizon; NaN if it is unknown
func (h *Holding) Return(horizon string) float64 {
	if val, ok := h.Returns[horizon]; ok {
		return val
	}
	return math.NaN()
}

func (h *Holding) clone() *Holding {
	res := *h
	res.Returns = make(map[string]float64, len(h.Returns))
	for k, v := range h.Returns {
		res.Returns[k] = v
	}
	if h.Relative != nil {
		res.Relative = make(map[string]float64, len(h.Relative))
		for k, v := range h.Relative {
			res.Relative[k] = v
		}
	}
	return &res
}

// FromConstituents converts the members of a market index into holdings so they can be screened
// like portfolio positions
func FromConstituents(region string, constituents []*benchmark.Constituent) []*Holding {
	holdings := make([]*Holding, 0, len(constituents))
	for _, c := range constituents {
		name := c.Name
		if name == "" {
			name = c.Ticker
		}
		holdings = append(holdings, &Holding{
			Name:       name,
			Query:      c.Ticker,
			Sector:     c.Sector,
			Region:     region,
			EntryPrice: math.NaN(),
			LastPrice:  math.NaN(),
			Returns:    c.Returns,
		})
	}
	return holdings
}

// Frame builds a dataframe with one row per holding containing the raw horizon returns, the
// relative returns and the since-entry return
func Frame(holdings []*Holding, horizons []string) *dataframe.DataFrame {
	cols := make([]string, 0, 2*len(horizons)+1)
	cols = append(cols, horizons...)
	for _, horizon := range horizons {
		cols = append(cols, RelativeColumn(horizon))
	}
	cols = append(cols, SinceEntryColumn)

	df := dataframe.New([]string{}, cols)
	for _, h := range holdings {
		vals := make(map[string]float64, len(cols))
		for _, horizon := range horizons {
			vals[horizon] = h.Return(horizon)
			if rel, ok := h.Relative[horizon]; ok {
				vals[RelativeColumn(horizon)] = rel
			}
		}
		vals[SinceEntryColumn] = h.SinceEntry()
		df.InsertMap(h.Key(), vals)
	}

	return df
}

// Filter returns the holdings for which keep is true
func Filter(holdings []*Holding, keep []bool) []*Holding {
	res := make([]*Holding, 0, len(holdings))
	for idx, h := range holdings {
		if idx < len(keep) && keep[idx] {
			res = append(res, h)
		}
	}
	return res
}

// ByPortfolio splits holdings by portfolio name; names are returned in order of first appearance
func ByPortfolio(holdings []*Holding) ([]string, map[string][]*Holding) {
	names := make([]string, 0)
	groups := make(map[string][]*Holding)
	for _, h := range holdings {
		if _, ok := groups[h.Portfolio]; !ok {
			names = append(names, h.Portfolio)
		}
		groups[h.Portfolio] = append(groups[h.Portfolio], h)
	}
	return names, groups
}

// SortBySinceEntry orders holdings by since-entry return, best first; unknown returns sort last
func SortBySinceEntry(holdings []*Holding) {
	sort.SliceStable(holdings, func(i, j int) bool {
		a := holdings[i].SinceEntry()
		b := holdings[j].SinceEntry()
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
}
