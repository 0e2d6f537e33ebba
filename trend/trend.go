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


// Package trend summarizes the performance of thematic investment baskets by theme and by sector
package trend

import (
	"math"
	"sort"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pvrisk/dataframe"
	"gonum.org/v1/gonum/stat"
)

// ChangeColumn is the column of the group means
const ChangeColumn = "% Change"

// Member is one instrument of a thematic basket
type Member struct {
	Theme  string
	Sector string
	Name   string
	Query  string
	Change float64
}

type jsonMember struct {
	Theme  string   `json:"theme,omitempty"`
	Sector string   `json:"sector,omitempty"`
	Name   string   `json:"name"`
	Query  string   `json:"query"`
	Change *float64 `json:"change"`
}

// MarshalJSON writes an unknown change as null
func (m *Member) MarshalJSON() ([]byte, error) {
	res := jsonMember{
		Theme:  m.Theme,
		Sector: m.Sector,
		Name:   m.Name,
		Query:  m.Query,
	}
	if !math.IsNaN(m.Change) {
		change := m.Change
		res.Change = &change
	}
	return json.Marshal(res)
}

// ByTheme groups members by their theme
func ByTheme(m *Member) string { return m.Theme }

// BySector groups members by their sector
func BySector(m *Member) string { return m.Sector }

// GroupMeans averages the change of the members of every group, ignoring unknown changes. The result
// has one row per group ordered by mean change, best first; groups without a known change sort last.
// Members with an empty group key are skipped.
func GroupMeans(members []*Member, key func(*Member) string) *dataframe.DataFrame {
	groups := make([]string, 0)
	changes := make(map[string][]float64)
	for _, m := range members {
		k := key(m)
		if k == "" {
			continue
		}
		if _, ok := changes[k]; !ok {
			groups = append(groups, k)
			changes[k] = []float64{}
		}
		if !math.IsNaN(m.Change) {
			changes[k] = append(changes[k], m.Change)
		}
	}

	means := make(map[string]float64, len(groups))
	for _, k := range groups {
		if len(changes[k]) == 0 {
			means[k] = math.NaN()
			continue
		}
		means[k] = stat.Mean(changes[k], nil)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return descending(means[groups[i]], means[groups[j]])
	})

	df := dataframe.New([]string{}, []string{ChangeColumn})
	for _, k := range groups {
		df.InsertRow(k, means[k])
	}
	return df
}

// Leaders lists the best performing members of one sector
type Leaders struct {
	Sector  string    `json:"sector"`
	Members []*Member `json:"members"`
}

// SectorLeaders returns, for every sector in order of first appearance, the n members with the
// highest change. A query is only counted once per sector; its first occurrence wins.
func SectorLeaders(members []*Member, n int) []*Leaders {
	sectors := make([]string, 0)
	bySector := make(map[string][]*Member)
	seen := make(map[string]map[string]bool)
	for _, m := range members {
		if m.Sector == "" {
			continue
		}
		if _, ok := bySector[m.Sector]; !ok {
			sectors = append(sectors, m.Sector)
			bySector[m.Sector] = []*Member{}
			seen[m.Sector] = make(map[string]bool)
		}
		if seen[m.Sector][m.Query] {
			continue
		}
		seen[m.Sector][m.Query] = true
		bySector[m.Sector] = append(bySector[m.Sector], m)
	}

	res := make([]*Leaders, 0, len(sectors))
	for _, sector := range sectors {
		group := bySector[sector]
		sort.SliceStable(group, func(i, j int) bool {
			return descending(group[i].Change, group[j].Change)
		})
		if n >= 0 && len(group) > n {
			group = group[:n]
		}
		res = append(res, &Leaders{Sector: sector, Members: group})
	}
	return res
}

// descending orders a before b when a is larger; NaN sorts last
func descending(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b
}
