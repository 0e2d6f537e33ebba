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

package position

import (
	"gonum.org/v1/gonum/stat"
)

// Consolidate merges share classes that represent the same holding into one row per name. Market
// fields (price, returns, classification) come from the first share class seen; cost-basis fields are
// averaged across the group and quantities are summed. Names keep their order of first appearance.
func Consolidate(holdings []*Holding) []*Holding {
	names := make([]string, 0, len(holdings))
	groups := make(map[string][]*Holding, len(holdings))
	for _, h := range holdings {
		if _, ok := groups[h.Name]; !ok {
			names = append(names, h.Name)
		}
		groups[h.Name] = append(groups[h.Name], h)
	}

	res := make([]*Holding, 0, len(names))
	for _, name := range names {
		group := groups[name]
		merged := group[0].clone()
		if len(group) == 1 {
			res = append(res, merged)
			continue
		}

		entry := make([]float64, len(group))
		quantity := 0.0
		for idx, h := range group {
			entry[idx] = h.CostBasis()
			quantity += h.Quantity
		}

		// entry prices are averaged in the quote currency
		merged.EntryPrice = stat.Mean(entry, nil)
		merged.EntryFXRate = 0
		merged.Quantity = quantity

		res = append(res, merged)
	}

	return res
}
