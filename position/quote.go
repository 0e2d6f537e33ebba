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
	"math"

	"github.com/rs/zerolog/log"
)

// Quote is the reference market data for one instrument
type Quote struct {
	Query     string
	Name      string
	Sector    string
	Region    string
	Currency  string
	LastPrice float64
	Returns   map[string]float64
}

// Enrich joins holdings to their reference quote by query key and returns copies carrying the last
// price and horizon returns. Sector and region are taken from the quote when the holding has none.
// Holdings without a quote keep the last price they already carry, NaN if they have none.
func Enrich(holdings []*Holding, quotes map[string]*Quote) []*Holding {
	res := make([]*Holding, 0, len(holdings))
	for _, h := range holdings {
		enriched := h.clone()

		q, ok := quotes[h.Query]
		if !ok {
			log.Warn().Str("Holding", h.Key()).Str("Query", h.Query).Msg("no reference quote for holding")
			if enriched.LastPrice == 0 {
				enriched.LastPrice = math.NaN()
			}
			res = append(res, enriched)
			continue
		}

		enriched.LastPrice = q.LastPrice
		for horizon, val := range q.Returns {
			enriched.Returns[horizon] = val
		}
		if enriched.Sector == "" {
			enriched.Sector = q.Sector
		}
		if enriched.Region == "" {
			enriched.Region = q.Region
		}
		if enriched.Currency == "" {
			enriched.Currency = q.Currency
		}

		res = append(res, enriched)
	}

	return res
}
