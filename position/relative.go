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
	"errors"
	"math"

	"github.com/penny-vault/pvrisk/dataframe"
	"github.com/rs/zerolog/log"
)

// RelativePerformance attaches, for every horizon, the holding's return minus the return of its
// sector benchmark. The benchmark table is chosen by the holding's region and the row by its sector.
//
// Holdings are never modified; the result contains copies in input order. A holding whose region or
// sector has no benchmark is left out of the result and reported as a *LookupError; all lookup
// failures are joined into the returned error.
func RelativePerformance(holdings []*Holding, benchmarks dataframe.Map, horizons []string) ([]*Holding, error) {
	res := make([]*Holding, 0, len(holdings))
	var errs []error

	for _, h := range holdings {
		enriched, err := relativeToSector(h, benchmarks, horizons)
		if err != nil {
			log.Warn().Err(err).Str("Holding", h.Key()).Msg("could not compute performance relative to sector")
			errs = append(errs, err)
			continue
		}
		res = append(res, enriched)
	}

	return res, errors.Join(errs...)
}

func relativeToSector(h *Holding, benchmarks dataframe.Map, horizons []string) (*Holding, error) {
	table, ok := benchmarks[h.Region]
	if !ok {
		return nil, &LookupError{Holding: h.Key(), Region: h.Region, Sector: h.Sector, Err: ErrRegionNotFound}
	}

	rowIdx := table.RowIndex(h.Sector)
	if rowIdx == -1 {
		return nil, &LookupError{Holding: h.Key(), Region: h.Region, Sector: h.Sector, Err: ErrBenchmarkNotFound}
	}

	res := h.clone()
	res.Relative = make(map[string]float64, len(horizons))
	for _, horizon := range horizons {
		bench := math.NaN()
		if colIdx := table.ColIndex(horizon); colIdx != -1 {
			bench = table.Vals[colIdx][rowIdx]
		}
		res.Relative[horizon] = h.Return(horizon) - bench
	}

	return res, nil
}
