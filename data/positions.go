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

package data

import (
	"context"
	"math"
	"sort"

	"github.com/penny-vault/pvrisk/data/database"
	"github.com/penny-vault/pvrisk/position"
	"github.com/rs/zerolog/log"
)

const positionsSQL = `SELECT
	s.accountsegment_id::text,
	p.name,
	p.isin,
	p.bloomberg_query,
	COALESCE(p.average_entry_quote, 'NaN'::float8),
	COALESCE(p.entry_fx_rate, 0),
	p.currency,
	COALESCE(p.volume, 'NaN'::float8)
FROM reportings r
	JOIN accountsegments s ON s.reporting_uuid = r.uuid
	JOIN positions p ON p.reporting_uuid = r.uuid AND p.account_segment_id = s.accountsegment_id
WHERE r.newest
	AND r.report = 'positions'
	AND p.asset_class = 'STOCK'
	AND s.accountsegment_id = ANY($1)
	AND r.report_date = (SELECT MAX(report_date) FROM reportings)
ORDER BY s.accountsegment_id, p.name`

// LoadPositions reads the newest stock positions of the requested portfolios (display name ->
// account segment id) from the reporting store. Holdings carry the portfolio's display name.
func LoadPositions(ctx context.Context, portfolios map[string]string) ([]*position.Holding, error) {
	if len(portfolios) == 0 {
		return nil, ErrNoPortfolios
	}

	segments := make([]string, 0, len(portfolios))
	names := make(map[string]string, len(portfolios))
	for name, id := range portfolios {
		segments = append(segments, id)
		names[id] = name
	}
	sort.Strings(segments)

	subLog := log.With().Strs("Segments", segments).Logger()

	trx, err := database.Begin(ctx)
	if err != nil {
		subLog.Error().Err(err).Msg("could not begin transaction")
		return nil, err
	}

	rows, err := trx.Query(ctx, positionsSQL, segments)
	if err != nil {
		subLog.Error().Err(err).Msg("could not query positions from database")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	holdings := make([]*position.Holding, 0, 100)
	for rows.Next() {
		h := &position.Holding{
			LastPrice: math.NaN(),
			Returns:   make(map[string]float64),
		}
		err := rows.Scan(&h.Portfolio, &h.Name, &h.ISIN, &h.Query, &h.EntryPrice, &h.EntryFXRate, &h.Currency, &h.Quantity)
		if err != nil {
			subLog.Error().Err(err).Msg("could not scan database results")
			rows.Close()
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		if name, ok := names[h.Portfolio]; ok {
			h.Portfolio = name
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		subLog.Error().Err(err).Msg("position query read failed")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	subLog.Info().Int("NumPositions", len(holdings)).Msg("loaded positions")
	return holdings, nil
}
