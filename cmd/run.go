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

package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/penny-vault/pvrisk/common"
	"github.com/penny-vault/pvrisk/data"
	"github.com/penny-vault/pvrisk/data/database"
	"github.com/penny-vault/pvrisk/position"
	"github.com/penny-vault/pvrisk/report"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// run bundles what every report command needs: settings, the open workbook and the engine holding
// the run's benchmark and threshold tables
type run struct {
	id       string
	settings *common.Settings
	workbook *data.Workbook
	engine   *report.Engine
	log      zerolog.Logger
}

// document is a report that can be printed or saved
type document interface {
	Stamp(runID string, date time.Time, source string)
	Write(w io.Writer, format string) error
	Save(dir, kind, format string) (string, error)
}

var (
	_ document = (*report.Report)(nil)
	_ document = (*report.Trends)(nil)
)

// openRun loads the settings and opens the reference workbook
func openRun() (*run, error) {
	id := uuid.New().String()
	subLog := log.With().Str("RunID", id).Logger()

	settings, err := common.LoadSettings()
	if err != nil {
		subLog.Error().Err(err).Msg("invalid settings")
		return nil, err
	}

	wb, err := data.OpenWorkbook(settings.Workbook.Path)
	if err != nil {
		subLog.Error().Err(err).Str("Path", settings.Workbook.Path).Msg("could not open workbook")
		return nil, err
	}

	return &run{
		id:       id,
		settings: settings,
		workbook: wb,
		log:      subLog,
	}, nil
}

// newRun opens the run and builds the sector benchmarks and outlier thresholds of every market
func newRun() (*run, error) {
	r, err := openRun()
	if err != nil {
		return nil, err
	}

	markets := make([]*report.Market, 0, len(r.settings.Markets))
	for _, m := range r.settings.Markets {
		constituents, err := r.workbook.Constituents(m.Sheet, r.settings.Horizons)
		if err != nil {
			r.log.Error().Err(err).Str("Region", m.Region).Str("Sheet", m.Sheet).Msg("could not read index constituents")
			return nil, err
		}
		markets = append(markets, &report.Market{
			Region:       m.Region,
			Index:        m.Index,
			Constituents: constituents,
		})
	}

	r.engine, err = report.NewEngine(markets, r.settings.Horizons, r.settings.Outlier.Band, r.settings.Outlier.DrawdownLimit)
	if err != nil {
		r.log.Error().Err(err).Msg("could not build reference tables")
		return nil, err
	}

	r.log.Info().Strs("Regions", r.settings.Regions()).Strs("Horizons", r.settings.Horizons).Msg("run initialized")
	return r, nil
}

func (r *run) positions(ctx context.Context) ([]*position.Holding, error) {
	var holdings []*position.Holding
	var err error

	if r.settings.Database.URL != "" {
		if err = database.Connect(ctx, r.settings.Database.URL); err != nil {
			return nil, err
		}
		holdings, err = data.LoadPositions(ctx, r.settings.Segments())
		database.LogOpenTransactions()
	} else {
		holdings, err = r.workbook.Holdings(r.settings.Workbook.PositionsSheet, r.settings.Horizons)
	}
	if err != nil {
		r.log.Error().Err(err).Msg("could not load positions")
		return nil, err
	}

	quotes, err := r.workbook.Quotes(r.settings.Workbook.StocksSheet, r.settings.Horizons)
	if err != nil {
		r.log.Error().Err(err).Msg("could not load reference quotes")
		return nil, err
	}

	return position.Enrich(holdings, quotes), nil
}

// output prints the report or, when an output directory is configured, saves it there
func (r *run) output(doc document, kind string) error {
	doc.Stamp(r.id, time.Now(), r.workbook.Digest())

	format := r.settings.Output.Format
	if r.settings.Output.Dir == "" {
		return doc.Write(os.Stdout, format)
	}

	_, err := doc.Save(r.settings.Output.Dir, kind, format)
	return err
}
