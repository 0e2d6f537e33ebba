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

package report

import (
	"fmt"
	"strings"

	"github.com/penny-vault/pvrisk/benchmark"
	"github.com/penny-vault/pvrisk/dataframe"
	"github.com/penny-vault/pvrisk/outlier"
	"github.com/penny-vault/pvrisk/position"
	"github.com/rs/zerolog/log"
)

// Market is one index whose constituents form both a sector benchmark and a screening universe
type Market struct {
	Region       string
	Index        string
	Constituents []*benchmark.Constituent
}

// Engine holds the reference tables of one run. They are built once by NewEngine and only read
// afterwards, so several reports may be produced from the same engine concurrently.
type Engine struct {
	Horizons      []string
	DrawdownLimit float64

	markets     []*Market
	benchmarks  dataframe.Map
	comparisons dataframe.Map
	thresholds  map[string]*outlier.Thresholds
	universe    map[string][]*position.Holding
}

// NewEngine builds the sector benchmark of every market, the comparison of every further market
// against the first, and the outlier thresholds derived from each market's constituents
func NewEngine(markets []*Market, horizons []string, band outlier.Band, drawdownLimit float64) (*Engine, error) {
	if len(markets) == 0 {
		return nil, ErrNoMarkets
	}

	engine := &Engine{
		Horizons:      horizons,
		DrawdownLimit: drawdownLimit,
		markets:       markets,
		benchmarks:    make(dataframe.Map, len(markets)),
		comparisons:   make(dataframe.Map),
		thresholds:    make(map[string]*outlier.Thresholds, len(markets)),
		universe:      make(map[string][]*position.Holding, len(markets)),
	}

	for _, m := range markets {
		engine.benchmarks[m.Region] = benchmark.Build(m.Index, m.Constituents, horizons)
	}

	base := engine.benchmarks[markets[0].Region]
	for _, m := range markets[1:] {
		cmp := benchmark.Diff(base, engine.benchmarks[m.Region])
		engine.comparisons[fmt.Sprintf("%s vs. %s", m.Index, markets[0].Index)] = cmp
	}

	cols := outlier.MonitoredColumns(horizons)
	for _, m := range markets {
		subLog := log.With().Str("Region", m.Region).Logger()

		universe, err := position.RelativePerformance(position.FromConstituents(m.Region, m.Constituents), engine.benchmarks, horizons)
		if err != nil {
			subLog.Warn().Err(err).Msg("some constituents have no sector benchmark")
		}
		engine.universe[m.Region] = universe
		engine.thresholds[m.Region] = outlier.ComputeThresholds(position.Frame(universe, horizons), cols, band)

		subLog.Info().Int("NumConstituents", len(universe)).Msg("computed outlier thresholds")
	}

	return engine, nil
}

// Benchmarks returns the sector benchmark table of every market keyed by region
func (e *Engine) Benchmarks() dataframe.Map {
	return e.benchmarks
}

// Thresholds returns the outlier thresholds of a region; nil if the region is unknown
func (e *Engine) Thresholds(region string) *outlier.Thresholds {
	return e.thresholds[region]
}

// Portfolios attaches relative performance to every position and reports, per portfolio, the
// positions sorted by since-entry return together with the single-portfolio outliers. Positions
// without a sector benchmark are logged and left out.
func (e *Engine) Portfolios(holdings []*position.Holding, mode outlier.Mode) *Report {
	rep := e.newReport(mode)

	relative, err := position.RelativePerformance(holdings, e.benchmarks, e.Horizons)
	if err != nil {
		log.Error().Err(err).Int("NumFailed", len(holdings)-len(relative)).Msg("positions dropped from the report")
	}

	names, groups := position.ByPortfolio(relative)
	for _, name := range names {
		group := groups[name]
		position.SortBySinceEntry(group)
		rep.Sections = append(rep.Sections, e.section(name, group, mode))
	}

	return rep
}

// Universe screens the constituents of every market; in UniverseScreen mode a constituent needs
// both a raw and a relative extreme to be flagged
func (e *Engine) Universe(mode outlier.Mode) *Report {
	rep := e.newReport(mode)
	for _, m := range e.markets {
		rep.Sections = append(rep.Sections, e.section(m.Index, e.universe[m.Region], mode))
	}
	return rep
}

// Funds consolidates the share classes of every fund whose portfolio name contains filter (all funds
// when filter is empty) into one row per fund name. Funds have no sector benchmark, so only the
// drawdown rule applies: a fund below the drawdown limit since entry is a negative outlier.
func (e *Engine) Funds(holdings []*position.Holding, filter string) *Report {
	rep := e.newReport(outlier.SinglePortfolio)

	selected := make([]*position.Holding, 0, len(holdings))
	for _, h := range holdings {
		if strings.Contains(h.Portfolio, filter) {
			selected = append(selected, h)
		}
	}

	funds := position.Consolidate(selected)
	position.SortBySinceEntry(funds)

	name := "Funds"
	if filter != "" {
		name = filter + " Funds"
	}

	log.Info().Str("Filter", filter).Int("NumShareClasses", len(selected)).Int("NumFunds", len(funds)).Msg("consolidated funds")
	frame := position.Frame(funds, e.Horizons)
	rep.Sections = append(rep.Sections, &Section{
		Name:     name,
		Holdings: funds,
		Frame:    frame,
		Positive: []*position.Holding{},
		Negative: position.Filter(funds, outlier.Drawdown(frame, e.DrawdownLimit)),
	})
	return rep
}

func (e *Engine) newReport(mode outlier.Mode) *Report {
	thresholds := make(dataframe.Map, len(e.thresholds))
	for region, t := range e.thresholds {
		thresholds[region] = t.Frame
	}

	return &Report{
		Mode:        mode.String(),
		Horizons:    e.Horizons,
		Benchmarks:  e.benchmarks,
		Comparisons: e.comparisons,
		Thresholds:  thresholds,
	}
}

// section classifies holdings against the thresholds of their own region. Holdings of a region
// without thresholds are never flagged.
func (e *Engine) section(name string, holdings []*position.Holding, mode outlier.Mode) *Section {
	positive := make(outlier.Mask, len(holdings))
	negative := make(outlier.Mask, len(holdings))

	byRegion := make(map[string][]int)
	for idx, h := range holdings {
		byRegion[h.Region] = append(byRegion[h.Region], idx)
	}

	for region, indices := range byRegion {
		thresholds, ok := e.thresholds[region]
		if !ok {
			log.Warn().Str("Section", name).Str("Region", region).Int("NumHoldings", len(indices)).Msg("no outlier thresholds for region")
			continue
		}

		subset := make([]*position.Holding, len(indices))
		for idx, holdingIdx := range indices {
			subset[idx] = holdings[holdingIdx]
		}

		classifier := outlier.NewClassifier(thresholds, mode, e.Horizons)
		classifier.DrawdownLimit = e.DrawdownLimit
		res := classifier.Classify(position.Frame(subset, e.Horizons))

		for idx, holdingIdx := range indices {
			positive[holdingIdx] = res.Positive[idx]
			negative[holdingIdx] = res.Negative[idx]
		}
	}

	return &Section{
		Name:     name,
		Holdings: holdings,
		Frame:    position.Frame(holdings, e.Horizons),
		Positive: position.Filter(holdings, positive),
		Negative: position.Filter(holdings, negative),
	}
}
