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
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/penny-vault/pvrisk/benchmark"
	"github.com/penny-vault/pvrisk/position"
	"github.com/penny-vault/pvrisk/trend"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/tealeg/xlsx/v3"
	"github.com/zeebo/blake3"
)

// column names used in the reference workbook
const (
	ColQuery        = "bloomberg_query"
	ColTicker       = "Ticker"
	ColName         = "Name"
	ColPortfolio    = "Portfolio"
	ColPositionName = "Position Name"
	ColISIN         = "ISIN"
	ColSector       = "Sector"
	ColRegion       = "Region"
	ColCurrency     = "Currency"
	ColLastPrice    = "Last Price"
	ColMarketCap    = "Market Cap"
	ColEntryPrice   = "AEQ"
	ColEntryFXRate  = "Entry FX Rate"
	ColVolume       = "Volume"
	ColTheme        = "Theme"
	ColThemeQuery   = "Query"
	ColChange       = "% Change"
)

// minor currency units quoted by the pricing source and the major currency they belong to
var minorUnits = map[string]string{
	"GBp": "GBP",
	"GBX": "GBP",
	"ZAc": "ZAR",
	"ILa": "ILS",
}

// Workbook reads the tables of an xlsx reference workbook
type Workbook struct {
	path   string
	digest string
	file   *xlsx.File
}

// record is one sheet row keyed by header name
type record map[string]*xlsx.Cell

// OpenWorkbook loads the workbook at path
func OpenWorkbook(path string) (*Workbook, error) {
	if path == "" {
		return nil, ErrWorkbookMissing
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("Path", path).Msg("could not read workbook")
		return nil, err
	}

	digest, err := computeDigest(contents)
	if err != nil {
		log.Error().Err(err).Str("Path", path).Msg("could not compute workbook digest")
		return nil, err
	}

	file, err := xlsx.OpenBinary(contents)
	if err != nil {
		log.Error().Err(err).Str("Path", path).Msg("could not open workbook")
		return nil, err
	}

	log.Debug().Str("Path", path).Str("Digest", digest).Msg("opened workbook")
	return &Workbook{
		path:   path,
		digest: digest,
		file:   file,
	}, nil
}

// Digest identifies the contents of the workbook a report was built from
func (wb *Workbook) Digest() string {
	return wb.digest
}

// computeDigest calculates a 16-byte blake3 hash of the workbook contents
func computeDigest(contents []byte) (string, error) {
	h := blake3.New()
	if _, err := h.Write(contents); err != nil {
		return "", err
	}

	buf := make([]byte, 16)
	n, err := h.Digest().Read(buf)
	if err != nil {
		return "", err
	}
	if n != len(buf) {
		return "", ErrDigest
	}

	return hex.EncodeToString(buf), nil
}

// Quotes reads the reference prices and horizon returns keyed by query; minor currency units are
// normalized to their major unit
func (wb *Workbook) Quotes(sheet string, horizons []string) (map[string]*position.Quote, error) {
	records, err := wb.records(sheet, ColQuery, ColLastPrice)
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]*position.Quote, len(records))
	for _, rec := range records {
		q := &position.Quote{
			Query:     rec.str(ColQuery),
			Name:      rec.str(ColName),
			Sector:    benchmark.NormalizeSector(rec.str(ColSector)),
			Region:    rec.str(ColRegion),
			Currency:  rec.str(ColCurrency),
			LastPrice: rec.float(ColLastPrice),
			Returns:   rec.returns(horizons),
		}
		if q.Query == "" {
			continue
		}
		quotes[q.Query] = q
	}

	NormalizeMinorUnits(quotes)
	log.Debug().Str("Sheet", sheet).Int("NumQuotes", len(quotes)).Msg("loaded reference quotes")
	return quotes, nil
}

// Constituents reads the members of a market index with their market capitalization and returns
func (wb *Workbook) Constituents(sheet string, horizons []string) ([]*benchmark.Constituent, error) {
	records, err := wb.records(sheet, ColTicker, ColSector, ColMarketCap)
	if err != nil {
		return nil, err
	}

	constituents := make([]*benchmark.Constituent, 0, len(records))
	for _, rec := range records {
		c := &benchmark.Constituent{
			Ticker:    rec.str(ColTicker),
			Name:      rec.str(ColName),
			Sector:    benchmark.NormalizeSector(rec.str(ColSector)),
			MarketCap: rec.float(ColMarketCap),
			Returns:   rec.returns(horizons),
		}
		if c.Ticker == "" {
			continue
		}
		constituents = append(constituents, c)
	}

	log.Debug().Str("Sheet", sheet).Int("NumConstituents", len(constituents)).Msg("loaded index constituents")
	return constituents, nil
}

// Holdings reads portfolio positions or fund share classes. Last price and horizon returns are
// read when the sheet has them and are otherwise left for enrichment. A last price in a minor
// currency unit is converted like a quote; the entry price is kept as recorded.
func (wb *Workbook) Holdings(sheet string, horizons []string) ([]*position.Holding, error) {
	records, err := wb.records(sheet, ColPortfolio, ColPositionName)
	if err != nil {
		return nil, err
	}

	holdings := make([]*position.Holding, 0, len(records))
	for _, rec := range records {
		fx := rec.float(ColEntryFXRate)
		if math.IsNaN(fx) {
			fx = 0
		}

		h := &position.Holding{
			Portfolio:   rec.str(ColPortfolio),
			Name:        rec.str(ColPositionName),
			ISIN:        rec.str(ColISIN),
			Query:       rec.str(ColQuery),
			Sector:      benchmark.NormalizeSector(rec.str(ColSector)),
			Region:      rec.str(ColRegion),
			Currency:    rec.str(ColCurrency),
			EntryPrice:  rec.float(ColEntryPrice),
			EntryFXRate: fx,
			Quantity:    rec.float(ColVolume),
			LastPrice:   rec.float(ColLastPrice),
			Returns:     rec.returns(horizons),
		}
		if h.Name == "" {
			continue
		}
		h.Currency, h.LastPrice = majorUnit(h.Currency, h.LastPrice)
		holdings = append(holdings, h)
	}

	log.Debug().Str("Sheet", sheet).Int("NumHoldings", len(holdings)).Msg("loaded holdings")
	return holdings, nil
}

// Members reads the instruments of the thematic baskets
func (wb *Workbook) Members(sheet string) ([]*trend.Member, error) {
	records, err := wb.records(sheet, ColTheme, ColName, ColChange)
	if err != nil {
		return nil, err
	}

	members := make([]*trend.Member, 0, len(records))
	for _, rec := range records {
		m := &trend.Member{
			Theme:  rec.str(ColTheme),
			Sector: rec.str(ColSector),
			Name:   rec.str(ColName),
			Query:  rec.str(ColThemeQuery),
			Change: rec.float(ColChange),
		}
		if m.Name == "" {
			continue
		}
		members = append(members, m)
	}

	log.Debug().Str("Sheet", sheet).Int("NumMembers", len(members)).Msg("loaded theme members")
	return members, nil
}

// NormalizeMinorUnits converts quotes in minor currency units (e.g. GBp) into the major unit
func NormalizeMinorUnits(quotes map[string]*position.Quote) {
	for _, q := range quotes {
		q.Currency, q.LastPrice = majorUnit(q.Currency, q.LastPrice)
	}
}

// majorUnit converts a price quoted in a minor currency unit into the major unit
func majorUnit(currency string, price float64) (string, float64) {
	if major, ok := minorUnits[currency]; ok {
		return major, price / 100
	}
	return currency, price
}

// records reads every row below the header of sheet; required lists columns that must be present
func (wb *Workbook) records(sheetName string, required ...string) ([]record, error) {
	sheet, ok := wb.file.Sheet[sheetName]
	if !ok {
		log.Error().Str("Path", wb.path).Str("Sheet", sheetName).Msg("sheet not found")
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}

	if sheet.MaxRow == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, sheetName)
	}

	header := make(map[string]int, sheet.MaxCol)
	for colIdx := 0; colIdx < sheet.MaxCol; colIdx++ {
		cell, err := sheet.Cell(0, colIdx)
		if err != nil {
			return nil, err
		}
		if name := strings.TrimSpace(cell.String()); name != "" {
			header[name] = colIdx
		}
	}

	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("%w: %s in sheet %s", ErrColumnNotFound, col, sheetName)
		}
	}

	records := make([]record, 0, sheet.MaxRow-1)
	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		rec := make(record, len(header))
		for name, colIdx := range header {
			cell, err := sheet.Cell(rowIdx, colIdx)
			if err != nil {
				return nil, err
			}
			rec[name] = cell
		}
		records = append(records, rec)
	}

	return records, nil
}

func (rec record) str(col string) string {
	cell, ok := rec[col]
	if !ok {
		return ""
	}
	return strings.TrimSpace(cell.String())
}

// float coerces the cell to a number; anything that is not numeric becomes NaN
func (rec record) float(col string) float64 {
	cell, ok := rec[col]
	if !ok {
		return math.NaN()
	}

	if val, err := cell.Float(); err == nil {
		return val
	}

	s := strings.TrimSpace(cell.String())
	if s == "" {
		return math.NaN()
	}

	val, err := cast.ToFloat64E(s)
	if err != nil {
		return math.NaN()
	}
	return val
}

func (rec record) returns(horizons []string) map[string]float64 {
	res := make(map[string]float64, len(horizons))
	for _, horizon := range horizons {
		if _, ok := rec[horizon]; ok {
			res[horizon] = rec.float(horizon)
		}
	}
	return res
}
