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
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pvrisk/dataframe"
	"github.com/penny-vault/pvrisk/position"
	"github.com/rs/zerolog/log"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Provenance identifies the run that produced a report and the workbook it was computed from
type Provenance struct {
	RunID  string    `json:"run_id"`
	Date   time.Time `json:"date"`
	Source string    `json:"source_digest,omitempty"`
}

// Stamp records the run, its date and the digest of the source workbook
func (p *Provenance) Stamp(runID string, date time.Time, source string) {
	p.RunID = runID
	p.Date = date
	p.Source = source
}

// Report is everything one run exposes: the sector benchmarks, the market comparisons, the outlier
// thresholds and one section of classified holdings per portfolio or market
type Report struct {
	Provenance
	Mode        string        `json:"mode"`
	Horizons    []string      `json:"horizons"`
	Benchmarks  dataframe.Map `json:"benchmarks"`
	Comparisons dataframe.Map `json:"comparisons"`
	Thresholds  dataframe.Map `json:"thresholds"`
	Sections    []*Section    `json:"sections"`
}

// Section is a group of holdings (one portfolio, one market universe or a set of funds) with the
// holdings flagged as positive and negative outliers. A holding may be in both collections.
type Section struct {
	Name     string
	Holdings []*position.Holding
	Frame    *dataframe.DataFrame
	Positive []*position.Holding
	Negative []*position.Holding
}

type jsonSection struct {
	Name     string               `json:"name"`
	Holdings []*position.Holding  `json:"holdings"`
	Frame    *dataframe.DataFrame `json:"frame"`
	Positive []string             `json:"positive"`
	Negative []string             `json:"negative"`
}

// MarshalJSON writes the outlier collections as lists of holding keys into the section's frame
func (s *Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSection{
		Name:     s.Name,
		Holdings: s.Holdings,
		Frame:    s.Frame,
		Positive: keys(s.Positive),
		Negative: keys(s.Negative),
	})
}

// Underperformed returns the negative outliers ordered by since-entry return, worst first
func (s *Section) Underperformed() []*position.Holding {
	res := make([]*position.Holding, len(s.Negative))
	copy(res, s.Negative)
	sort.SliceStable(res, func(i, j int) bool {
		a := res[i].SinceEntry()
		b := res[j].SinceEntry()
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a < b
	})
	return res
}

// Write renders the report to w in the requested format
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatTable:
		return r.WriteTable(w)
	case FormatJSON:
		return r.WriteJSON(w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Save writes the report into dir as <kind>-<date>.<ext> and returns the file name
func (r *Report) Save(dir, kind, format string) (string, error) {
	fn, err := save(dir, kind, format, r.Date, r.Write)
	if err != nil {
		return "", err
	}

	log.Info().Str("RunID", r.RunID).Str("FileName", fn).Msg("saved report")
	return fn, nil
}

// save creates <kind>-<date>.<ext> in dir and renders into it with write. A file that could not be
// completely written is removed.
func save(dir, kind, format string, date time.Time, write func(io.Writer, string) error) (string, error) {
	ext := "txt"
	if format == FormatJSON {
		ext = "json"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	fn := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", kind, date.Format("2006-01-02"), ext))
	fh, err := os.Create(fn)
	if err != nil {
		return "", err
	}

	err = write(fh, format)
	if closeErr := fh.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(fn); rmErr != nil {
			log.Warn().Err(rmErr).Str("FileName", fn).Msg("could not remove partially written report")
		}
		return "", err
	}

	return fn, nil
}

// WriteJSON writes the report as indented JSON; undefined values are written as null
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteTable writes every table of the report as ASCII
func (r *Report) WriteTable(w io.Writer) error {
	sb := &strings.Builder{}

	for _, region := range r.Benchmarks.Keys() {
		fmt.Fprintf(sb, "== Sector benchmark %s ==\n%s\n", region, r.Benchmarks[region].Table())
	}

	for _, label := range r.Comparisons.Keys() {
		fmt.Fprintf(sb, "== %s ==\n%s\n", label, r.Comparisons[label].Table())
	}

	for _, region := range r.Thresholds.Keys() {
		fmt.Fprintf(sb, "== Outlier thresholds %s ==\n%s\n", region, r.Thresholds[region].Table())
	}

	for _, s := range r.Sections {
		fmt.Fprintf(sb, "== %s ==\n%s\n", s.Name, HoldingTable(s.Holdings, r.Horizons))
		fmt.Fprintf(sb, "== %s positive outliers ==\n%s\n", s.Name, HoldingTable(s.Positive, r.Horizons))
		fmt.Fprintf(sb, "== %s underperformed ==\n%s\n", s.Name, HoldingTable(s.Underperformed(), r.Horizons))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// HoldingTable formats holdings with their entry price, quantity and last price followed by the
// horizon returns, relative returns and since-entry return
func HoldingTable(holdings []*position.Holding, horizons []string) string {
	if len(holdings) == 0 {
		return "<NO DATA>"
	}

	header := []string{"Name", "Sector", "Region", "Currency", "AEQ", "Volume", "Last Price"}
	header = append(header, horizons...)
	for _, horizon := range horizons {
		header = append(header, position.RelativeColumn(horizon))
	}
	header = append(header, position.SinceEntryColumn)

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)

	for _, h := range holdings {
		row := []string{h.Key(), h.Sector, h.Region, h.Currency, formatFloat(h.EntryPrice), formatFloat(h.Quantity), formatFloat(h.LastPrice)}
		for _, horizon := range horizons {
			row = append(row, formatFloat(h.Return(horizon)))
		}
		for _, horizon := range horizons {
			rel, ok := h.Relative[horizon]
			if !ok {
				rel = math.NaN()
			}
			row = append(row, formatFloat(rel))
		}
		row = append(row, formatFloat(h.SinceEntry()))
		table.Append(row)
	}

	table.Render()
	return s.String()
}

func formatFloat(val float64) string {
	if math.IsNaN(val) {
		return "-"
	}
	return fmt.Sprintf("%.2f", val)
}

func keys(holdings []*position.Holding) []string {
	res := make([]string, len(holdings))
	for idx, h := range holdings {
		res[idx] = h.Key()
	}
	return res
}
