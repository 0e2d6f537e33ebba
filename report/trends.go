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
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pvrisk/dataframe"
	"github.com/penny-vault/pvrisk/trend"
	"github.com/rs/zerolog/log"
)

// Trends summarizes the thematic baskets: the mean change per theme and per sector and the best
// performers of every sector
type Trends struct {
	Provenance
	Themes  *dataframe.DataFrame `json:"themes"`
	Sectors *dataframe.DataFrame `json:"sectors"`
	Leaders []*trend.Leaders     `json:"leaders"`
}

// NewTrends summarizes members keeping the top members of every sector
func NewTrends(members []*trend.Member, top int) *Trends {
	t := &Trends{
		Themes:  trend.GroupMeans(members, trend.ByTheme),
		Sectors: trend.GroupMeans(members, trend.BySector),
		Leaders: trend.SectorLeaders(members, top),
	}

	log.Info().Int("NumMembers", len(members)).Int("NumThemes", t.Themes.Len()).Int("NumSectors", t.Sectors.Len()).Msg("summarized megatrends")
	return t
}

// Write renders the summary to w in the requested format
func (t *Trends) Write(w io.Writer, format string) error {
	switch format {
	case FormatTable:
		return t.WriteTable(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Save writes the summary into dir as <kind>-<date>.<ext> and returns the file name
func (t *Trends) Save(dir, kind, format string) (string, error) {
	fn, err := save(dir, kind, format, t.Date, t.Write)
	if err != nil {
		return "", err
	}

	log.Info().Str("RunID", t.RunID).Str("FileName", fn).Msg("saved megatrends")
	return fn, nil
}

// WriteTable writes the theme means, the sector means and one leader table per sector as ASCII
func (t *Trends) WriteTable(w io.Writer) error {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "== Mean change by theme ==\n%s\n", t.Themes.Table())
	fmt.Fprintf(sb, "== Mean change by sector ==\n%s\n", t.Sectors.Table())

	for _, leaders := range t.Leaders {
		fmt.Fprintf(sb, "== %s leaders ==\n%s\n", leaders.Sector, memberTable(leaders.Members))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func memberTable(members []*trend.Member) string {
	if len(members) == 0 {
		return "<NO DATA>"
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Name", "Query", trend.ChangeColumn})
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)

	for _, m := range members {
		table.Append([]string{m.Name, m.Query, formatFloat(m.Change)})
	}

	table.Render()
	return s.String()
}
