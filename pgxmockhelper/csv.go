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

package pgxmockhelper

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pashagolub/pgxmock"
	"github.com/rs/zerolog/log"
)

// CSVRows are mocked query results read from a CSV fixture whose first line is the header
type CSVRows struct {
	rows   [][]any
	header []string
}

// NewCSVRows reads a CSV fixture. Columns listed in typeMap as "float64" are parsed as numbers
// ("NaN" is allowed); every other column is passed through as a string.
func NewCSVRows(csvFn string, typeMap map[string]string) *CSVRows {
	subLog := log.With().Str("CsvFn", csvFn).Logger()

	fh, err := os.Open(csvFn)
	if err != nil {
		subLog.Panic().Err(err).Msg("could not read file")
	}
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		subLog.Panic().Err(err).Msg("could not parse csv")
	}

	if len(records) < 1 {
		subLog.Panic().Msg("input file does not have a header")
	}

	rows := &CSVRows{
		header: records[0],
		rows:   make([][]any, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		cols := make([]any, len(rows.header))
		for idx, val := range record {
			colName := rows.header[idx]
			switch typeMap[colName] {
			case "float64":
				parsed, err := strconv.ParseFloat(val, 64)
				if err != nil {
					subLog.Panic().Err(err).Str("Val", val).Msg("could not convert val to float64")
				}
				cols[idx] = parsed
			default:
				cols[idx] = val
			}
		}
		rows.rows = append(rows.rows, cols)
	}

	return rows
}

// Len is the number of data rows in the fixture
func (csvRows *CSVRows) Len() int {
	return len(csvRows.rows)
}

func (csvRows *CSVRows) Rows() *pgxmock.Rows {
	r := pgxmock.NewRows(csvRows.header)
	for _, row := range csvRows.rows {
		r.AddRow(row...)
	}
	return r
}

// MockPositionsQuery expects one read-only transaction returning the position rows stored in fn
func MockPositionsQuery(db pgxmock.PgxConnIface, fn string) {
	db.ExpectBegin()
	db.ExpectQuery("SELECT").WithArgs(pgxmock.AnyArg()).WillReturnRows(
		NewCSVRows(fn, map[string]string{
			"average_entry_quote": "float64",
			"entry_fx_rate":       "float64",
			"volume":              "float64",
		}).Rows())
	db.ExpectCommit()
}
