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

package dataframe

import (
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

// New creates a dataframe with the given row labels and columns; every value is initialized to NaN
func New(index []string, colNames []string) *DataFrame {
	df := &DataFrame{
		Index:    make([]string, len(index)),
		ColNames: make([]string, len(colNames)),
		Vals:     make([][]float64, len(colNames)),
	}

	copy(df.Index, index)
	copy(df.ColNames, colNames)

	for colIdx := range df.Vals {
		df.Vals[colIdx] = make([]float64, len(index))
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] = math.NaN()
		}
	}

	return df
}

// Col returns the values of the named column or nil if the column does not exist.
// The returned slice is shared with the dataframe.
func (df *DataFrame) Col(colName string) []float64 {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return nil
	}
	return df.Vals[colIdx]
}

// Get index of specified column; returns -1 if column doesn't exist. Matching is exact and case-sensitive.
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// Copy creates a copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Index:    make([]string, len(df.Index)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Index, df.Index)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// InsertRow adds a new row to the dataframe. The number of vals must equal the number of columns otherwise panic
func (df *DataFrame) InsertRow(label string, vals ...float64) *DataFrame {
	// Check that the number of columns equals the number of vals passed
	if len(vals) != len(df.ColNames) {
		log.Panic().Int("NumValsPassed", len(vals)).Int("NumColumns", len(df.ColNames)).Msg("number of vals passed must equal number of columns")
	}

	df.Index = append(df.Index, label)
	for colIdx := range df.ColNames {
		df.Vals[colIdx] = append(df.Vals[colIdx], vals[colIdx])
	}

	return df
}

// InsertMap adds a new row to the dataframe. All columns must already exist in the dataframe,
// any additional columns in vals are ignored and missing columns are filled with NaN
func (df *DataFrame) InsertMap(label string, vals map[string]float64) *DataFrame {
	df.Index = append(df.Index, label)
	for colIdx, colName := range df.ColNames {
		if val, ok := vals[colName]; ok {
			df.Vals[colIdx] = append(df.Vals[colIdx], val)
		} else {
			df.Vals[colIdx] = append(df.Vals[colIdx], math.NaN())
		}
	}

	return df
}

// Last returns a new dataframe with only the last row of the current dataframe
func (df *DataFrame) Last() *DataFrame {
	if df.Len() == 0 {
		return df
	}

	lastVals := make([][]float64, len(df.ColNames))
	lastRow := len(df.Index) - 1
	for idx, col := range df.Vals {
		lastVals[idx] = []float64{col[lastRow]}
	}

	newDf := &DataFrame{
		ColNames: df.ColNames,
		Index:    []string{df.Index[lastRow]},
		Vals:     lastVals,
	}

	return newDf
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Index)
}

// RowIndex returns the position of the row with the given label; returns -1 if the label doesn't exist
func (df *DataFrame) RowIndex(label string) int {
	for idx, val := range df.Index {
		if label == val {
			return idx
		}
	}

	return -1
}

// Select returns a new dataframe containing only the rows for which keep is true
func (df *DataFrame) Select(keep []bool) *DataFrame {
	newDf := &DataFrame{
		ColNames: df.ColNames,
		Index:    make([]string, 0, len(df.Index)),
		Vals:     make([][]float64, len(df.ColNames)),
	}

	for rowIdx, label := range df.Index {
		if rowIdx >= len(keep) || !keep[rowIdx] {
			continue
		}
		newDf.Index = append(newDf.Index, label)
		for colIdx, col := range df.Vals {
			newDf.Vals[colIdx] = append(newDf.Vals[colIdx], col[rowIdx])
		}
	}

	return newDf
}

// Value returns the value stored at the named row and column
func (df *DataFrame) Value(label, colName string) (float64, error) {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return math.NaN(), ErrColumnNotFound
	}

	rowIdx := df.RowIndex(label)
	if rowIdx == -1 {
		return math.NaN(), ErrRowNotFound
	}

	return df.Vals[colIdx][rowIdx], nil
}

// Table prints an ASCII formatted table
func (df *DataFrame) Table() string {
	if len(df.Index) == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the dataframe
	}

	// construct table header
	tableCols := append([]string{"Index"}, df.ColNames...)

	// initialize table
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	if len(footer) > 1 {
		footer[1] = fmt.Sprintf("%d", df.Len())
	}
	table.SetFooter(footer)
	table.SetBorder(false) // Set Border to false

	for idx, rowIdx := range df.Index {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, rowIdx)

		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.2f", col[idx]))
		}

		table.Append(row)
	}

	table.Render()
	return s.String()
}
