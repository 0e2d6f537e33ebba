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
	"gonum.org/v1/gonum/floats"
)

// Sub subtracts `other` from `df` for every row label and column name present in both dataframes and
// returns a new dataframe. Rows and columns that are only in one of the inputs are dropped; the order
// of rows and columns follows `df`.
func (df *DataFrame) Sub(other *DataFrame) *DataFrame {
	otherCols := make(map[string]int, len(other.ColNames))
	for idx, val := range other.ColNames {
		otherCols[val] = idx
	}

	otherRows := make(map[string]int, len(other.Index))
	for idx, val := range other.Index {
		otherRows[val] = idx
	}

	rows := make([]int, 0, len(df.Index))
	res := &DataFrame{
		Index:    make([]string, 0, len(df.Index)),
		ColNames: make([]string, 0, len(df.ColNames)),
	}

	for rowIdx, label := range df.Index {
		if _, ok := otherRows[label]; ok {
			rows = append(rows, rowIdx)
			res.Index = append(res.Index, label)
		}
	}

	for colIdx, colName := range df.ColNames {
		otherColIdx, ok := otherCols[colName]
		if !ok {
			continue
		}

		mine := make([]float64, len(rows))
		theirs := make([]float64, len(rows))
		for ii, rowIdx := range rows {
			mine[ii] = df.Vals[colIdx][rowIdx]
			theirs[ii] = other.Vals[otherColIdx][otherRows[df.Index[rowIdx]]]
		}

		diff := make([]float64, len(rows))
		floats.SubTo(diff, mine, theirs)

		res.ColNames = append(res.ColNames, colName)
		res.Vals = append(res.Vals, diff)
	}

	return res
}
