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

package benchmark

import (
	"github.com/penny-vault/pvrisk/dataframe"
)

// Diff computes b - a for every sector key and metric shared by both benchmark tables. The last row
// of each table is treated as the market total: it takes no part in the key intersection and is
// instead compared against the other table's last row, producing one trailing row labeled
// "<b total> vs. <a total>". Keys or columns found in only one table are dropped.
func Diff(a, b *dataframe.DataFrame) *dataframe.DataFrame {
	if a.Len() == 0 || b.Len() == 0 {
		return a.Sub(b).Select(nil)
	}

	res := sectors(b).Sub(sectors(a))

	aLast := a.Last()
	bLast := b.Last()
	total := bLast.Sub(renamed(aLast, bLast.Index[0]))

	vals := make([]float64, len(res.ColNames))
	for colIdx, colName := range res.ColNames {
		vals[colIdx] = total.Col(colName)[0]
	}
	res.InsertRow(bLast.Index[0]+" vs. "+aLast.Index[0], vals...)

	return res
}

// sectors returns the table without its trailing total row
func sectors(df *dataframe.DataFrame) *dataframe.DataFrame {
	keep := make([]bool, df.Len())
	for idx := range keep {
		keep[idx] = idx < df.Len()-1
	}
	return df.Select(keep)
}

func renamed(df *dataframe.DataFrame, label string) *dataframe.DataFrame {
	res := df.Copy()
	res.Index = []string{label}
	return res
}
