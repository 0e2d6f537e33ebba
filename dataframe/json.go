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
	"math"

	"github.com/goccy/go-json"
)

type jsonFrame struct {
	Index   []string     `json:"index"`
	Columns []string     `json:"columns"`
	Data    [][]*float64 `json:"data"`
}

// MarshalJSON encodes the dataframe in row-major "split" orientation. NaN values are not
// representable in JSON and are encoded as null.
func (df *DataFrame) MarshalJSON() ([]byte, error) {
	out := jsonFrame{
		Index:   df.Index,
		Columns: df.ColNames,
		Data:    make([][]*float64, len(df.Index)),
	}

	if out.Index == nil {
		out.Index = []string{}
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}

	for rowIdx := range df.Index {
		row := make([]*float64, len(df.ColNames))
		for colIdx := range df.ColNames {
			val := df.Vals[colIdx][rowIdx]
			if math.IsNaN(val) || math.IsInf(val, 0) {
				continue
			}
			row[colIdx] = &val
		}
		out.Data[rowIdx] = row
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a dataframe written by MarshalJSON; nulls become NaN
func (df *DataFrame) UnmarshalJSON(data []byte) error {
	var in jsonFrame
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*df = *New(in.Index, in.Columns)
	for rowIdx, row := range in.Data {
		for colIdx, val := range row {
			if val != nil && colIdx < len(df.Vals) && rowIdx < df.Len() {
				df.Vals[colIdx][rowIdx] = *val
			}
		}
	}

	return nil
}
