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
	"errors"
)

// DataFrame stores a table of values organized by a string label index
// the vals array is column major - e.g.,
//
//	         1D    YTD
//	Energy   1     4
//	Tech     2     5
//	Health   3     6
//
// Vals[0][0] = 1
// Vals[0][1] = 2
type DataFrame struct {
	Index    []string
	ColNames []string
	Vals     [][]float64
}

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrRowNotFound    = errors.New("row not found")
)
