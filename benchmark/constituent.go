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

// Package benchmark builds market-cap weighted sector benchmarks from a universe of
// constituents and compares the benchmarks of two markets.
package benchmark

import (
	"regexp"
	"strings"
)

// Constituent is a single member of a market index
type Constituent struct {
	Ticker    string
	Name      string
	Sector    string
	MarketCap float64
	Returns   map[string]float64
}

var sectorCode = regexp.MustCompile(`^\s*\d+[\s.:\-]*`)

// NormalizeSector maps a free-text sector label such as "45 Information Technology" to the
// canonical sector key used by the benchmark tables ("Information Technology")
func NormalizeSector(label string) string {
	return strings.TrimSpace(sectorCode.ReplaceAllString(label, ""))
}
