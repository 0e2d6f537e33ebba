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

package position

import (
	"errors"
	"fmt"
)

var (
	ErrBenchmarkNotFound = errors.New("sector has no benchmark")
	ErrRegionNotFound    = errors.New("region has no benchmark table")
)

// LookupError identifies the holding whose sector or region could not be matched to a benchmark
type LookupError struct {
	Holding string
	Region  string
	Sector  string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s (region=%q sector=%q): %s", e.Holding, e.Region, e.Sector, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
