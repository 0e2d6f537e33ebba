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

package outlier

import (
	"fmt"
	"strings"

	"github.com/penny-vault/pvrisk/dataframe"
	"github.com/penny-vault/pvrisk/position"
	"github.com/rs/zerolog/log"
)

// Mode selects the predicate set used to flag outliers
type Mode int

const (
	// SinglePortfolio flags holdings of one portfolio on relative returns alone and additionally
	// flags any holding in drawdown beyond the drawdown limit
	SinglePortfolio Mode = iota

	// UniverseScreen requires both a raw and a relative return beyond the cut-offs
	UniverseScreen
)

// DefaultDrawdownLimit is the since-entry return (in percent) below which a holding is always
// a negative outlier in SinglePortfolio mode
const DefaultDrawdownLimit = -10.0

func (m Mode) String() string {
	switch m {
	case SinglePortfolio:
		return "single-portfolio"
	case UniverseScreen:
		return "universe-screen"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts the textual name of a mode back into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "single-portfolio", "portfolio":
		return SinglePortfolio, nil
	case "universe-screen", "universe":
		return UniverseScreen, nil
	default:
		return SinglePortfolio, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Mask holds one flag per row of a dataframe
type Mask []bool

// And combines two masks element-wise with a logical and
func (m Mask) And(other Mask) Mask {
	res := make(Mask, len(m))
	for idx := range m {
		res[idx] = m[idx] && other[idx]
	}
	return res
}

// Or combines two masks element-wise with a logical or
func (m Mask) Or(other Mask) Mask {
	res := make(Mask, len(m))
	for idx := range m {
		res[idx] = m[idx] || other[idx]
	}
	return res
}

// Count returns the number of set flags
func (m Mask) Count() int {
	cnt := 0
	for _, flag := range m {
		if flag {
			cnt++
		}
	}
	return cnt
}

// Result holds the positive and negative outlier flags of a classification. A row may be flagged
// in both masks.
type Result struct {
	Positive Mask
	Negative Mask
}

// Classifier flags the rows of an entity frame (see position.Frame) against a threshold table
type Classifier struct {
	Thresholds    *Thresholds
	Mode          Mode
	Horizons      []string
	DrawdownLimit float64
}

// NewClassifier creates a classifier using the default drawdown limit
func NewClassifier(thresholds *Thresholds, mode Mode, horizons []string) *Classifier {
	return &Classifier{
		Thresholds:    thresholds,
		Mode:          mode,
		Horizons:      horizons,
		DrawdownLimit: DefaultDrawdownLimit,
	}
}

// Classify evaluates the outlier predicates column by column over the whole frame. Values that are
// NaN, or columns without a cut-off, never flag a row.
func (c *Classifier) Classify(df *dataframe.DataFrame) Result {
	relative := make([]string, len(c.Horizons))
	for idx, horizon := range c.Horizons {
		relative[idx] = position.RelativeColumn(horizon)
	}

	relAbove := c.anyAbove(df, relative)
	relBelow := c.anyBelow(df, relative)

	var res Result
	switch c.Mode {
	case UniverseScreen:
		res.Positive = c.anyAbove(df, c.Horizons).And(relAbove)
		res.Negative = c.anyBelow(df, c.Horizons).And(relBelow)
	default:
		res.Positive = relAbove
		res.Negative = relBelow.Or(Drawdown(df, c.DrawdownLimit))
	}

	log.Debug().Stringer("Mode", c.Mode).Int("NumRows", df.Len()).Int("NumPositive", res.Positive.Count()).Int("NumNegative", res.Negative.Count()).Msg("classified outliers")
	return res
}

func (c *Classifier) anyAbove(df *dataframe.DataFrame, cols []string) Mask {
	res := make(Mask, df.Len())
	for _, col := range cols {
		cutoff := c.Thresholds.High(col)
		res = res.Or(compare(df.Col(col), df.Len(), func(val float64) bool {
			return val > cutoff
		}))
	}
	return res
}

func (c *Classifier) anyBelow(df *dataframe.DataFrame, cols []string) Mask {
	res := make(Mask, df.Len())
	for _, col := range cols {
		cutoff := c.Thresholds.Low(col)
		res = res.Or(compare(df.Col(col), df.Len(), func(val float64) bool {
			return val < cutoff
		}))
	}
	return res
}

// Drawdown flags the rows whose since-entry return is below limit
func Drawdown(df *dataframe.DataFrame, limit float64) Mask {
	return compare(df.Col(position.SinceEntryColumn), df.Len(), func(val float64) bool {
		return val < limit
	})
}

// compare builds a mask from a column; a missing column flags nothing
func compare(vals []float64, n int, pred func(float64) bool) Mask {
	res := make(Mask, n)
	for idx, val := range vals {
		res[idx] = pred(val)
	}
	return res
}
