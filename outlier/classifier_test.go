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

package outlier_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvrisk/dataframe"
	"github.com/penny-vault/pvrisk/outlier"
	"github.com/penny-vault/pvrisk/position"
)

var _ = Describe("Classifier", func() {
	var (
		horizons   []string
		thresholds *outlier.Thresholds
		frame      *dataframe.DataFrame
	)

	// row helper: 1D, 5D, 1D vs. Sector, 5D vs. Sector, % since AEQ
	addRow := func(label string, vals ...float64) {
		frame.InsertRow(label, vals...)
	}

	BeforeEach(func() {
		horizons = []string{"1D", "5D"}
		thresholds = &outlier.Thresholds{
			Frame: &dataframe.DataFrame{
				Index:    []string{"1D", "5D", "1D vs. Sector", "5D vs. Sector"},
				ColNames: []string{outlier.LowCutoff, outlier.HighCutoff},
				Vals:     [][]float64{{-5, -8, -4, -6}, {5, 8, 4, 6}},
			},
		}
		frame = dataframe.New([]string{}, []string{"1D", "5D", "1D vs. Sector", "5D vs. Sector", position.SinceEntryColumn})
	})

	Context("in universe-screen mode", func() {
		var classifier *outlier.Classifier

		BeforeEach(func() {
			classifier = outlier.NewClassifier(thresholds, outlier.UniverseScreen, horizons)
		})

		It("requires both a raw and a relative breach", func() {
			addRow("both", 6, 0, 0, 7, 0)
			addRow("raw only", 6, 0, 0, 0, 0)
			addRow("relative only", 0, 0, 5, 0, 0)
			addRow("neither", 1, 1, 1, 1, 0)

			res := classifier.Classify(frame)
			Expect(res.Positive).To(Equal(outlier.Mask{true, false, false, false}))
			Expect(res.Negative).To(Equal(outlier.Mask{false, false, false, false}))
		})

		It("mirrors the rule for negative outliers", func() {
			addRow("both", 0, -9, -4.5, 0, 0)
			addRow("raw only", -6, 0, 0, 0, 0)
			addRow("on the cut-off", -5, 0, -4, 0, 0)

			res := classifier.Classify(frame)
			Expect(res.Negative).To(Equal(outlier.Mask{true, false, false}))
		})

		It("ignores the drawdown escape hatch", func() {
			addRow("deep loss", 0, 0, 0, 0, -50)
			res := classifier.Classify(frame)
			Expect(res.Negative).To(Equal(outlier.Mask{false}))
		})
	})

	Context("in single-portfolio mode", func() {
		var classifier *outlier.Classifier

		BeforeEach(func() {
			classifier = outlier.NewClassifier(thresholds, outlier.SinglePortfolio, horizons)
		})

		It("flags relative breaches alone", func() {
			addRow("relative", 0, 0, 4.5, 0, 0)
			addRow("raw", 6, 9, 0, 0, 0)
			res := classifier.Classify(frame)
			Expect(res.Positive).To(Equal(outlier.Mask{true, false}))
		})

		It("flags holdings in drawdown beyond the limit", func() {
			addRow("drawdown", 0, 0, 0, 0, -10.5)
			addRow("at the limit", 0, 0, 0, 0, -10)
			addRow("relative", 0, 0, 0, -7, 5)
			res := classifier.Classify(frame)
			Expect(res.Negative).To(Equal(outlier.Mask{true, false, true}))
		})

		It("uses a configured drawdown limit", func() {
			classifier.DrawdownLimit = -20
			addRow("drawdown", 0, 0, 0, 0, -10.5)
			res := classifier.Classify(frame)
			Expect(res.Negative).To(Equal(outlier.Mask{false}))
		})
	})

	It("flags drawdowns independently of the thresholds", func() {
		addRow("deep", 0, 0, 0, 0, -25)
		addRow("shallow", 0, 0, 0, 0, -5)
		addRow("unknown", 0, 0, 0, 0, math.NaN())
		Expect(outlier.Drawdown(frame, -20)).To(Equal(outlier.Mask{true, false, false}))
		Expect(outlier.Drawdown(frame, outlier.DefaultDrawdownLimit)).To(Equal(outlier.Mask{true, false, false}))
	})

	It("allows a row to be flagged both ways", func() {
		addRow("mixed", 9, -9, 5, -7, 0)

		for _, mode := range []outlier.Mode{outlier.SinglePortfolio, outlier.UniverseScreen} {
			res := outlier.NewClassifier(thresholds, mode, horizons).Classify(frame)
			Expect(res.Positive).To(Equal(outlier.Mask{true}), mode.String())
			Expect(res.Negative).To(Equal(outlier.Mask{true}), mode.String())
		}
	})

	It("never flags NaN values", func() {
		nan := math.NaN()
		addRow("undefined", nan, nan, nan, nan, nan)

		for _, mode := range []outlier.Mode{outlier.SinglePortfolio, outlier.UniverseScreen} {
			res := outlier.NewClassifier(thresholds, mode, horizons).Classify(frame)
			Expect(res.Positive.Count()).To(Equal(0))
			Expect(res.Negative.Count()).To(Equal(0))
		}
	})

	It("never flags against undefined cut-offs", func() {
		thresholds.Frame.Vals[1][2] = math.NaN()
		addRow("relative", 0, 0, 100, 0, 0)
		res := outlier.NewClassifier(thresholds, outlier.SinglePortfolio, horizons).Classify(frame)
		Expect(res.Positive.Count()).To(Equal(0))
	})

	It("treats missing columns as never breached", func() {
		frame = &dataframe.DataFrame{
			Index:    []string{"a"},
			ColNames: []string{"1D vs. Sector"},
			Vals:     [][]float64{{10}},
		}
		res := outlier.NewClassifier(thresholds, outlier.UniverseScreen, horizons).Classify(frame)
		Expect(res.Positive).To(Equal(outlier.Mask{false}))

		res = outlier.NewClassifier(thresholds, outlier.SinglePortfolio, horizons).Classify(frame)
		Expect(res.Positive).To(Equal(outlier.Mask{true}))
		Expect(res.Negative).To(Equal(outlier.Mask{false}))
	})
})

var _ = DescribeTable("ParseMode",
	func(s string, expected outlier.Mode, ok bool) {
		mode, err := outlier.ParseMode(s)
		if ok {
			Expect(err).To(BeNil())
			Expect(mode).To(Equal(expected))
		} else {
			Expect(err).To(MatchError(outlier.ErrUnknownMode))
		}
	},
	Entry("portfolio", "portfolio", outlier.SinglePortfolio, true),
	Entry("single-portfolio", "Single-Portfolio", outlier.SinglePortfolio, true),
	Entry("universe", "universe", outlier.UniverseScreen, true),
	Entry("unknown", "sector", outlier.SinglePortfolio, false),
)
