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

package dataframe_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvrisk/dataframe"
)

var _ = Describe("Dataframe math", func() {
	var (
		a *dataframe.DataFrame
		b *dataframe.DataFrame
	)

	BeforeEach(func() {
		a = &dataframe.DataFrame{
			Index:    []string{"Energy", "Tech", "Utilities"},
			ColNames: []string{"1D", "YTD", "5D"},
			Vals:     [][]float64{{1, 2, 3}, {10, 20, 30}, {0, 0, 0}},
		}
		b = &dataframe.DataFrame{
			Index:    []string{"Tech", "Energy", "Health"},
			ColNames: []string{"YTD", "1D"},
			Vals:     [][]float64{{25, 12, 7}, {5, 4, 9}},
		}
	})

	It("subtracts aligned by label and column", func() {
		res := b.Sub(a)
		Expect(res.Index).To(Equal([]string{"Tech", "Energy"}))
		Expect(res.ColNames).To(Equal([]string{"YTD", "1D"}))
		Expect(res.Vals[0]).To(Equal([]float64{5, 2}))
		Expect(res.Vals[1]).To(Equal([]float64{3, 3}))
	})

	It("drops rows and columns present in only one input", func() {
		res := a.Sub(b)
		Expect(res.Index).NotTo(ContainElement("Utilities"))
		Expect(res.Index).NotTo(ContainElement("Health"))
		Expect(res.ColNames).NotTo(ContainElement("5D"))
	})

	It("does not modify the inputs", func() {
		_ = a.Sub(b)
		Expect(a.Vals[0]).To(Equal([]float64{1, 2, 3}))
		Expect(b.Vals[0]).To(Equal([]float64{25, 12, 7}))
		Expect(b.Vals[1]).To(Equal([]float64{5, 4, 9}))
	})

	It("lists map keys in sorted order", func() {
		m := dataframe.Map{"US": a, "EU": b}
		Expect(m.Keys()).To(Equal([]string{"EU", "US"}))
	})
})
