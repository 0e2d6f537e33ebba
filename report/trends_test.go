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


package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvrisk/report"
	"github.com/penny-vault/pvrisk/trend"
)

var _ = Describe("Trends", func() {
	var trends *report.Trends

	BeforeEach(func() {
		trends = report.NewTrends([]*trend.Member{
			{Theme: "AI", Sector: "Tech", Name: "Nvidia", Query: "NVDA US Equity", Change: 12},
			{Theme: "Cloud", Sector: "Tech", Name: "Nvidia", Query: "NVDA US Equity", Change: 12},
			{Theme: "Cloud", Sector: "Tech", Name: "Snowflake", Query: "SNOW US Equity", Change: -6},
			{Theme: "Energy Transition", Sector: "Utilities", Name: "Orsted", Query: "ORSTED DC Equity", Change: -4},
		}, 1)
		trends.Stamp("test-run", time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC), "abc")
	})

	It("ranks themes and sectors by mean change", func() {
		Expect(trends.Themes.Index).To(Equal([]string{"AI", "Cloud", "Energy Transition"}))
		Expect(trends.Sectors.Index).To(Equal([]string{"Tech", "Utilities"}))
	})

	It("keeps the requested number of leaders per sector", func() {
		Expect(trends.Leaders).To(HaveLen(2))
		Expect(trends.Leaders[0].Members).To(HaveLen(1))
		Expect(trends.Leaders[0].Members[0].Name).To(Equal("Nvidia"))
	})

	It("writes ASCII tables", func() {
		buf := &bytes.Buffer{}
		Expect(trends.Write(buf, report.FormatTable)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("Mean change by theme"))
		Expect(buf.String()).To(ContainSubstring("Tech leaders"))
		Expect(buf.String()).To(ContainSubstring("NVDA US Equity"))
	})

	It("writes JSON with provenance", func() {
		buf := &bytes.Buffer{}
		Expect(trends.Write(buf, report.FormatJSON)).To(Succeed())

		var decoded struct {
			RunID   string `json:"run_id"`
			Source  string `json:"source_digest"`
			Leaders []struct {
				Sector  string `json:"sector"`
				Members []struct {
					Query  string  `json:"query"`
					Change float64 `json:"change"`
				} `json:"members"`
			} `json:"leaders"`
		}
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded.RunID).To(Equal("test-run"))
		Expect(decoded.Source).To(Equal("abc"))
		Expect(decoded.Leaders[1].Sector).To(Equal("Utilities"))
		Expect(decoded.Leaders[1].Members[0].Change).To(Equal(-4.0))
	})

	It("saves to a dated file", func() {
		dir, err := os.MkdirTemp("", "pvrisk-trends")
		Expect(err).To(BeNil())
		DeferCleanup(os.RemoveAll, dir)

		fn, err := trends.Save(dir, "megatrends", report.FormatTable)
		Expect(err).To(BeNil())
		Expect(fn).To(Equal(filepath.Join(dir, "megatrends-2023-03-14.txt")))
	})
})
