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


package trend_test

import (
	"math"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvrisk/trend"
)

func names(members []*trend.Member) []string {
	res := make([]string, len(members))
	for idx, m := range members {
		res[idx] = m.Name
	}
	return res
}

var _ = Describe("Trend", func() {
	var members []*trend.Member

	BeforeEach(func() {
		members = []*trend.Member{
			{Theme: "AI", Sector: "Tech", Name: "Nvidia", Query: "NVDA US Equity", Change: 12},
			{Theme: "Cloud", Sector: "Tech", Name: "Nvidia", Query: "NVDA US Equity", Change: 12},
			{Theme: "AI", Sector: "Tech", Name: "Microsoft", Query: "MSFT US Equity", Change: 4},
			{Theme: "Cloud", Sector: "Tech", Name: "Snowflake", Query: "SNOW US Equity", Change: -6},
			{Theme: "Energy Transition", Sector: "Utilities", Name: "Orsted", Query: "ORSTED DC Equity", Change: -4},
			{Theme: "Energy Transition", Sector: "Utilities", Name: "Vestas", Query: "VWS DC Equity", Change: math.NaN()},
			{Theme: "Water", Sector: "", Name: "Unknown", Query: "", Change: 1},
			{Theme: "Space", Sector: "Industrials", Name: "Rocket", Query: "RKT US Equity", Change: math.NaN()},
		}
	})

	It("averages the change of every theme, best first", func() {
		df := trend.GroupMeans(members, trend.ByTheme)
		Expect(df.Index).To(Equal([]string{"AI", "Cloud", "Water", "Energy Transition", "Space"}))
		Expect(df.Col(trend.ChangeColumn)[0]).To(BeNumerically("~", 8.0, 1e-9))
		Expect(df.Col(trend.ChangeColumn)[1]).To(BeNumerically("~", 3.0, 1e-9))
		Expect(df.Col(trend.ChangeColumn)[3]).To(BeNumerically("~", -4.0, 1e-9))
		Expect(math.IsNaN(df.Col(trend.ChangeColumn)[4])).To(BeTrue())
	})

	It("averages the change of every sector and skips members without one", func() {
		df := trend.GroupMeans(members, trend.BySector)
		Expect(df.Index).To(Equal([]string{"Tech", "Utilities", "Industrials"}))
		Expect(df.Col(trend.ChangeColumn)[0]).To(BeNumerically("~", 5.5, 1e-9))
	})

	It("lists the leaders of every sector once per query", func() {
		leaders := trend.SectorLeaders(members, 2)
		Expect(leaders).To(HaveLen(3))
		Expect(leaders[0].Sector).To(Equal("Tech"))
		Expect(names(leaders[0].Members)).To(Equal([]string{"Nvidia", "Microsoft"}))
		Expect(leaders[0].Members[0].Theme).To(Equal("AI"))
		Expect(leaders[1].Sector).To(Equal("Utilities"))
		Expect(names(leaders[1].Members)).To(Equal([]string{"Orsted", "Vestas"}))
	})

	It("keeps every member of a sector when there are fewer than requested", func() {
		leaders := trend.SectorLeaders(members, 5)
		Expect(names(leaders[0].Members)).To(Equal([]string{"Nvidia", "Microsoft", "Snowflake"}))
	})

	It("writes unknown changes as null", func() {
		buf, err := json.Marshal(members[5])
		Expect(err).To(BeNil())
		Expect(string(buf)).To(ContainSubstring(`"change":null`))

		buf, err = json.Marshal(members[0])
		Expect(err).To(BeNil())
		Expect(string(buf)).To(ContainSubstring(`"change":12`))
	})
})
