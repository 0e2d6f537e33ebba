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

package common_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvrisk/common"
	"github.com/spf13/viper"
)

const settingsTOML = `
horizons = ["1D", "YTD"]

[[markets]]
region = "US"
index = "SPX Index"
sheet = "SPX"

[[portfolios]]
name = "D&R Aktien"
segment = "17154631"

[[portfolios]]
name = "D&R Aktien Strategie"
segment = "399443"

[outlier]
low_quantile = 0.05
drawdown_limit = -15.0

[output]
format = "json"
`

var _ = Describe("Settings", func() {
	BeforeEach(func() {
		viper.Reset()
		common.SetDefaults()
	})

	AfterEach(func() {
		viper.Reset()
	})

	It("has sensible defaults", func() {
		settings, err := common.LoadSettings()
		Expect(err).To(BeNil())

		Expect(settings.Horizons).To(Equal([]string{"1D", "5D", "1M", "YTD"}))
		Expect(settings.Regions()).To(Equal([]string{"US", "EU"}))
		Expect(settings.Markets[1].Index).To(Equal("SXXP Index"))
		Expect(settings.Outlier.Low).To(Equal(0.01))
		Expect(settings.Outlier.High).To(Equal(0.99))
		Expect(settings.Outlier.Granularity).To(Equal(0.5))
		Expect(settings.Outlier.DrawdownLimit).To(Equal(-10.0))
		Expect(settings.Workbook.StocksSheet).To(Equal("Stocks"))
		Expect(settings.Workbook.ThemesSheet).To(Equal("Megatrends"))
		Expect(settings.Megatrends.Top).To(Equal(5))
		Expect(settings.Output.Format).To(Equal("table"))
		Expect(settings.Output.Dir).To(BeEmpty())
		Expect(settings.Database.URL).To(BeEmpty())
	})

	It("reads a config file", func() {
		viper.SetConfigType("toml")
		Expect(viper.ReadConfig(strings.NewReader(settingsTOML))).To(Succeed())

		settings, err := common.LoadSettings()
		Expect(err).To(BeNil())

		Expect(settings.Horizons).To(Equal([]string{"1D", "YTD"}))
		Expect(settings.Markets).To(Equal([]common.Market{{Region: "US", Index: "SPX Index", Sheet: "SPX"}}))
		Expect(settings.Outlier.Low).To(Equal(0.05))
		Expect(settings.Outlier.High).To(Equal(0.99))
		Expect(settings.Outlier.DrawdownLimit).To(Equal(-15.0))
		Expect(settings.Output.Format).To(Equal("json"))
	})

	It("keeps the case of portfolio names", func() {
		viper.SetConfigType("toml")
		Expect(viper.ReadConfig(strings.NewReader(settingsTOML))).To(Succeed())

		settings, err := common.LoadSettings()
		Expect(err).To(BeNil())
		Expect(settings.Segments()).To(Equal(map[string]string{
			"D&R Aktien":           "17154631",
			"D&R Aktien Strategie": "399443",
		}))
	})

	DescribeTable("validation",
		func(key string, val interface{}, expected error) {
			viper.Set(key, val)
			_, err := common.LoadSettings()
			Expect(errors.Is(err, expected)).To(BeTrue())
		},
		Entry("no horizons", "horizons", []string{}, common.ErrNoHorizons),
		Entry("no markets", "markets", []map[string]string{}, common.ErrNoMarkets),
		Entry("unknown format", "output.format", "html", common.ErrBadFormat),
		Entry("negative megatrends leaders", "megatrends.top", -1, common.ErrBadTop),
	)
})
