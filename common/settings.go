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

package common

import (
	"errors"
	"fmt"

	"github.com/penny-vault/pvrisk/outlier"
	"github.com/spf13/viper"
)

var (
	ErrNoHorizons = errors.New("no return horizons configured")
	ErrNoMarkets  = errors.New("no markets configured")
	ErrBadFormat  = errors.New("unsupported output format")
	ErrBadTop     = errors.New("megatrends.top must not be negative")
)

// Market describes one index whose constituents build a sector benchmark
type Market struct {
	Region string `mapstructure:"region"`
	Index  string `mapstructure:"index"`
	Sheet  string `mapstructure:"sheet"`
}

// Portfolio maps the display name of a mandate to its account segment in the reporting store
type Portfolio struct {
	Name    string `mapstructure:"name"`
	Segment string `mapstructure:"segment"`
}

type WorkbookSettings struct {
	Path           string `mapstructure:"path"`
	StocksSheet    string `mapstructure:"stocks_sheet"`
	FundsSheet     string `mapstructure:"funds_sheet"`
	PositionsSheet string `mapstructure:"positions_sheet"`
	ThemesSheet    string `mapstructure:"themes_sheet"`
}

type OutlierSettings struct {
	outlier.Band  `mapstructure:",squash"`
	DrawdownLimit float64 `mapstructure:"drawdown_limit"`
}

type MegatrendsSettings struct {
	Top int `mapstructure:"top"`
}

type OutputSettings struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

// Settings is the configuration of a reporting run. It is read once and not modified afterwards.
type Settings struct {
	Horizons   []string           `mapstructure:"horizons"`
	Markets    []Market           `mapstructure:"markets"`
	Portfolios []Portfolio        `mapstructure:"portfolios"`
	Workbook   WorkbookSettings   `mapstructure:"workbook"`
	Outlier    OutlierSettings    `mapstructure:"outlier"`
	Megatrends MegatrendsSettings `mapstructure:"megatrends"`
	Output     OutputSettings     `mapstructure:"output"`
	Database   struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
}

// SetDefaults registers the default value of every run setting with viper
func SetDefaults() {
	viper.SetDefault("horizons", []string{"1D", "5D", "1M", "YTD"})
	viper.SetDefault("markets", []map[string]string{
		{"region": "US", "index": "SPX Index", "sheet": "SPX"},
		{"region": "EU", "index": "SXXP Index", "sheet": "SXXP"},
	})
	viper.SetDefault("workbook.path", "single-stocks.xlsx")
	viper.SetDefault("workbook.stocks_sheet", "Stocks")
	viper.SetDefault("workbook.funds_sheet", "Funds")
	viper.SetDefault("workbook.positions_sheet", "Positions")
	viper.SetDefault("workbook.themes_sheet", "Megatrends")
	viper.SetDefault("megatrends.top", 5)
	viper.SetDefault("outlier.low_quantile", outlier.DefaultBand.Low)
	viper.SetDefault("outlier.high_quantile", outlier.DefaultBand.High)
	viper.SetDefault("outlier.granularity", outlier.DefaultBand.Granularity)
	viper.SetDefault("outlier.drawdown_limit", outlier.DefaultDrawdownLimit)
	viper.SetDefault("output.format", "table")
}

// LoadSettings reads the run settings from viper
func LoadSettings() (*Settings, error) {
	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("could not read settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks that the settings describe a runnable report
func (s *Settings) Validate() error {
	if len(s.Horizons) == 0 {
		return ErrNoHorizons
	}

	if len(s.Markets) == 0 {
		return ErrNoMarkets
	}

	if s.Megatrends.Top < 0 {
		return fmt.Errorf("%w: %d", ErrBadTop, s.Megatrends.Top)
	}

	switch s.Output.Format {
	case "table", "json":
	default:
		return fmt.Errorf("%w: %q", ErrBadFormat, s.Output.Format)
	}

	return nil
}

// Segments returns the account segment of every configured portfolio keyed by display name
func (s *Settings) Segments() map[string]string {
	res := make(map[string]string, len(s.Portfolios))
	for _, p := range s.Portfolios {
		res[p.Name] = p.Segment
	}
	return res
}

// Regions returns the configured market regions in configuration order
func (s *Settings) Regions() []string {
	regions := make([]string, len(s.Markets))
	for idx, m := range s.Markets {
		regions[idx] = m.Region
	}
	return regions
}
