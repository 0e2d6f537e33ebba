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

package cmd

import (
	"github.com/penny-vault/pvrisk/outlier"
	"github.com/spf13/cobra"
)

var universeMode string

func init() {
	rootCmd.AddCommand(universeCmd)

	universeCmd.Flags().StringVar(&universeMode, "mode", outlier.UniverseScreen.String(), "outlier rule: single-portfolio flags any relative breach or drawdown, universe-screen requires a raw and a relative breach")
}

var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Screen index constituents for outliers",
	Long: `Flags the constituents of every configured market whose raw and sector-relative returns are
both beyond the market's outlier thresholds.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := outlier.ParseMode(universeMode)
		if err != nil {
			return err
		}

		r, err := newRun()
		if err != nil {
			return err
		}

		rep := r.engine.Universe(mode)
		for _, section := range rep.Sections {
			r.log.Info().Str("Index", section.Name).Int("NumPositive", len(section.Positive)).Int("NumNegative", len(section.Negative)).Msg("universe screened")
		}

		return r.output(rep, "universe")
	},
}
