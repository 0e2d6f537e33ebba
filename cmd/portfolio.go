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

var portfolioMode string

func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().StringVar(&portfolioMode, "mode", outlier.SinglePortfolio.String(), "outlier rule: single-portfolio flags any relative breach or drawdown, universe-screen requires a raw and a relative breach")
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Report relative performance and outliers of every portfolio",
	Long: `Joins the positions of every configured portfolio with the reference prices, computes the
return of each position relative to its sector benchmark and lists the positions that are
statistical outliers or have lost more than the drawdown limit since entry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := outlier.ParseMode(portfolioMode)
		if err != nil {
			return err
		}

		r, err := newRun()
		if err != nil {
			return err
		}

		holdings, err := r.positions(cmd.Context())
		if err != nil {
			return err
		}

		rep := r.engine.Portfolios(holdings, mode)
		for _, section := range rep.Sections {
			r.log.Info().Str("Portfolio", section.Name).Int("NumHoldings", len(section.Holdings)).Int("NumUnderperformed", len(section.Negative)).Msg("portfolio screened")
		}

		return r.output(rep, "portfolio")
	},
}
