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
	"github.com/penny-vault/pvrisk/position"
	"github.com/spf13/cobra"
)

var fundFilter string

func init() {
	rootCmd.AddCommand(fundsCmd)

	fundsCmd.Flags().StringVar(&fundFilter, "filter", "", "only consolidate share classes whose portfolio name contains this text, e.g. ESG or Flex")
}

var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "Consolidate fund share classes",
	Long: `Merges the share classes of each fund into a single row with the average entry price and
reports the funds sorted by return since entry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}

		funds, err := r.workbook.Holdings(r.settings.Workbook.FundsSheet, r.settings.Horizons)
		if err != nil {
			r.log.Error().Err(err).Msg("could not load fund share classes")
			return err
		}

		quotes, err := r.workbook.Quotes(r.settings.Workbook.StocksSheet, r.settings.Horizons)
		if err != nil {
			r.log.Error().Err(err).Msg("could not load reference quotes")
			return err
		}

		return r.output(r.engine.Funds(position.Enrich(funds, quotes), fundFilter), "funds")
	},
}
