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
	"github.com/penny-vault/pvrisk/report"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(megatrendsCmd)
}

var megatrendsCmd = &cobra.Command{
	Use:   "megatrends",
	Short: "Summarize the performance of thematic baskets",
	Long: `Averages the change of the members of every theme and every sector in the themes sheet and
lists the best performing instruments of each sector. Only the workbook is needed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRun()
		if err != nil {
			return err
		}

		members, err := r.workbook.Members(r.settings.Workbook.ThemesSheet)
		if err != nil {
			r.log.Error().Err(err).Str("Sheet", r.settings.Workbook.ThemesSheet).Msg("could not load theme members")
			return err
		}

		return r.output(report.NewTrends(members, r.settings.Megatrends.Top), "megatrends")
	},
}
