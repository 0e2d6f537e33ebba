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
	"fmt"
	"os"

	"github.com/penny-vault/pvrisk/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(common.SetupLogging)
	common.SetDefaults()

	// Database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string; positions are read from the workbook when empty")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	// Workbook
	viper.BindEnv("workbook.path", "PVRISK_WORKBOOK")
	rootCmd.PersistentFlags().String("workbook", "single-stocks.xlsx", "Workbook with reference prices, index constituents and funds")
	viper.BindPFlag("workbook.path", rootCmd.PersistentFlags().Lookup("workbook"))

	// Output
	viper.BindEnv("output.format", "PVRISK_OUTPUT_FORMAT")
	rootCmd.PersistentFlags().String("output-format", "table", "Report format one of: `table` or `json`")
	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output-format"))

	viper.BindEnv("output.dir", "PVRISK_OUTPUT_DIR")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory reports are saved to; printed to stdout when empty")
	viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("output-dir"))

	// Logging configuration
	viper.BindEnv("log.level", "PVRISK_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "PVRISK_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "PVRISK_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "PVRISK_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Format logs for humans instead of JSON")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))
}

var rootCmd = &cobra.Command{
	Use:     "pvrisk",
	Version: versionString(),
	Short:   "Daily relative performance and outlier report for equity portfolios",
	Long: `Compares every position and index constituent against the market-cap weighted
return of its sector and flags statistically unusual performers.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
