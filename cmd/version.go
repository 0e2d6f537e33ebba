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
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// version of pvrisk; pre-releases carry a suffix after the dash
const version = "0.3.0-dev"

// set by `mage build` through -ldflags
var (
	commit    string
	buildDate string
)

var deps bool

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&deps, "deps", false, "print the modules compiled into the binary")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildInfo())
		if deps {
			fmt.Println()
			fmt.Println(strings.Join(dependencies(), "\n"))
		}
	},
}

// versionString appends the commit as build metadata to pre-release versions
func versionString() string {
	if commit != "" && strings.Contains(version, "-") {
		return version + "+" + strings.ToLower(commit)
	}
	return version
}

func buildInfo() string {
	date := buildDate
	if date == "" {
		date = "unknown"
	}

	return fmt.Sprintf("pvrisk v%s %s/%s\n\nBuild Date: %s\nCommit: %s\nBuilt with: %s",
		versionString(), runtime.GOOS, runtime.GOARCH, date, commit, runtime.Version())
}

// dependencies lists module@version for every module compiled into the binary
func dependencies() []string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	res := make([]string, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		res = append(res, dep.Path+"@"+dep.Version)
	}
	sort.Strings(res)
	return res
}
