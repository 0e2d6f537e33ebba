//go:build mage

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


package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary    = "pvrisk"
	cmdPkg    = "github.com/penny-vault/pvrisk/cmd"
	coverFile = "coverage.out"
	reportDir = "reports"
)

// Build compiles pvrisk with the current commit and build date
func Build() error {
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	ldflags := strings.Join([]string{
		"-X", cmdPkg + ".commit=" + commit,
		"-X", cmdPkg + ".buildDate=" + time.Now().UTC().Format(time.RFC3339),
	}, " ")

	fmt.Println("building", binary)
	return sh.RunV("go", "build", "-o", binary, "-ldflags", ldflags, ".")
}

// Test runs the ginkgo suites of every package
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Check fails when a file is not gofmt'ed or go vet reports a problem, then runs the tests
func Check() error {
	unformatted, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if unformatted != "" {
		return fmt.Errorf("files are not gofmt'ed:\n%s", unformatted)
	}

	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}

	mg.Deps(Test)
	return nil
}

// Cover prints the statement coverage of every function
func Cover() error {
	if err := sh.Run("go", "test", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverFile)
}

// Config writes the effective configuration of the built binary to pvrisk.toml
func Config() error {
	mg.Deps(Build)

	doc, err := sh.Output(filepath.Join(".", binary), "config")
	if err != nil {
		return err
	}
	return os.WriteFile(binary+".toml", []byte(doc+"\n"), 0o644)
}

// Reports runs the portfolio, universe, funds and megatrends reports and saves them as JSON
func Reports() error {
	mg.Deps(Build)

	for _, kind := range []string{"portfolio", "universe", "funds", "megatrends"} {
		fmt.Println("running", kind, "report")
		if err := sh.RunV(filepath.Join(".", binary), kind, "--output-format", "json", "--output-dir", reportDir); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes the binary, the coverage profile and saved reports
func Clean() error {
	for _, fn := range []string{binary, coverFile, reportDir} {
		if err := sh.Rm(fn); err != nil {
			return err
		}
	}
	return nil
}
