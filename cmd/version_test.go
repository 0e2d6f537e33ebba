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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Version", func() {
	AfterEach(func() {
		commit = ""
		buildDate = ""
	})

	It("reports the release without a commit", func() {
		Expect(versionString()).To(Equal(version))
	})

	It("adds the commit to pre-releases", func() {
		commit = "ABC123"
		Expect(versionString()).To(Equal(version + "+abc123"))
	})

	It("names the program and build date", func() {
		buildDate = "2023-03-14T00:00:00Z"
		info := buildInfo()
		Expect(info).To(HavePrefix("pvrisk v" + version + " "))
		Expect(info).To(ContainSubstring("Build Date: 2023-03-14T00:00:00Z"))
	})

	It("falls back to an unknown build date", func() {
		Expect(buildInfo()).To(ContainSubstring("Build Date: unknown"))
	})

	It("matches the root command's version", func() {
		Expect(rootCmd.Version).To(Equal(versionString()))
	})
})
