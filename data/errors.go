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

package data

import "errors"

var (
	ErrNoPortfolios    = errors.New("no portfolios requested")
	ErrSheetNotFound   = errors.New("sheet not found in workbook")
	ErrColumnNotFound  = errors.New("required column not found in sheet")
	ErrEmptySheet      = errors.New("sheet has no header row")
	ErrWorkbookMissing = errors.New("workbook path is empty")
	ErrDigest          = errors.New("could not generate workbook digest")
)
