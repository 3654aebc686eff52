//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Tabular.
//
// Tabular is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Tabular is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Tabular. If not, see https://www.gnu.org/licenses/.

package tabular

import (
	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/logger"
	"github.com/aaronlmathis/tabular/template"
	"github.com/aaronlmathis/tabular/transform"
)

// Package tabular converts tabular data files according to a JSON
// template: read a dataset, run it through a fixed transformation
// pipeline, write it back out.
//
// The pipeline order never varies: column mapping, then row filtering,
// then column synthesis, then type coercion. A stage whose template
// section is absent or empty passes the dataset through unchanged.
// Stages tolerate their own per-entry faults — a bad entry is recorded
// as a warning and skipped, and the run still produces output.

// Result is the outcome of one transformation run: the final dataset
// and the recoverable faults that were skipped along the way.
type Result struct {
	Dataset  *core.Dataset
	Warnings []core.Warning
}

// Transform runs the transformation pipeline over a working copy of the
// dataset. The input dataset is never modified.
func Transform(ds *core.Dataset, spec *template.Transformations) *Result {
	out := ds.Clone()
	if spec.Empty() {
		logger.Debug("no transformations configured; dataset passes through")
		return &Result{Dataset: out}
	}

	diag := core.NewDiagnostics()

	if len(spec.ColumnMappings) > 0 {
		out = transform.MapColumns(out, spec.ColumnMappings, diag)
		logger.Debug("column mapping applied", "rows", out.NumRows(), "cols", out.NumCols())
	}
	if len(spec.Filters) > 0 {
		out = transform.FilterRows(out, spec.Filters, diag)
		logger.Debug("filters applied", "rows", out.NumRows(), "cols", out.NumCols())
	}
	if len(spec.NewColumns) > 0 {
		out = transform.SynthesizeColumns(out, spec.NewColumns, diag)
		logger.Debug("new columns applied", "rows", out.NumRows(), "cols", out.NumCols())
	}
	if len(spec.TypeConversions) > 0 {
		out = transform.CoerceTypes(out, spec.TypeConversions, diag)
		logger.Debug("type conversions applied", "rows", out.NumRows(), "cols", out.NumCols())
	}

	return &Result{Dataset: out, Warnings: diag.Warnings()}
}
