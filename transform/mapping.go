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

package transform

import (
	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/template"
)

// Package transform implements the four pipeline stages: column
// mapping, row filtering, column synthesis, and type coercion. Each
// stage is a pure function from dataset plus entries to dataset;
// recoverable per-entry faults are recorded in a core.Diagnostics and
// never abort the stage.

const stageMapping = "column_mapping"

// MapColumns selects and renames columns. The result contains only the
// columns whose "from" name resolved, in entry order, under their "to"
// names. Entries whose source column is missing are skipped. If no
// entry resolves, the original dataset is returned unchanged — selecting
// nothing is treated as a misconfigured mapping rather than a request
// for an empty dataset.
func MapColumns(ds *core.Dataset, mappings []template.ColumnMapping, diag *core.Diagnostics) *core.Dataset {
	if len(mappings) == 0 {
		return ds
	}

	out := core.NewDataset()
	for _, m := range mappings {
		col, ok := ds.Column(m.From)
		if !ok {
			diag.Warnf(stageMapping, "column %q not found; mapping to %q skipped", m.From, m.To)
			continue
		}
		if err := out.AddColumn(m.To, col.Kind, col.Cells); err != nil {
			diag.Warnf(stageMapping, "mapping %q -> %q skipped: %v", m.From, m.To, err)
		}
	}

	if out.NumCols() == 0 {
		diag.Warnf(stageMapping, "no mapping entry matched an existing column; dataset left unmapped")
		return ds
	}
	return out
}
