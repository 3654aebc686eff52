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
	"strings"

	"github.com/expr-lang/expr"

	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/template"
)

const stageNewColumns = "new_columns"

// SynthesizeColumns computes new columns in entry order; each entry
// sees the columns created by earlier entries. A new column may
// overwrite an existing column of the same name. Entries with a missing
// name or operation, an unknown operation, a missing source column, or
// an evaluation failure are skipped.
func SynthesizeColumns(ds *core.Dataset, specs []template.NewColumnSpec, diag *core.Diagnostics) *core.Dataset {
	for _, spec := range specs {
		if spec.Name == "" || spec.Operation == "" {
			diag.Warnf(stageNewColumns, "entry skipped: missing name or operation")
			continue
		}

		switch spec.Operation {
		case "concat":
			synthesizeConcat(ds, spec, diag)
		case "eval":
			synthesizeEval(ds, spec, diag)
		case "copy":
			synthesizeCopy(ds, spec, diag)
		case "default_value":
			synthesizeDefault(ds, spec, diag)
		default:
			diag.Warnf(stageNewColumns, "column %q skipped: unsupported operation %q", spec.Name, spec.Operation)
		}
	}
	return ds
}

// synthesizeConcat joins the string representations of the source
// columns row-wise. All sources must exist or the entry is skipped.
func synthesizeConcat(ds *core.Dataset, spec template.NewColumnSpec, diag *core.Diagnostics) {
	sources := make([]*core.Column, len(spec.Sources))
	for i, name := range spec.Sources {
		col, ok := ds.Column(name)
		if !ok {
			diag.Warnf(stageNewColumns, "column %q skipped: concat source %q not found", spec.Name, name)
			return
		}
		sources[i] = col
	}

	rows := ds.NumRows()
	cells := make([]interface{}, rows)
	parts := make([]string, len(sources))
	for i := 0; i < rows; i++ {
		for j, src := range sources {
			parts[j] = core.Format(src.Cells[i])
		}
		cells[i] = strings.Join(parts, spec.Separator)
	}

	if err := ds.SetColumn(spec.Name, core.KindString, cells); err != nil {
		diag.Warnf(stageNewColumns, "column %q skipped: %v", spec.Name, err)
	}
}

// synthesizeEval evaluates an expression row-wise. The expression is
// compiled once; its environment is exactly the row's column values, so
// it can reference columns and literals but nothing else. A compile
// error or a failure on any row skips the whole entry.
func synthesizeEval(ds *core.Dataset, spec template.NewColumnSpec, diag *core.Diagnostics) {
	if spec.Expression == "" {
		diag.Warnf(stageNewColumns, "column %q skipped: eval requires an expression", spec.Name)
		return
	}

	program, err := expr.Compile(spec.Expression, expr.AllowUndefinedVariables())
	if err != nil {
		diag.Warnf(stageNewColumns, "column %q skipped: invalid expression: %v", spec.Name, err)
		return
	}

	rows := ds.NumRows()
	cells := make([]interface{}, rows)
	kind := core.KindNull
	for i := 0; i < rows; i++ {
		out, err := expr.Run(program, ds.Row(i))
		if err != nil {
			diag.Warnf(stageNewColumns, "column %q skipped: expression failed at row %d: %v", spec.Name, i, err)
			return
		}
		cell := core.Normalize(out)
		if kind == core.KindNull {
			kind = core.KindOf(cell)
		}
		cells[i] = cell
	}

	if err := ds.SetColumn(spec.Name, kind, cells); err != nil {
		diag.Warnf(stageNewColumns, "column %q skipped: %v", spec.Name, err)
	}
}

// synthesizeCopy duplicates an existing column under the new name.
func synthesizeCopy(ds *core.Dataset, spec template.NewColumnSpec, diag *core.Diagnostics) {
	if spec.SourceColumn == "" {
		diag.Warnf(stageNewColumns, "column %q skipped: copy requires source_column", spec.Name)
		return
	}
	src, ok := ds.Column(spec.SourceColumn)
	if !ok {
		diag.Warnf(stageNewColumns, "column %q skipped: copy source %q not found", spec.Name, spec.SourceColumn)
		return
	}

	cells := make([]interface{}, len(src.Cells))
	copy(cells, src.Cells)
	if err := ds.SetColumn(spec.Name, src.Kind, cells); err != nil {
		diag.Warnf(stageNewColumns, "column %q skipped: %v", spec.Name, err)
	}
}

// synthesizeDefault broadcasts a literal to every row. The value key
// must be present in the entry; a present null is a legal broadcast.
func synthesizeDefault(ds *core.Dataset, spec template.NewColumnSpec, diag *core.Diagnostics) {
	if !spec.HasValue {
		diag.Warnf(stageNewColumns, "column %q skipped: default_value requires a value key", spec.Name)
		return
	}

	value := core.Normalize(spec.Value)
	rows := ds.NumRows()
	cells := make([]interface{}, rows)
	for i := range cells {
		cells[i] = value
	}

	if err := ds.SetColumn(spec.Name, core.KindOf(value), cells); err != nil {
		diag.Warnf(stageNewColumns, "column %q skipped: %v", spec.Name, err)
	}
}
