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
	"fmt"
	"strings"

	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/template"
)

const stageFilter = "filters"

// FilterRows applies filter entries sequentially as a conjunction: each
// entry narrows the surviving row set. Row order is preserved. An entry
// with an unknown column, unknown condition, malformed list value, or
// an evaluation error is skipped and filtering continues with the next
// entry.
//
// Null cells fail every condition except isnull, != and notin: a null
// is never ordered against, equal to, or a member of anything.
func FilterRows(ds *core.Dataset, entries []template.FilterEntry, diag *core.Diagnostics) *core.Dataset {
	for _, e := range entries {
		col, ok := ds.Column(e.Column)
		if !ok {
			diag.Warnf(stageFilter, "column %q not found; filter %q skipped", e.Column, e.Condition)
			continue
		}

		keep, err := evaluateFilter(col, e)
		if err != nil {
			diag.Warnf(stageFilter, "filter %q on column %q skipped: %v", e.Condition, e.Column, err)
			continue
		}
		ds.Retain(keep)
	}
	return ds
}

// evaluateFilter returns the indices of the rows that survive one
// entry, or an error when the entry cannot be applied at all.
func evaluateFilter(col *core.Column, e template.FilterEntry) ([]int, error) {
	value := core.Normalize(e.Value)
	keep := make([]int, 0, len(col.Cells))

	switch e.Condition {
	case ">", "<", ">=", "<=":
		for i, cell := range col.Cells {
			if cell == nil {
				continue
			}
			c, ok := core.Compare(cell, value)
			if !ok {
				return nil, fmt.Errorf("cannot compare %s cell with %T value", core.KindOf(cell), e.Value)
			}
			if ordinalMatch(e.Condition, c) {
				keep = append(keep, i)
			}
		}

	case "==":
		for i, cell := range col.Cells {
			if core.Equal(cell, value) {
				keep = append(keep, i)
			}
		}

	case "!=":
		for i, cell := range col.Cells {
			if !core.Equal(cell, value) {
				keep = append(keep, i)
			}
		}

	case "isin", "notin":
		list, ok := e.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("condition requires a list value, got %T", e.Value)
		}
		for i, cell := range col.Cells {
			member := false
			for _, want := range list {
				if core.Equal(cell, core.Normalize(want)) {
					member = true
					break
				}
			}
			if member == (e.Condition == "isin") {
				keep = append(keep, i)
			}
		}

	case "isnull":
		for i, cell := range col.Cells {
			if cell == nil {
				keep = append(keep, i)
			}
		}

	case "notnull":
		for i, cell := range col.Cells {
			if cell != nil {
				keep = append(keep, i)
			}
		}

	case "contains", "startswith", "endswith":
		want := core.Format(value)
		for i, cell := range col.Cells {
			if cell == nil {
				continue
			}
			// Non-string cells are matched on their string representation.
			s := core.Format(cell)
			if stringMatch(e.Condition, s, want) {
				keep = append(keep, i)
			}
		}

	default:
		return nil, fmt.Errorf("unsupported condition")
	}

	return keep, nil
}

func ordinalMatch(condition string, cmp int) bool {
	switch condition {
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	default:
		return false
	}
}

func stringMatch(condition, s, want string) bool {
	switch condition {
	case "contains":
		return strings.Contains(s, want)
	case "startswith":
		return strings.HasPrefix(s, want)
	case "endswith":
		return strings.HasSuffix(s, want)
	default:
		return false
	}
}
