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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aaronlmathis/tabular/core"
)

const stageConversions = "data_type_conversions"

// CoerceTypes converts columns to declared target types cell by cell.
// int, float, and datetime null any cell they cannot parse; str turns
// every cell (nulls included) into its string representation; bool maps
// a fixed token table and everything else — null included — to false.
// An unknown type tag or a missing column skips that conversion only.
func CoerceTypes(ds *core.Dataset, conversions map[string]string, diag *core.Diagnostics) *core.Dataset {
	// Walk in column order so warnings and conversions are deterministic.
	for _, col := range ds.Columns() {
		target, ok := conversions[col.Name]
		if !ok {
			continue
		}

		cells := make([]interface{}, len(col.Cells))
		var kind core.Kind
		switch target {
		case "int":
			kind = core.KindInt
			for i, cell := range col.Cells {
				cells[i] = coerceInt(cell)
			}
		case "float":
			kind = core.KindFloat
			for i, cell := range col.Cells {
				cells[i] = coerceFloat(cell)
			}
		case "str":
			kind = core.KindString
			for i, cell := range col.Cells {
				cells[i] = core.Format(cell)
			}
		case "datetime":
			kind = core.KindTime
			for i, cell := range col.Cells {
				cells[i] = coerceTime(cell)
			}
		case "bool":
			kind = core.KindBool
			for i, cell := range col.Cells {
				cells[i] = coerceBool(cell)
			}
		default:
			diag.Warnf(stageConversions, "column %q skipped: unsupported type %q", col.Name, target)
			continue
		}

		col.Kind = kind
		col.Cells = cells
	}

	for name := range conversions {
		if !ds.Has(name) {
			diag.Warnf(stageConversions, "column %q not found; conversion to %q skipped", name, conversions[name])
		}
	}
	return ds
}

// coerceInt parses a cell as an integer, nulling anything unparsable.
// Numeric text with a fractional part is treated as unparsable rather
// than truncated.
func coerceInt(cell interface{}) interface{} {
	switch v := cell.(type) {
	case nil:
		return nil
	case int64:
		return v
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return int64(v)
		}
		return nil
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int64(f)
		}
		return nil
	default:
		return nil
	}
}

func coerceFloat(cell interface{}) interface{} {
	switch v := cell.(type) {
	case nil:
		return nil
	case float64:
		return v
	case int64:
		return float64(v)
	case bool:
		if v {
			return float64(1)
		}
		return float64(0)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return nil
	default:
		return nil
	}
}

func coerceTime(cell interface{}) interface{} {
	switch v := cell.(type) {
	case nil:
		return nil
	case time.Time:
		return v
	case string:
		if t, ok := core.ParseTimestamp(v); ok {
			return t
		}
		return nil
	default:
		return nil
	}
}

// coerceBool maps the recognized truthy and falsy tokens; any other
// value, null included, becomes false. Unlike the other coercions this
// never produces null.
func coerceBool(cell interface{}) bool {
	switch v := cell.(type) {
	case bool:
		return v
	case string:
		switch v {
		case "true", "True", "TRUE", "1":
			return true
		}
		return false
	case int64:
		return v == 1
	case float64:
		return v == 1
	default:
		return false
	}
}
