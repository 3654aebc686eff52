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

package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Package core defines the tabular dataset model shared by readers,
// writers, and the transformation stages.
//
// Cells are dynamically typed: every cell is one of int64, float64,
// string, bool, time.Time, or nil for a missing value. Kind tags the
// declared type of a column; individual cells of a typed column may
// still be nil.

// Kind identifies the dynamic type of a cell or the declared type of a column.
type Kind int

const (
	// KindNull marks an untyped column (for example, one whose cells are all null).
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindTime
)

// String returns the type tag name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindBool:
		return "bool"
	case KindTime:
		return "datetime"
	default:
		return "null"
	}
}

// KindOf returns the kind of a single cell value.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case bool:
		return KindBool
	case time.Time:
		return KindTime
	default:
		return KindString
	}
}

// Normalize converts a value of any Go numeric flavor into the canonical
// cell representation: int64 for integers, float64 for floating point.
// json.Number values become int64 when they carry no fractional part.
// Values outside the cell vocabulary fall back to their string form.
func Normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, int64, float64, string, bool, time.Time:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		return Format(x)
	}
}

// Format returns the string representation of a cell.
// A null cell formats as the empty string.
func Format(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ToFloat converts a numeric or boolean cell to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Compare orders two cells. It returns a negative, zero, or positive
// result like strings.Compare, and false when the cells are not
// comparable: either side null, or categorically mismatched types
// (for example a string against a number).
func Compare(a, b interface{}) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}

	if af, ok := ToFloat(a); ok {
		bf, ok := ToFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			// Allow comparing a timestamp column against a literal timestamp string.
			if s, isStr := b.(string); isStr {
				if t, parsed := ParseTimestamp(s); parsed {
					bv, ok = t, true
				}
			}
			if !ok {
				return 0, false
			}
		}
		switch {
		case av.Before(bv):
			return -1, true
		case av.After(bv):
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// Equal reports whether two cells hold the same value, promoting across
// the numeric kinds. A null cell equals nothing, including another null.
func Equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return false
	}
	if af, ok := ToFloat(a); ok {
		// bool participates in numeric equality only against another bool
		if _, aIsBool := a.(bool); aIsBool {
			bv, ok := b.(bool)
			return ok && a.(bool) == bv
		}
		if _, bIsBool := b.(bool); bIsBool {
			return false
		}
		if bf, ok := ToFloat(b); ok {
			return af == bf
		}
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	default:
		return false
	}
}

// timestampLayouts are tried in order when parsing a string as a timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseTimestamp parses a string cell as a timestamp using a fixed set
// of common layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
