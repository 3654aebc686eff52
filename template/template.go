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

// Package template models the JSON template that drives a conversion:
// an input section, an optional transformations section, and an output
// section. Decoding is deliberately plain encoding/json — column names
// appear as map keys and in entry values, and must survive with their
// case intact.
package template

import (
	"encoding/json"
	"fmt"
	"os"
)

// Template is the root of a conversion template.
type Template struct {
	Input           *IOOptions       `json:"input"`
	Transformations *Transformations `json:"transformations,omitempty"`
	Output          *IOOptions       `json:"output"`
}

// IOOptions is the option bag of an input or output section. CSV, JSON,
// and Parquet readers/writers each pick out the options they understand.
type IOOptions struct {
	FileType string `json:"file_type"`

	// CSV
	Delimiter       string   `json:"delimiter,omitempty"`
	Encoding        string   `json:"encoding,omitempty"`
	SkipHeader      int      `json:"skip_header,omitempty"`
	HasHeader       *bool    `json:"has_header,omitempty"`
	Columns         []string `json:"columns,omitempty"`
	ValidateColumns bool     `json:"validate_columns,omitempty"`
	IncludeIndex    bool     `json:"include_index,omitempty"`
	IncludeHeader   *bool    `json:"include_header,omitempty"`

	// JSON
	Orient string `json:"orient,omitempty"`
	Lines  bool   `json:"lines,omitempty"`
	Indent int    `json:"indent,omitempty"`
}

// HeaderPresent reports whether the CSV file carries a header row
// (has_header, default true).
func (o *IOOptions) HeaderPresent() bool {
	return o.HasHeader == nil || *o.HasHeader
}

// WriteHeader reports whether the CSV writer should emit a header row
// (include_header, default true).
func (o *IOOptions) WriteHeader() bool {
	return o.IncludeHeader == nil || *o.IncludeHeader
}

// Comma returns the configured delimiter as a rune, defaulting to ','.
func (o *IOOptions) Comma() rune {
	if o.Delimiter == "" {
		return ','
	}
	return []rune(o.Delimiter)[0]
}

// Transformations holds the four stage configurations, all optional.
type Transformations struct {
	ColumnMappings  []ColumnMapping   `json:"column_mappings,omitempty"`
	Filters         []FilterEntry     `json:"filters,omitempty"`
	NewColumns      []NewColumnSpec   `json:"new_columns,omitempty"`
	TypeConversions map[string]string `json:"data_type_conversions,omitempty"`
}

// Empty reports whether no stage has any configuration.
func (t *Transformations) Empty() bool {
	return t == nil ||
		(len(t.ColumnMappings) == 0 && len(t.Filters) == 0 &&
			len(t.NewColumns) == 0 && len(t.TypeConversions) == 0)
}

// ColumnMapping selects column From and renames it To.
type ColumnMapping struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FilterEntry narrows the row set: Column is compared against Value
// under Condition. Value is absent for isnull/notnull and a list for
// isin/notin.
type FilterEntry struct {
	Column    string      `json:"column"`
	Condition string      `json:"condition"`
	Value     interface{} `json:"value,omitempty"`
}

// NewColumnSpec describes one synthesized column. Only the fields of
// the selected Operation are meaningful.
type NewColumnSpec struct {
	Name         string      `json:"name"`
	Operation    string      `json:"operation"`
	Sources      []string    `json:"sources,omitempty"`
	Separator    string      `json:"separator,omitempty"`
	Expression   string      `json:"expression,omitempty"`
	SourceColumn string      `json:"source_column,omitempty"`
	Value        interface{} `json:"value,omitempty"`

	// HasValue distinguishes a present-but-null "value" key from an
	// absent one; default_value legitimately broadcasts null.
	HasValue bool `json:"-"`
}

// UnmarshalJSON decodes the spec and records whether the "value" key
// was present at all.
func (s *NewColumnSpec) UnmarshalJSON(data []byte) error {
	type plain NewColumnSpec
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	_, p.HasValue = raw["value"]
	*s = NewColumnSpec(p)
	return nil
}

// Load reads and validates a template file.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return &t, nil
}

// Validate checks the structural requirements: input and output
// sections must exist and name a file type.
func (t *Template) Validate() error {
	if t.Input == nil {
		return fmt.Errorf("missing required %q section", "input")
	}
	if t.Output == nil {
		return fmt.Errorf("missing required %q section", "output")
	}
	if t.Input.FileType == "" {
		return fmt.Errorf("input section must specify %q", "file_type")
	}
	if t.Output.FileType == "" {
		return fmt.Errorf("output section must specify %q", "file_type")
	}
	return nil
}
