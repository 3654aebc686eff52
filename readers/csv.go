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

package readers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/logger"
)

// CSVReaderError wraps structured error information for the CSV reader.
type CSVReaderError struct {
	Op  string
	Err error
}

func (e *CSVReaderError) Error() string {
	return fmt.Sprintf("csv reader %s: %v", e.Op, e.Err)
}

func (e *CSVReaderError) Unwrap() error {
	return e.Err
}

// CSVReaderOptions configures the CSV reader.
type CSVReaderOptions struct {
	Comma           rune
	Encoding        string
	SkipRows        int
	HasHeader       bool
	Columns         []string
	ValidateColumns bool
}

// CSVOption allows functional customization of CSVReader.
type CSVOption func(*CSVReaderOptions)

func WithCSVComma(r rune) CSVOption {
	return func(o *CSVReaderOptions) { o.Comma = r }
}

func WithCSVEncoding(name string) CSVOption {
	return func(o *CSVReaderOptions) { o.Encoding = name }
}

func WithCSVSkipRows(n int) CSVOption {
	return func(o *CSVReaderOptions) { o.SkipRows = n }
}

func WithCSVHasHeader(hasHeader bool) CSVOption {
	return func(o *CSVReaderOptions) { o.HasHeader = hasHeader }
}

// WithCSVColumns sets the expected column names: a rename when the file
// has a header row with the same column count, the names themselves
// when it has none.
func WithCSVColumns(columns []string) CSVOption {
	return func(o *CSVReaderOptions) {
		o.Columns = append([]string(nil), columns...)
	}
}

func WithCSVColumnValidation(validate bool) CSVOption {
	return func(o *CSVReaderOptions) { o.ValidateColumns = validate }
}

// CSVReader reads a whole CSV stream into a dataset, inferring a kind
// per column from the cell text.
type CSVReader struct {
	reader *csv.Reader
	opts   CSVReaderOptions
}

// NewCSVReader creates a CSVReader with default or overridden options.
func NewCSVReader(r io.Reader, options ...CSVOption) (*CSVReader, error) {
	opts := CSVReaderOptions{
		Comma:     ',',
		HasHeader: true,
	}
	for _, opt := range options {
		opt(&opts)
	}

	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, &CSVReaderError{Op: "encoding", Err: err}
	}

	csvReader := csv.NewReader(decoded)
	csvReader.Comma = opts.Comma
	csvReader.TrimLeadingSpace = false

	return &CSVReader{reader: csvReader, opts: opts}, nil
}

// ReadAll consumes the stream and builds the dataset. Ragged rows are a
// structural fault and abort the read.
func (c *CSVReader) ReadAll(ctx context.Context) (*core.Dataset, error) {
	select {
	case <-ctx.Done():
		return nil, &CSVReaderError{Op: "read", Err: ctx.Err()}
	default:
	}

	for i := 0; i < c.opts.SkipRows; i++ {
		if _, err := c.reader.Read(); err != nil {
			if err == io.EOF {
				return core.NewDataset(), nil
			}
			return nil, &CSVReaderError{Op: "skip_rows", Err: err}
		}
	}

	var names []string
	if c.opts.HasHeader {
		header, err := c.reader.Read()
		if err != nil {
			if err == io.EOF {
				// An empty file yields an empty dataset rather than an error.
				return core.NewDataset(), nil
			}
			return nil, &CSVReaderError{Op: "read_header", Err: err}
		}
		names = header
		if len(c.opts.Columns) > 0 {
			if len(c.opts.Columns) == len(header) {
				names = c.opts.Columns
			} else {
				logger.Warn("column count mismatch; keeping header names from file",
					"file_columns", len(header), "template_columns", len(c.opts.Columns))
			}
		}
	}

	rows, err := c.reader.ReadAll()
	if err != nil {
		return nil, &CSVReaderError{Op: "read_rows", Err: err}
	}

	if names == nil {
		width := 0
		if len(rows) > 0 {
			width = len(rows[0])
		}
		names = make([]string, width)
		for i := range names {
			if i < len(c.opts.Columns) {
				names[i] = c.opts.Columns[i]
			} else {
				names[i] = "col_" + strconv.Itoa(i)
			}
		}
	}

	ds := core.NewDataset()
	for i, name := range names {
		raw := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				raw[r] = row[i]
			}
		}
		kind, cells := inferColumn(raw)
		if err := ds.AddColumn(name, kind, cells); err != nil {
			return nil, &CSVReaderError{Op: "build_dataset", Err: err}
		}
	}

	if c.opts.ValidateColumns && len(c.opts.Columns) > 0 {
		var missing []string
		for _, want := range c.opts.Columns {
			if !ds.Has(want) {
				missing = append(missing, want)
			}
		}
		if len(missing) > 0 {
			return nil, &CSVReaderError{Op: "validate_columns",
				Err: fmt.Errorf("missing expected columns: %s", strings.Join(missing, ", "))}
		}
	}

	return ds, nil
}

// inferColumn picks the narrowest kind that fits every non-empty cell:
// int, then float, then bool, then string. Empty cells are null.
func inferColumn(raw []string) (core.Kind, []interface{}) {
	cells := make([]interface{}, len(raw))

	isInt, isFloat, isBool := true, true, true
	sawValue := false
	for _, s := range raw {
		t := strings.TrimSpace(s)
		if t == "" {
			continue
		}
		sawValue = true
		if isInt {
			if _, err := strconv.ParseInt(t, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(t, 64); err != nil {
				isFloat = false
			}
		}
		if isBool && !boolToken(t) {
			isBool = false
		}
	}
	if !sawValue {
		// every cell empty: untyped all-null column
		return core.KindNull, cells
	}

	for i, s := range raw {
		t := strings.TrimSpace(s)
		if t == "" {
			cells[i] = nil
			continue
		}
		switch {
		case isInt:
			v, _ := strconv.ParseInt(t, 10, 64)
			cells[i] = v
		case isFloat:
			v, _ := strconv.ParseFloat(t, 64)
			cells[i] = v
		case isBool:
			cells[i] = strings.EqualFold(t, "true")
		default:
			cells[i] = s
		}
	}

	switch {
	case isInt:
		return core.KindInt, cells
	case isFloat:
		return core.KindFloat, cells
	case isBool:
		return core.KindBool, cells
	default:
		return core.KindString, cells
	}
}

// boolToken recognizes the spellings that make a column boolean.
func boolToken(s string) bool {
	switch s {
	case "true", "True", "TRUE", "false", "False", "FALSE":
		return true
	default:
		return false
	}
}
