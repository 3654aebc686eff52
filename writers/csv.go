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

package writers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aaronlmathis/tabular/core"
)

// CSVWriterError wraps structured error information for the CSV writer.
type CSVWriterError struct {
	Op  string
	Err error
}

func (e *CSVWriterError) Error() string {
	return fmt.Sprintf("csv writer %s: %v", e.Op, e.Err)
}

func (e *CSVWriterError) Unwrap() error {
	return e.Err
}

// CSVWriterOptions configures the CSV writer.
type CSVWriterOptions struct {
	Comma         rune
	Encoding      string
	IncludeHeader bool
	IncludeIndex  bool
	Columns       []string
}

// CSVWriterOption allows functional customization of CSVWriter.
type CSVWriterOption func(*CSVWriterOptions)

func WithCSVWriterComma(r rune) CSVWriterOption {
	return func(o *CSVWriterOptions) { o.Comma = r }
}

func WithCSVWriterEncoding(name string) CSVWriterOption {
	return func(o *CSVWriterOptions) { o.Encoding = name }
}

func WithCSVWriterHeader(include bool) CSVWriterOption {
	return func(o *CSVWriterOptions) { o.IncludeHeader = include }
}

// WithCSVWriterIndex prepends a row-number column to every record.
func WithCSVWriterIndex(include bool) CSVWriterOption {
	return func(o *CSVWriterOptions) { o.IncludeIndex = include }
}

// WithCSVWriterColumns restricts the output to a subset of columns, in
// the given order.
func WithCSVWriterColumns(columns []string) CSVWriterOption {
	return func(o *CSVWriterOptions) {
		o.Columns = append([]string(nil), columns...)
	}
}

// CSVWriter writes a dataset as delimited text. Null cells become empty
// fields.
type CSVWriter struct {
	writer *csv.Writer
	opts   CSVWriterOptions
}

// NewCSVWriter creates a CSVWriter with default or overridden options.
func NewCSVWriter(w io.Writer, options ...CSVWriterOption) (*CSVWriter, error) {
	opts := CSVWriterOptions{
		Comma:         ',',
		IncludeHeader: true,
	}
	for _, opt := range options {
		opt(&opts)
	}

	encoded, err := encodeWriter(w, opts.Encoding)
	if err != nil {
		return nil, &CSVWriterError{Op: "encoding", Err: err}
	}

	csvWriter := csv.NewWriter(encoded)
	csvWriter.Comma = opts.Comma

	return &CSVWriter{writer: csvWriter, opts: opts}, nil
}

// WriteAll serializes the whole dataset and flushes the underlying
// writer.
func (c *CSVWriter) WriteAll(ctx context.Context, ds *core.Dataset) error {
	select {
	case <-ctx.Done():
		return &CSVWriterError{Op: "write", Err: ctx.Err()}
	default:
	}

	cols := selectColumns(ds, c.opts.Columns)

	if c.opts.IncludeHeader {
		header := make([]string, 0, len(cols)+1)
		if c.opts.IncludeIndex {
			header = append(header, "")
		}
		for _, col := range cols {
			header = append(header, col.Name)
		}
		if err := c.writer.Write(header); err != nil {
			return &CSVWriterError{Op: "write_header", Err: err}
		}
	}

	for r := 0; r < ds.NumRows(); r++ {
		record := make([]string, 0, len(cols)+1)
		if c.opts.IncludeIndex {
			record = append(record, strconv.Itoa(r))
		}
		for _, col := range cols {
			record = append(record, core.Format(col.Cells[r]))
		}
		if err := c.writer.Write(record); err != nil {
			return &CSVWriterError{Op: "write_row", Err: err}
		}
	}

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return &CSVWriterError{Op: "flush", Err: err}
	}
	return nil
}
