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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aaronlmathis/tabular/core"
)

// JSONWriterError wraps structured error information for the JSON writer.
type JSONWriterError struct {
	Op  string
	Err error
}

func (e *JSONWriterError) Error() string {
	return fmt.Sprintf("json writer %s: %v", e.Op, e.Err)
}

func (e *JSONWriterError) Unwrap() error {
	return e.Err
}

// JSONWriterOptions configures the JSON writer.
type JSONWriterOptions struct {
	Orient  string // "records" (default) or "columns"
	Lines   bool   // newline-delimited records, implies orient records
	Indent  int    // spaces per level; 0 writes compact output
	Columns []string
}

// JSONWriterOption allows functional customization of JSONWriter.
type JSONWriterOption func(*JSONWriterOptions)

func WithJSONWriterOrient(orient string) JSONWriterOption {
	return func(o *JSONWriterOptions) { o.Orient = orient }
}

func WithJSONWriterLines(lines bool) JSONWriterOption {
	return func(o *JSONWriterOptions) { o.Lines = lines }
}

func WithJSONWriterIndent(indent int) JSONWriterOption {
	return func(o *JSONWriterOptions) { o.Indent = indent }
}

// WithJSONWriterColumns restricts the output to a subset of columns, in
// the given order.
func WithJSONWriterColumns(columns []string) JSONWriterOption {
	return func(o *JSONWriterOptions) {
		o.Columns = append([]string(nil), columns...)
	}
}

// JSONWriter writes a dataset as JSON. Documents are assembled by hand
// so that object keys come out in column order; encoding/json would
// sort map keys.
type JSONWriter struct {
	raw  io.Writer
	opts JSONWriterOptions
}

// NewJSONWriter creates a JSONWriter with default or overridden options.
func NewJSONWriter(w io.Writer, options ...JSONWriterOption) (*JSONWriter, error) {
	opts := JSONWriterOptions{Orient: "records"}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Orient == "" {
		opts.Orient = "records"
	}
	switch opts.Orient {
	case "records", "columns":
	default:
		return nil, &JSONWriterError{Op: "options", Err: fmt.Errorf("unsupported orient %q", opts.Orient)}
	}
	if opts.Lines && opts.Orient != "records" {
		return nil, &JSONWriterError{Op: "options", Err: fmt.Errorf("lines output requires orient %q", "records")}
	}
	return &JSONWriter{raw: w, opts: opts}, nil
}

// WriteAll serializes the whole dataset.
func (j *JSONWriter) WriteAll(ctx context.Context, ds *core.Dataset) error {
	select {
	case <-ctx.Done():
		return &JSONWriterError{Op: "write", Err: ctx.Err()}
	default:
	}

	cols := selectColumns(ds, j.opts.Columns)

	if j.opts.Lines {
		return j.writeLines(cols, ds.NumRows())
	}

	var buf bytes.Buffer
	if j.opts.Orient == "columns" {
		writeColumnsDoc(&buf, cols)
	} else {
		writeRecordsDoc(&buf, cols, ds.NumRows())
	}

	out := buf.Bytes()
	if j.opts.Indent > 0 {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", strings.Repeat(" ", j.opts.Indent)); err != nil {
			return &JSONWriterError{Op: "indent", Err: err}
		}
		out = indented.Bytes()
	}
	if _, err := j.raw.Write(out); err != nil {
		return &JSONWriterError{Op: "write", Err: err}
	}
	return nil
}

func (j *JSONWriter) writeLines(cols []*core.Column, rows int) error {
	var buf bytes.Buffer
	for r := 0; r < rows; r++ {
		buf.Reset()
		writeRecordObject(&buf, cols, r)
		buf.WriteByte('\n')
		if _, err := j.raw.Write(buf.Bytes()); err != nil {
			return &JSONWriterError{Op: "write_line", Err: err}
		}
	}
	return nil
}

// writeRecordsDoc emits [{"col": v, ...}, ...].
func writeRecordsDoc(buf *bytes.Buffer, cols []*core.Column, rows int) {
	buf.WriteByte('[')
	for r := 0; r < rows; r++ {
		if r > 0 {
			buf.WriteByte(',')
		}
		writeRecordObject(buf, cols, r)
	}
	buf.WriteByte(']')
}

// writeColumnsDoc emits {"col": {"0": v, "1": v, ...}, ...}.
func writeColumnsDoc(buf *bytes.Buffer, cols []*core.Column) {
	buf.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(buf, col.Name)
		buf.WriteString(":{")
		for r, cell := range col.Cells {
			if r > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, strconv.Itoa(r))
			buf.WriteByte(':')
			writeJSONValue(buf, cell)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
}

func writeRecordObject(buf *bytes.Buffer, cols []*core.Column, row int) {
	buf.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(buf, col.Name)
		buf.WriteByte(':')
		writeJSONValue(buf, col.Cells[row])
	}
	buf.WriteByte('}')
}

// writeJSONValue encodes one cell. Timestamps are written as RFC 3339
// strings, nulls as JSON null.
func writeJSONValue(buf *bytes.Buffer, v interface{}) {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case time.Time:
		writeJSONString(buf, x.Format(time.RFC3339))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			writeJSONString(buf, fmt.Sprintf("%v", x))
			return
		}
		buf.Write(b)
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
