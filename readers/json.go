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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aaronlmathis/tabular/core"
)

// JSONReaderError wraps structured error information for the JSON reader.
type JSONReaderError struct {
	Op  string
	Err error
}

func (e *JSONReaderError) Error() string {
	return fmt.Sprintf("json reader %s: %v", e.Op, e.Err)
}

func (e *JSONReaderError) Unwrap() error {
	return e.Err
}

// JSONReaderOptions configures the JSON reader.
type JSONReaderOptions struct {
	Orient   string // only "records" is supported
	Lines    bool   // newline-delimited JSON (one object per line)
	Encoding string
}

// JSONOption allows functional customization of JSONReader.
type JSONOption func(*JSONReaderOptions)

func WithJSONOrient(orient string) JSONOption {
	return func(o *JSONReaderOptions) { o.Orient = orient }
}

func WithJSONLines(lines bool) JSONOption {
	return func(o *JSONReaderOptions) { o.Lines = lines }
}

func WithJSONEncoding(name string) JSONOption {
	return func(o *JSONReaderOptions) { o.Encoding = name }
}

// JSONReader reads an array of records (or newline-delimited records)
// into a dataset. Objects are walked token by token so that the column
// order matches the key order of the document, which a plain map decode
// would destroy.
type JSONReader struct {
	raw  io.Reader
	opts JSONReaderOptions
}

// NewJSONReader creates a JSONReader with default or overridden options.
func NewJSONReader(r io.Reader, options ...JSONOption) (*JSONReader, error) {
	opts := JSONReaderOptions{Orient: "records"}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Orient == "" {
		opts.Orient = "records"
	}
	if opts.Orient != "records" {
		return nil, &JSONReaderError{Op: "options", Err: fmt.Errorf("unsupported orient %q", opts.Orient)}
	}

	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, &JSONReaderError{Op: "encoding", Err: err}
	}
	return &JSONReader{raw: decoded, opts: opts}, nil
}

// record is one decoded object with its keys in document order.
type record struct {
	keys   []string
	values map[string]interface{}
}

// ReadAll consumes the stream and builds the dataset.
func (j *JSONReader) ReadAll(ctx context.Context) (*core.Dataset, error) {
	select {
	case <-ctx.Done():
		return nil, &JSONReaderError{Op: "read", Err: ctx.Err()}
	default:
	}

	var records []record
	var err error
	if j.opts.Lines {
		records, err = j.readLines()
	} else {
		records, err = j.readArray()
	}
	if err != nil {
		return nil, err
	}

	return buildDataset(records)
}

func (j *JSONReader) readLines() ([]record, error) {
	var records []record
	scanner := bufio.NewScanner(j.raw)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		rec, err := decodeRecord(dec)
		if err != nil {
			return nil, &JSONReaderError{Op: "read_line", Err: err}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &JSONReaderError{Op: "scan", Err: err}
	}
	return records, nil
}

func (j *JSONReader) readArray() ([]record, error) {
	dec := json.NewDecoder(j.raw)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &JSONReaderError{Op: "read_array", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, &JSONReaderError{Op: "read_array", Err: fmt.Errorf("expected a JSON array of records, got %v", tok)}
	}

	var records []record
	for dec.More() {
		rec, err := decodeRecord(dec)
		if err != nil {
			return nil, &JSONReaderError{Op: "read_record", Err: err}
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, &JSONReaderError{Op: "read_array", Err: err}
	}
	return records, nil
}

// decodeRecord reads one object from the decoder, preserving key order.
func decodeRecord(dec *json.Decoder) (record, error) {
	rec := record{values: make(map[string]interface{})}

	tok, err := dec.Token()
	if err != nil {
		return rec, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return rec, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return rec, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return rec, fmt.Errorf("expected an object key, got %v", keyTok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return rec, err
		}
		rec.keys = append(rec.keys, key)
		rec.values[key] = normalizeJSONValue(value)
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return rec, err
	}
	return rec, nil
}

// normalizeJSONValue maps decoded JSON values onto cell values. Nested
// arrays and objects are flattened to their JSON text.
func normalizeJSONValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, bool, string:
		return x
	case json.Number:
		return core.Normalize(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(b)
	}
}

// buildDataset assembles columns in first-seen key order, promoting
// mixed int/float columns to float like the usual frame semantics.
func buildDataset(records []record) (*core.Dataset, error) {
	ds := core.NewDataset()
	var order []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, k := range rec.keys {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}

	for _, name := range order {
		cells := make([]interface{}, len(records))
		kind := core.KindNull
		mixed := false
		hasInt, hasFloat := false, false
		for i, rec := range records {
			cell, ok := rec.values[name]
			if !ok {
				cell = nil
			}
			cells[i] = cell
			if cell == nil {
				continue
			}
			ck := core.KindOf(cell)
			switch ck {
			case core.KindInt:
				hasInt = true
			case core.KindFloat:
				hasFloat = true
			}
			if kind == core.KindNull {
				kind = ck
			} else if kind != ck {
				mixed = true
			}
		}

		switch {
		case mixed && hasInt && hasFloat && !hasOtherKinds(cells):
			// numeric column with mixed widths: promote to float
			kind = core.KindFloat
			for i, cell := range cells {
				if iv, ok := cell.(int64); ok {
					cells[i] = float64(iv)
				}
			}
		case mixed:
			kind = core.KindString
		}

		if err := ds.AddColumn(name, kind, cells); err != nil {
			return nil, &JSONReaderError{Op: "build_dataset", Err: err}
		}
	}
	return ds, nil
}

// hasOtherKinds reports whether any non-null cell is neither int nor float.
func hasOtherKinds(cells []interface{}) bool {
	for _, cell := range cells {
		if cell == nil {
			continue
		}
		switch core.KindOf(cell) {
		case core.KindInt, core.KindFloat:
		default:
			return true
		}
	}
	return false
}
