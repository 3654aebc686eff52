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

// Package writers serializes core datasets to output files. Each writer
// takes a whole dataset and produces one file; the supported file types
// are csv, json, and parquet.
package writers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/location"
	"github.com/aaronlmathis/tabular/logger"
	"github.com/aaronlmathis/tabular/template"
)

// Write creates the output path and dispatches on the configured file
// type.
func Write(ctx context.Context, ds *core.Dataset, path string, opts *template.IOOptions) error {
	if opts == nil || opts.FileType == "" {
		return fmt.Errorf("output file_type must be specified in the template")
	}

	w, err := location.Create(ctx, path)
	if err != nil {
		return err
	}

	var writeErr error
	switch strings.ToLower(opts.FileType) {
	case "csv":
		writer, err := NewCSVWriter(w,
			WithCSVWriterComma(opts.Comma()),
			WithCSVWriterEncoding(opts.Encoding),
			WithCSVWriterHeader(opts.WriteHeader()),
			WithCSVWriterIndex(opts.IncludeIndex),
			WithCSVWriterColumns(opts.Columns),
		)
		if err != nil {
			writeErr = err
			break
		}
		writeErr = writer.WriteAll(ctx, ds)

	case "json":
		writer, err := NewJSONWriter(w,
			WithJSONWriterOrient(opts.Orient),
			WithJSONWriterLines(opts.Lines),
			WithJSONWriterIndent(opts.Indent),
			WithJSONWriterColumns(opts.Columns),
		)
		if err != nil {
			writeErr = err
			break
		}
		writeErr = writer.WriteAll(ctx, ds)

	case "parquet":
		writeErr = WriteParquet(ctx, w, ds)

	default:
		writeErr = fmt.Errorf("unsupported output file type %q (supported: csv, json, parquet)", opts.FileType)
	}

	closeErr := w.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// selectColumns resolves a requested column subset against the dataset.
// Missing names are skipped with a warning; an empty request selects
// every column.
func selectColumns(ds *core.Dataset, requested []string) []*core.Column {
	if len(requested) == 0 {
		return ds.Columns()
	}
	cols := make([]*core.Column, 0, len(requested))
	for _, name := range requested {
		col, ok := ds.Column(name)
		if !ok {
			logger.Warn("requested output column not in dataset; skipping", "column", name)
			continue
		}
		cols = append(cols, col)
	}
	return cols
}

// encodeWriter wraps a writer with a charset encoder when a non-UTF-8
// encoding is requested. Encoding names follow the IANA registry.
func encodeWriter(w io.Writer, name string) (io.Writer, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return w, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}
