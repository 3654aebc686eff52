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
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/location"
	"github.com/aaronlmathis/tabular/template"
)

// Package readers turns input files into core datasets. Each reader
// consumes its whole input and produces one dataset; the supported
// file types are csv, json, and parquet.

// Read opens the input path and dispatches on the configured file type.
func Read(ctx context.Context, path string, opts *template.IOOptions) (*core.Dataset, error) {
	if opts == nil || opts.FileType == "" {
		return nil, fmt.Errorf("input file_type must be specified in the template")
	}

	switch strings.ToLower(opts.FileType) {
	case "csv":
		r, err := location.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		reader, err := NewCSVReader(r,
			WithCSVComma(opts.Comma()),
			WithCSVEncoding(opts.Encoding),
			WithCSVSkipRows(opts.SkipHeader),
			WithCSVHasHeader(opts.HeaderPresent()),
			WithCSVColumns(opts.Columns),
			WithCSVColumnValidation(opts.ValidateColumns),
		)
		if err != nil {
			return nil, err
		}
		return reader.ReadAll(ctx)

	case "json":
		r, err := location.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		reader, err := NewJSONReader(r,
			WithJSONOrient(opts.Orient),
			WithJSONLines(opts.Lines),
			WithJSONEncoding(opts.Encoding),
		)
		if err != nil {
			return nil, err
		}
		return reader.ReadAll(ctx)

	case "parquet":
		r, err := location.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return ReadParquet(ctx, r)

	default:
		return nil, fmt.Errorf("unsupported input file type %q (supported: csv, json, parquet)", opts.FileType)
	}
}

// decodeReader wraps a reader with a charset decoder when a non-UTF-8
// encoding is requested. Encoding names follow the IANA registry.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
