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

package tabular

import (
	"context"
	"fmt"

	"github.com/aaronlmathis/tabular/location"
	"github.com/aaronlmathis/tabular/logger"
	"github.com/aaronlmathis/tabular/readers"
	"github.com/aaronlmathis/tabular/template"
	"github.com/aaronlmathis/tabular/writers"
)

// ConvertOptions names the three paths of a conversion run.
type ConvertOptions struct {
	TemplatePath string
	InputPath    string
	OutputPath   string
}

// Convert runs one end-to-end conversion: load the template, read the
// input dataset, transform it, write the output. The output's parent
// directory is created when writing to the local filesystem. Any error
// returned here is fatal; recoverable per-entry faults surface as
// warnings on the Result.
func Convert(ctx context.Context, opts ConvertOptions) (*Result, error) {
	tpl, err := template.Load(opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	logger.Info("template loaded", "path", opts.TemplatePath)

	ds, err := readers.Read(ctx, opts.InputPath, tpl.Input)
	if err != nil {
		return nil, fmt.Errorf("read %s input %s: %w", tpl.Input.FileType, opts.InputPath, err)
	}
	logger.Info("input read", "path", opts.InputPath, "rows", ds.NumRows(), "cols", ds.NumCols())
	if ds.NumRows() == 0 {
		logger.Warn("input dataset is empty; subsequent stages may produce empty output")
	}

	result := Transform(ds, tpl.Transformations)
	logger.Info("transformations applied",
		"rows", result.Dataset.NumRows(),
		"cols", result.Dataset.NumCols(),
		"warnings", len(result.Warnings))

	if err := location.EnsureParent(opts.OutputPath); err != nil {
		return result, fmt.Errorf("create output directory for %s: %w", opts.OutputPath, err)
	}
	if err := writers.Write(ctx, result.Dataset, opts.OutputPath, tpl.Output); err != nil {
		return result, fmt.Errorf("write %s output %s: %w", tpl.Output.FileType, opts.OutputPath, err)
	}
	logger.Info("output written", "path", opts.OutputPath)

	return result, nil
}
