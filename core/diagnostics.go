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
	"fmt"

	"github.com/aaronlmathis/tabular/logger"
)

// Warning records a recoverable fault: an entry that was skipped
// without aborting its stage.
type Warning struct {
	Stage   string
	Message string
}

// Diagnostics collects the warnings of one pipeline run. Stages record
// recoverable faults here instead of relying on global logger state, so
// callers and tests can inspect exactly what was skipped.
type Diagnostics struct {
	warnings []Warning
}

// NewDiagnostics creates an empty diagnostics sink.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Warnf records a warning for a stage and logs it.
func (d *Diagnostics) Warnf(stage, format string, args ...interface{}) {
	w := Warning{Stage: stage, Message: fmt.Sprintf(format, args...)}
	d.warnings = append(d.warnings, w)
	logger.Warn(w.Message, "stage", w.Stage)
}

// Warnings returns the recorded warnings in order.
func (d *Diagnostics) Warnings() []Warning {
	return d.warnings
}

// Len returns the number of recorded warnings.
func (d *Diagnostics) Len() int {
	return len(d.warnings)
}
