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
)

// Column is a named, ordered sequence of cells with a declared kind.
// Individual cells may be nil regardless of the declared kind.
type Column struct {
	Name  string
	Kind  Kind
	Cells []interface{}
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	return len(c.Cells)
}

func (c *Column) clone() *Column {
	cells := make([]interface{}, len(c.Cells))
	copy(cells, c.Cells)
	return &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
}

// Dataset is an ordered collection of equal-length named columns.
// Column order is insertion order and defines write order; row order is
// never disturbed by column operations.
type Dataset struct {
	columns []*Column
	index   map[string]int
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// NumRows returns the row count (the length of every column).
func (d *Dataset) NumRows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Cells)
}

// NumCols returns the number of columns.
func (d *Dataset) NumCols() int {
	return len(d.columns)
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column with the given name exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the named column.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// Columns returns the columns in order. The slice is shared; callers
// must not reorder it.
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// AddColumn appends a new column. It fails on a duplicate name or a
// cell count that disagrees with the current row count.
func (d *Dataset) AddColumn(name string, kind Kind, cells []interface{}) error {
	if _, ok := d.index[name]; ok {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(d.columns) > 0 && len(cells) != d.NumRows() {
		return fmt.Errorf("column %q has %d cells, dataset has %d rows", name, len(cells), d.NumRows())
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, &Column{Name: name, Kind: kind, Cells: cells})
	return nil
}

// SetColumn overwrites an existing column in place (keeping its
// position) or appends a new one.
func (d *Dataset) SetColumn(name string, kind Kind, cells []interface{}) error {
	if i, ok := d.index[name]; ok {
		if len(d.columns) > 1 && len(cells) != d.NumRows() {
			return fmt.Errorf("column %q has %d cells, dataset has %d rows", name, len(cells), d.NumRows())
		}
		d.columns[i] = &Column{Name: name, Kind: kind, Cells: cells}
		return nil
	}
	return d.AddColumn(name, kind, cells)
}

// Retain keeps only the rows at the given indices, in the given order,
// across every column. Indices must be valid and ascending to preserve
// the original row order.
func (d *Dataset) Retain(rows []int) {
	for _, c := range d.columns {
		kept := make([]interface{}, len(rows))
		for i, r := range rows {
			kept[i] = c.Cells[r]
		}
		c.Cells = kept
	}
}

// Row materializes one row as a name→value map, used as the evaluation
// environment for expressions.
func (d *Dataset) Row(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(d.columns))
	for _, c := range d.columns {
		row[c.Name] = c.Cells[i]
	}
	return row
}

// Clone returns a deep copy of the dataset. Stages mutate their own
// working copy, so a run never observes partial changes to its input.
func (d *Dataset) Clone() *Dataset {
	out := NewDataset()
	for _, c := range d.columns {
		cc := c.clone()
		out.index[cc.Name] = len(out.columns)
		out.columns = append(out.columns, cc)
	}
	return out
}
