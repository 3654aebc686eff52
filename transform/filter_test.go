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

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/template"
)

func newFilterDataset(t *testing.T) *core.Dataset {
	t.Helper()
	ds := core.NewDataset()
	require.NoError(t, ds.AddColumn("n", core.KindInt, []interface{}{
		int64(1), int64(2), int64(3), int64(4), int64(5), int64(6),
	}))
	require.NoError(t, ds.AddColumn("city", core.KindString, []interface{}{
		"Berlin", "Boston", "Paris", "Brasilia", nil, "Lima",
	}))
	return ds
}

func intCells(ds *core.Dataset, name string) []interface{} {
	col, _ := ds.Column(name)
	return col.Cells
}

func TestFilterRows_Conjunction(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "n", Condition: ">", Value: 2},
		{Column: "n", Condition: "<", Value: 5},
	}, diag)

	assert.Equal(t, []interface{}{int64(3), int64(4)}, intCells(out, "n"))
	assert.Zero(t, diag.Len())
}

func TestFilterRows_OrdinalBounds(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "n", Condition: ">=", Value: 5},
	}, diag)

	assert.Equal(t, []interface{}{int64(5), int64(6)}, intCells(out, "n"))
}

func TestFilterRows_Equality(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "==", Value: "Paris"},
	}, diag)

	assert.Equal(t, 1, out.NumRows())
	assert.Equal(t, []interface{}{int64(3)}, intCells(out, "n"))
}

func TestFilterRows_NotEqualKeepsNulls(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "!=", Value: "Paris"},
	}, diag)

	// the null city row survives: null is never equal to anything
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(4), int64(5), int64(6)}, intCells(out, "n"))
}

func TestFilterRows_NullFailsOrdinals(t *testing.T) {
	ds := core.NewDataset()
	require.NoError(t, ds.AddColumn("v", core.KindInt, []interface{}{int64(10), nil, int64(30)}))
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "v", Condition: ">", Value: 0},
	}, diag)

	assert.Equal(t, []interface{}{int64(10), int64(30)}, intCells(out, "v"))
}

func TestFilterRows_Membership(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "isin", Value: []interface{}{"Berlin", "Lima"}},
	}, diag)
	assert.Equal(t, []interface{}{int64(1), int64(6)}, intCells(out, "n"))

	ds = newFilterDataset(t)
	out = FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "notin", Value: []interface{}{"Berlin", "Lima"}},
	}, diag)
	// null is not a member of anything, so notin keeps it
	assert.Equal(t, []interface{}{int64(2), int64(3), int64(4), int64(5)}, intCells(out, "n"))
}

func TestFilterRows_MembershipRequiresList(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "isin", Value: "Berlin"},
	}, diag)

	assert.Equal(t, 6, out.NumRows())
	require.Equal(t, 1, diag.Len())
	assert.Contains(t, diag.Warnings()[0].Message, "list")
}

func TestFilterRows_Nullness(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "isnull"},
	}, diag)
	assert.Equal(t, []interface{}{int64(5)}, intCells(out, "n"))

	ds = newFilterDataset(t)
	out = FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "notnull"},
	}, diag)
	assert.Equal(t, 5, out.NumRows())
}

func TestFilterRows_StringPredicates(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "startswith", Value: "B"},
	}, diag)
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(4)}, intCells(out, "n"))

	ds = newFilterDataset(t)
	out = FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "contains", Value: "on"},
	}, diag)
	assert.Equal(t, []interface{}{int64(2)}, intCells(out, "n"))

	ds = newFilterDataset(t)
	out = FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: "endswith", Value: "a"},
	}, diag)
	assert.Equal(t, []interface{}{int64(4), int64(6)}, intCells(out, "n"))
}

func TestFilterRows_UnknownColumnAndCondition(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "ghost", Condition: ">", Value: 1},
		{Column: "n", Condition: "between", Value: 1},
		{Column: "n", Condition: "<", Value: 3},
	}, diag)

	// bad entries are skipped, the good one still applies
	assert.Equal(t, []interface{}{int64(1), int64(2)}, intCells(out, "n"))
	assert.Equal(t, 2, diag.Len())
}

func TestFilterRows_IncomparableValueSkipsEntry(t *testing.T) {
	ds := newFilterDataset(t)
	diag := core.NewDiagnostics()

	out := FilterRows(ds, []template.FilterEntry{
		{Column: "city", Condition: ">", Value: 10},
	}, diag)

	assert.Equal(t, 6, out.NumRows())
	assert.Equal(t, 1, diag.Len())
}
