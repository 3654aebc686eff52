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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDataset(t *testing.T) *Dataset {
	t.Helper()
	ds := NewDataset()
	require.NoError(t, ds.AddColumn("id", KindInt, []interface{}{int64(1), int64(2), int64(3)}))
	require.NoError(t, ds.AddColumn("name", KindString, []interface{}{"alice", "bob", "carol"}))
	return ds
}

func TestDataset_AddColumn(t *testing.T) {
	ds := newTestDataset(t)

	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, 2, ds.NumCols())
	assert.Equal(t, []string{"id", "name"}, ds.Names())
	assert.True(t, ds.Has("id"))
	assert.False(t, ds.Has("missing"))
}

func TestDataset_AddColumn_DuplicateName(t *testing.T) {
	ds := newTestDataset(t)

	err := ds.AddColumn("id", KindInt, []interface{}{int64(9), int64(9), int64(9)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestDataset_AddColumn_LengthMismatch(t *testing.T) {
	ds := newTestDataset(t)

	err := ds.AddColumn("extra", KindInt, []interface{}{int64(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows")
}

func TestDataset_SetColumn_OverwriteKeepsPosition(t *testing.T) {
	ds := newTestDataset(t)

	require.NoError(t, ds.SetColumn("id", KindString, []interface{}{"1", "2", "3"}))

	assert.Equal(t, []string{"id", "name"}, ds.Names())
	col, ok := ds.Column("id")
	require.True(t, ok)
	assert.Equal(t, KindString, col.Kind)
	assert.Equal(t, "1", col.Cells[0])
}

func TestDataset_SetColumn_AppendsNew(t *testing.T) {
	ds := newTestDataset(t)

	require.NoError(t, ds.SetColumn("age", KindInt, []interface{}{int64(30), int64(40), int64(50)}))
	assert.Equal(t, []string{"id", "name", "age"}, ds.Names())
}

func TestDataset_Retain(t *testing.T) {
	ds := newTestDataset(t)

	ds.Retain([]int{0, 2})

	assert.Equal(t, 2, ds.NumRows())
	col, _ := ds.Column("name")
	assert.Equal(t, []interface{}{"alice", "carol"}, col.Cells)
}

func TestDataset_Retain_Empty(t *testing.T) {
	ds := newTestDataset(t)

	ds.Retain(nil)

	assert.Equal(t, 0, ds.NumRows())
	assert.Equal(t, 2, ds.NumCols())
}

func TestDataset_Row(t *testing.T) {
	ds := newTestDataset(t)

	row := ds.Row(1)
	assert.Equal(t, map[string]interface{}{"id": int64(2), "name": "bob"}, row)
}

func TestDataset_Clone_Independent(t *testing.T) {
	ds := newTestDataset(t)

	clone := ds.Clone()
	clone.Retain([]int{0})
	col, _ := clone.Column("name")
	col.Cells[0] = "mutated"

	assert.Equal(t, 3, ds.NumRows())
	orig, _ := ds.Column("name")
	assert.Equal(t, "alice", orig.Cells[0])
}

func TestDataset_Empty(t *testing.T) {
	ds := NewDataset()
	assert.Equal(t, 0, ds.NumRows())
	assert.Equal(t, 0, ds.NumCols())
	assert.Empty(t, ds.Names())
}
