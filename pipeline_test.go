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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/template"
)

func newPipelineDataset(t *testing.T) *core.Dataset {
	t.Helper()
	ds := core.NewDataset()
	require.NoError(t, ds.AddColumn("user_id", core.KindString, []interface{}{"10", "20", "30", "40"}))
	require.NoError(t, ds.AddColumn("first_name", core.KindString, []interface{}{"Ada", "Grace", "Alan", "Edsger"}))
	require.NoError(t, ds.AddColumn("last_name", core.KindString, []interface{}{"Lovelace", "Hopper", "Turing", "Dijkstra"}))
	require.NoError(t, ds.AddColumn("score", core.KindInt, []interface{}{int64(1), int64(3), int64(4), int64(6)}))
	return ds
}

func TestTransform_NoTransformationsIsIdentity(t *testing.T) {
	ds := newPipelineDataset(t)

	result := Transform(ds, nil)

	require.NotNil(t, result.Dataset)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, ds.Names(), result.Dataset.Names())
	assert.Equal(t, ds.NumRows(), result.Dataset.NumRows())
	for _, name := range ds.Names() {
		want, _ := ds.Column(name)
		got, _ := result.Dataset.Column(name)
		assert.Equal(t, want.Cells, got.Cells)
	}
}

func TestTransform_InputNeverMutated(t *testing.T) {
	ds := newPipelineDataset(t)

	Transform(ds, &template.Transformations{
		Filters:         []template.FilterEntry{{Column: "score", Condition: ">", Value: 3}},
		TypeConversions: map[string]string{"user_id": "int"},
	})

	assert.Equal(t, 4, ds.NumRows())
	col, _ := ds.Column("user_id")
	assert.Equal(t, core.KindString, col.Kind)
	assert.Equal(t, "10", col.Cells[0])
}

func TestTransform_StageOrder(t *testing.T) {
	ds := newPipelineDataset(t)

	// mapping renames score to points, so the later stages must address
	// the new name; filtering runs before synthesis, so the concat only
	// sees surviving rows.
	result := Transform(ds, &template.Transformations{
		ColumnMappings: []template.ColumnMapping{
			{From: "first_name", To: "first"},
			{From: "last_name", To: "last"},
			{From: "score", To: "points"},
		},
		Filters: []template.FilterEntry{
			{Column: "points", Condition: ">", Value: 2},
			{Column: "points", Condition: "<", Value: 5},
		},
		NewColumns: []template.NewColumnSpec{
			{Name: "full_name", Operation: "concat", Sources: []string{"first", "last"}, Separator: " "},
		},
		TypeConversions: map[string]string{"points": "str"},
	})

	out := result.Dataset
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{"first", "last", "points", "full_name"}, out.Names())
	assert.Equal(t, 2, out.NumRows())

	full, _ := out.Column("full_name")
	assert.Equal(t, []interface{}{"Grace Hopper", "Alan Turing"}, full.Cells)

	points, _ := out.Column("points")
	assert.Equal(t, core.KindString, points.Kind)
	assert.Equal(t, []interface{}{"3", "4"}, points.Cells)
}

func TestTransform_WarningsAccumulateAcrossStages(t *testing.T) {
	ds := newPipelineDataset(t)

	result := Transform(ds, &template.Transformations{
		Filters: []template.FilterEntry{
			{Column: "ghost", Condition: ">", Value: 1},
		},
		NewColumns: []template.NewColumnSpec{
			{Name: "x", Operation: "concat", Sources: []string{"missing"}},
		},
		TypeConversions: map[string]string{"nope": "int"},
	})

	require.Len(t, result.Warnings, 3)
	stages := make([]string, len(result.Warnings))
	for i, w := range result.Warnings {
		stages[i] = w.Stage
	}
	assert.Equal(t, []string{"filters", "new_columns", "data_type_conversions"}, stages)
	// recoverable faults never shrink the data
	assert.Equal(t, 4, result.Dataset.NumRows())
}

func TestTransform_EmptyDataset(t *testing.T) {
	ds := core.NewDataset()
	require.NoError(t, ds.AddColumn("a", core.KindInt, nil))

	result := Transform(ds, &template.Transformations{
		Filters: []template.FilterEntry{{Column: "a", Condition: ">", Value: 0}},
		NewColumns: []template.NewColumnSpec{
			{Name: "b", Operation: "default_value", Value: "x", HasValue: true},
		},
	})

	assert.Equal(t, 0, result.Dataset.NumRows())
	assert.True(t, result.Dataset.Has("b"))
	assert.Empty(t, result.Warnings)
}
