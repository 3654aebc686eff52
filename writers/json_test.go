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
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/tabular/core"
)

func TestJSONWriter_Records(t *testing.T) {
	ds := newWriterDataset(t)
	var out strings.Builder

	writer, err := NewJSONWriter(&out)
	require.NoError(t, err)
	require.NoError(t, writer.WriteAll(context.Background(), ds))

	// keys stay in column order and nulls are literal
	assert.Equal(t,
		`[{"id":1,"name":"alice","score":9.5},{"id":2,"name":null,"score":8}]`,
		out.String())
}

func TestJSONWriter_Indented(t *testing.T) {
	ds := core.NewDataset()
	require.NoError(t, ds.AddColumn("a", core.KindInt, []interface{}{int64(1)}))

	var out strings.Builder
	writer, err := NewJSONWriter(&out, WithJSONWriterIndent(2))
	require.NoError(t, err)
	require.NoError(t, writer.WriteAll(context.Background(), ds))

	assert.Equal(t, "[\n  {\n    \"a\": 1\n  }\n]", out.String())
}

func TestJSONWriter_Lines(t *testing.T) {
	ds := newWriterDataset(t)
	var out strings.Builder

	writer, err := NewJSONWriter(&out, WithJSONWriterLines(true))
	require.NoError(t, err)
	require.NoError(t, writer.WriteAll(context.Background(), ds))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"id":1,"name":"alice","score":9.5}`, lines[0])
	assert.Equal(t, `{"id":2,"name":null,"score":8}`, lines[1])
}

func TestJSONWriter_ColumnsOrient(t *testing.T) {
	ds := core.NewDataset()
	require.NoError(t, ds.AddColumn("a", core.KindInt, []interface{}{int64(1), int64(2)}))
	require.NoError(t, ds.AddColumn("b", core.KindString, []interface{}{"x", nil}))

	var out strings.Builder
	writer, err := NewJSONWriter(&out, WithJSONWriterOrient("columns"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteAll(context.Background(), ds))

	assert.Equal(t, `{"a":{"0":1,"1":2},"b":{"0":"x","1":null}}`, out.String())
}

func TestJSONWriter_ColumnSubset(t *testing.T) {
	ds := newWriterDataset(t)
	var out strings.Builder

	writer, err := NewJSONWriter(&out, WithJSONWriterColumns([]string{"score", "id", "ghost"}))
	require.NoError(t, err)
	require.NoError(t, writer.WriteAll(context.Background(), ds))

	assert.Equal(t,
		`[{"score":9.5,"id":1},{"score":8,"id":2}]`,
		out.String())
}

func TestJSONWriter_TimestampsAsRFC3339(t *testing.T) {
	ds := core.NewDataset()
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	require.NoError(t, ds.AddColumn("when", core.KindTime, []interface{}{ts}))

	var out strings.Builder
	writer, err := NewJSONWriter(&out)
	require.NoError(t, err)
	require.NoError(t, writer.WriteAll(context.Background(), ds))

	assert.Equal(t, `[{"when":"2024-03-15T10:30:00Z"}]`, out.String())
}

func TestJSONWriter_SpecialCharactersEscaped(t *testing.T) {
	ds := core.NewDataset()
	require.NoError(t, ds.AddColumn(`we"ird`, core.KindString, []interface{}{"line\nbreak"}))

	var out strings.Builder
	writer, err := NewJSONWriter(&out)
	require.NoError(t, err)
	require.NoError(t, writer.WriteAll(context.Background(), ds))

	// output must stay valid JSON under hostile names and values
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &decoded))
	assert.Equal(t, "line\nbreak", decoded[0][`we"ird`])
}

func TestJSONWriter_EmptyDataset(t *testing.T) {
	ds := core.NewDataset()
	var out strings.Builder

	writer, err := NewJSONWriter(&out)
	require.NoError(t, err)
	require.NoError(t, writer.WriteAll(context.Background(), ds))

	assert.Equal(t, "[]", out.String())
}

func TestJSONWriter_RejectsBadOptions(t *testing.T) {
	var out strings.Builder

	_, err := NewJSONWriter(&out, WithJSONWriterOrient("table"))
	require.Error(t, err)

	_, err = NewJSONWriter(&out, WithJSONWriterOrient("columns"), WithJSONWriterLines(true))
	require.Error(t, err)
}
