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
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/apache/arrow/go/v12/parquet"
	"github.com/apache/arrow/go/v12/parquet/compress"
	"github.com/apache/arrow/go/v12/parquet/pqarrow"

	"github.com/aaronlmathis/tabular/core"
)

// ParquetWriterError wraps structured error information for the
// Parquet writer.
type ParquetWriterError struct {
	Op  string
	Err error
}

func (e *ParquetWriterError) Error() string {
	return fmt.Sprintf("parquet writer %s: %v", e.Op, e.Err)
}

func (e *ParquetWriterError) Unwrap() error {
	return e.Err
}

// WriteParquet writes the dataset as a single Snappy-compressed Parquet
// row group. Every column is nullable; cells that do not match the
// column kind are written as null.
func WriteParquet(ctx context.Context, w io.Writer, ds *core.Dataset) error {
	select {
	case <-ctx.Done():
		return &ParquetWriterError{Op: "write", Err: ctx.Err()}
	default:
	}

	cols := ds.Columns()
	allocator := memory.NewGoAllocator()

	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		fields[i] = arrow.Field{Name: col.Name, Type: arrowTypeOfKind(col.Kind), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	arrays := make([]arrow.Array, len(cols))
	for i, col := range cols {
		arr, err := buildArray(allocator, col)
		if err != nil {
			return &ParquetWriterError{Op: "build_column", Err: err}
		}
		defer arr.Release()
		arrays[i] = arr
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	writer, err := pqarrow.NewFileWriter(schema, w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return &ParquetWriterError{Op: "create_writer", Err: err}
	}

	rec := array.NewRecord(schema, arrays, int64(ds.NumRows()))
	defer rec.Release()

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return &ParquetWriterError{Op: "write_record", Err: err}
	}
	if err := writer.Close(); err != nil {
		return &ParquetWriterError{Op: "close", Err: err}
	}
	return nil
}

// arrowTypeOfKind maps a column kind to its Arrow type. All-null
// columns come out as nullable strings.
func arrowTypeOfKind(k core.Kind) arrow.DataType {
	switch k {
	case core.KindInt:
		return arrow.PrimitiveTypes.Int64
	case core.KindFloat:
		return arrow.PrimitiveTypes.Float64
	case core.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case core.KindTime:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

func buildArray(allocator memory.Allocator, col *core.Column) (arrow.Array, error) {
	switch col.Kind {
	case core.KindInt:
		b := array.NewInt64Builder(allocator)
		defer b.Release()
		for _, cell := range col.Cells {
			if v, ok := cell.(int64); ok {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil

	case core.KindFloat:
		b := array.NewFloat64Builder(allocator)
		defer b.Release()
		for _, cell := range col.Cells {
			switch v := cell.(type) {
			case float64:
				b.Append(v)
			case int64:
				b.Append(float64(v))
			default:
				b.AppendNull()
			}
		}
		return b.NewArray(), nil

	case core.KindBool:
		b := array.NewBooleanBuilder(allocator)
		defer b.Release()
		for _, cell := range col.Cells {
			if v, ok := cell.(bool); ok {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil

	case core.KindTime:
		tsType, ok := arrow.FixedWidthTypes.Timestamp_us.(*arrow.TimestampType)
		if !ok {
			return nil, fmt.Errorf("unexpected timestamp type %T", arrow.FixedWidthTypes.Timestamp_us)
		}
		b := array.NewTimestampBuilder(allocator, tsType)
		defer b.Release()
		for _, cell := range col.Cells {
			if v, ok := cell.(time.Time); ok {
				b.Append(arrow.Timestamp(v.UnixMicro()))
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil

	default:
		b := array.NewStringBuilder(allocator)
		defer b.Release()
		for _, cell := range col.Cells {
			if cell == nil {
				b.AppendNull()
			} else {
				b.Append(core.Format(cell))
			}
		}
		return b.NewArray(), nil
	}
}
