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
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/apache/arrow/go/v12/parquet/file"
	"github.com/apache/arrow/go/v12/parquet/pqarrow"

	"github.com/aaronlmathis/tabular/core"
	"github.com/aaronlmathis/tabular/logger"
)

// ParquetReaderError wraps structured error information for the
// Parquet reader.
type ParquetReaderError struct {
	Op  string
	Err error
}

func (e *ParquetReaderError) Error() string {
	return fmt.Sprintf("parquet reader %s: %v", e.Op, e.Err)
}

func (e *ParquetReaderError) Unwrap() error {
	return e.Err
}

// ReadParquet reads a whole Parquet stream into a dataset. Parquet
// needs random access, so the stream is buffered in memory first.
func ReadParquet(ctx context.Context, r io.Reader) (*core.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParquetReaderError{Op: "buffer", Err: err}
	}

	pf, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParquetReaderError{Op: "open", Err: err}
	}
	defer pf.Close()

	allocator := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, allocator)
	if err != nil {
		return nil, &ParquetReaderError{Op: "create_arrow_reader", Err: err}
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, &ParquetReaderError{Op: "read_table", Err: err}
	}
	defer table.Release()

	ds := core.NewDataset()
	schema := table.Schema()
	for i := 0; i < int(table.NumCols()); i++ {
		field := schema.Field(i)
		kind := kindOfArrowType(field.Type)
		cells := make([]interface{}, 0, int(table.NumRows()))
		chunks := table.Column(i).Data().Chunks()
		for _, chunk := range chunks {
			appendChunk(&cells, chunk, field.Name)
		}
		if err := ds.AddColumn(field.Name, kind, cells); err != nil {
			return nil, &ParquetReaderError{Op: "build_dataset", Err: err}
		}
	}
	return ds, nil
}

func kindOfArrowType(t arrow.DataType) core.Kind {
	switch t.ID() {
	case arrow.BOOL:
		return core.KindBool
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return core.KindInt
	case arrow.FLOAT32, arrow.FLOAT64:
		return core.KindFloat
	case arrow.STRING, arrow.LARGE_STRING:
		return core.KindString
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return core.KindTime
	default:
		return core.KindString
	}
}

// appendChunk converts one Arrow array chunk to cells.
func appendChunk(cells *[]interface{}, col arrow.Array, name string) {
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			*cells = append(*cells, nil)
			continue
		}
		switch arr := col.(type) {
		case *array.Boolean:
			*cells = append(*cells, arr.Value(i))
		case *array.Int8:
			*cells = append(*cells, int64(arr.Value(i)))
		case *array.Int16:
			*cells = append(*cells, int64(arr.Value(i)))
		case *array.Int32:
			*cells = append(*cells, int64(arr.Value(i)))
		case *array.Int64:
			*cells = append(*cells, arr.Value(i))
		case *array.Uint8:
			*cells = append(*cells, int64(arr.Value(i)))
		case *array.Uint16:
			*cells = append(*cells, int64(arr.Value(i)))
		case *array.Uint32:
			*cells = append(*cells, int64(arr.Value(i)))
		case *array.Uint64:
			*cells = append(*cells, int64(arr.Value(i)))
		case *array.Float32:
			*cells = append(*cells, float64(arr.Value(i)))
		case *array.Float64:
			*cells = append(*cells, arr.Value(i))
		case *array.String:
			*cells = append(*cells, arr.Value(i))
		case *array.Timestamp:
			ts := arr.DataType().(*arrow.TimestampType)
			*cells = append(*cells, arr.Value(i).ToTime(ts.Unit))
		case *array.Date32:
			*cells = append(*cells, arr.Value(i).ToTime())
		case *array.Date64:
			*cells = append(*cells, arr.Value(i).ToTime())
		default:
			logger.Warn("unsupported parquet column type; cell read as null",
				"column", name, "type", col.DataType().Name())
			*cells = append(*cells, nil)
		}
	}
}
