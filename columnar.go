package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import (
	"sync/atomic"
	"unsafe"
)

// Columnar extraction pulls a whole column out of a materialized result
// as a flat slice plus a null mask, walking the result's chunks
// independently of the row cursor. Fixed-width columns go through the
// acceleration library when it is loaded; otherwise they are copied
// element by element.

// RowCount reports the total number of rows in the result.
func (r *Result) RowCount() uint64 {
	return uint64(C.duckdb_row_count(&r.res))
}

func (r *Result) checkColumn(col uint64, want ...Type) error {
	if atomic.LoadInt32(&r.closed) != 0 {
		return ErrClosed
	}
	if col >= uint64(len(r.types)) {
		return &ColumnIndexError{Index: int(col)}
	}
	for _, t := range want {
		if r.types[col] == t {
			return nil
		}
	}
	return conversionErrorf("column %d is %s, not %s", col, r.types[col], want[0])
}

// forEachChunk walks every chunk of the result, handing the column's
// vector and row count to fn.
func (r *Result) forEachChunk(col uint64, fn func(vec C.duckdb_vector, n C.idx_t)) {
	count := C.duckdb_result_chunk_count(r.res)
	for i := C.idx_t(0); i < count; i++ {
		chunk := C.duckdb_result_get_chunk(r.res, i)
		vec := C.duckdb_data_chunk_get_vector(chunk, C.idx_t(col))
		fn(vec, C.duckdb_data_chunk_get_size(chunk))
		C.duckdb_destroy_data_chunk(&chunk)
	}
}

func extractFixedColumn[T any](r *Result, col uint64, want ...Type) ([]T, []bool, error) {
	if err := r.checkColumn(col, want...); err != nil {
		return nil, nil, err
	}

	total := r.RowCount()
	out := make([]T, total)
	nulls := make([]bool, total)
	var elem T
	elemSize := unsafe.Sizeof(elem)

	offset := uint64(0)
	r.forEachChunk(col, func(vec C.duckdb_vector, n C.idx_t) {
		if n == 0 {
			return
		}
		data := unsafe.Pointer(C.duckdb_vector_get_data(vec))
		validity := C.duckdb_vector_get_validity(vec)
		if accelExtractFixed(data, unsafe.Pointer(validity),
			unsafe.Pointer(&out[offset]), unsafe.Pointer(&nulls[offset]),
			elemSize, uintptr(n)) {
			offset += uint64(n)
			return
		}
		for row := C.idx_t(0); row < n; row++ {
			if !rowIsValid(validity, row) {
				nulls[offset] = true
				offset++
				continue
			}
			out[offset] = readAt[T](data, row)
			offset++
		}
	})
	return out, nulls, nil
}

// Int32Column extracts an INTEGER column.
func (r *Result) Int32Column(col uint64) ([]int32, []bool, error) {
	return extractFixedColumn[int32](r, col, TypeInteger)
}

// Int64Column extracts a BIGINT column.
func (r *Result) Int64Column(col uint64) ([]int64, []bool, error) {
	return extractFixedColumn[int64](r, col, TypeBigInt)
}

// Float32Column extracts a FLOAT column.
func (r *Result) Float32Column(col uint64) ([]float32, []bool, error) {
	return extractFixedColumn[float32](r, col, TypeFloat)
}

// Float64Column extracts a DOUBLE column.
func (r *Result) Float64Column(col uint64) ([]float64, []bool, error) {
	return extractFixedColumn[float64](r, col, TypeDouble)
}

// BoolColumn extracts a BOOLEAN column.
func (r *Result) BoolColumn(col uint64) ([]bool, []bool, error) {
	return extractFixedColumn[bool](r, col, TypeBoolean)
}

// TimestampColumn extracts a TIMESTAMP column as raw microseconds since
// the Unix epoch.
func (r *Result) TimestampColumn(col uint64) ([]int64, []bool, error) {
	return extractFixedColumn[int64](r, col, TypeTimestamp, TypeTimestampTZ)
}

// DateColumn extracts a DATE column as raw days since the Unix epoch.
func (r *Result) DateColumn(col uint64) ([]int32, []bool, error) {
	return extractFixedColumn[int32](r, col, TypeDate)
}

// NullMask extracts only the column's null mask, true marking a NULL
// row. It works for every column type.
func (r *Result) NullMask(col uint64) ([]bool, error) {
	if atomic.LoadInt32(&r.closed) != 0 {
		return nil, ErrClosed
	}
	if col >= uint64(len(r.types)) {
		return nil, &ColumnIndexError{Index: int(col)}
	}

	nulls := make([]bool, r.RowCount())
	offset := uint64(0)
	r.forEachChunk(col, func(vec C.duckdb_vector, n C.idx_t) {
		if n == 0 {
			return
		}
		validity := C.duckdb_vector_get_validity(vec)
		if validity != nil && accelExpandValidity(unsafe.Pointer(validity),
			unsafe.Pointer(&nulls[offset]), uintptr(n)) {
			offset += uint64(n)
			return
		}
		for row := C.idx_t(0); row < n; row++ {
			nulls[offset] = !rowIsValid(validity, row)
			offset++
		}
	})
	return nulls, nil
}

// StringColumn extracts a VARCHAR column. Payload bytes are copied, so
// the strings stay valid after the result is closed.
func (r *Result) StringColumn(col uint64) ([]string, []bool, error) {
	if err := r.checkColumn(col, TypeVarchar); err != nil {
		return nil, nil, err
	}

	total := r.RowCount()
	out := make([]string, total)
	nulls := make([]bool, total)

	offset := uint64(0)
	r.forEachChunk(col, func(vec C.duckdb_vector, n C.idx_t) {
		if n == 0 {
			return
		}
		data := unsafe.Pointer(C.duckdb_vector_get_data(vec))
		validity := C.duckdb_vector_get_validity(vec)

		ptrs := make([]*byte, n)
		lens := make([]int32, n)
		if accelExtractStringTs(data, unsafe.Pointer(validity),
			unsafe.Pointer(&ptrs[0]), unsafe.Pointer(&lens[0]),
			unsafe.Pointer(&nulls[offset]), uintptr(n)) {
			for row := C.idx_t(0); row < n; row++ {
				if !nulls[offset] && lens[row] > 0 {
					out[offset] = string(unsafe.Slice(ptrs[row], lens[row]))
				}
				offset++
			}
			return
		}
		for row := C.idx_t(0); row < n; row++ {
			if !rowIsValid(validity, row) {
				nulls[offset] = true
				offset++
				continue
			}
			out[offset] = string(decodeStringT(data, row))
			offset++
		}
	})
	return out, nulls, nil
}
