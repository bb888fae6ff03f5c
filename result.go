package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import (
	"iter"
	"log"
	"runtime"
	"sync/atomic"
)

// Result owns a materialized query result. Column metadata is captured
// eagerly; rows are decoded chunk by chunk on demand. Every decoded
// Value is fully owned, so rows outlive the Result.
type Result struct {
	res    C.duckdb_result
	names  []string
	types  []Type
	chunk  *chunkCursor
	next   C.idx_t
	closed int32
}

// chunkCursor tracks the chunk currently being walked.
type chunkCursor struct {
	chunk C.duckdb_data_chunk
	vecs  []C.duckdb_vector
	size  C.idx_t
	row   C.idx_t
}

func newResult(res C.duckdb_result) (*Result, error) {
	cols := uint64(C.duckdb_column_count(&res))
	r := &Result{
		res:   res,
		names: make([]string, cols),
		types: make([]Type, cols),
	}
	for i := uint64(0); i < cols; i++ {
		// A null name for an in-range column means the result cannot be
		// trusted; the index is surfaced rather than an empty string.
		name := C.duckdb_column_name(&r.res, C.idx_t(i))
		if name == nil {
			C.duckdb_destroy_result(&r.res)
			return nil, &ColumnIndexError{Index: int(i)}
		}
		r.names[i] = goString(name)
		r.types[i] = Type(C.duckdb_column_type(&r.res, C.idx_t(i)))
	}
	runtime.SetFinalizer(r, (*Result).finalize)
	return r, nil
}

// ColumnCount reports the number of columns.
func (r *Result) ColumnCount() uint64 { return uint64(len(r.names)) }

// ColumnName reports the name of column i.
func (r *Result) ColumnName(i uint64) string { return r.names[i] }

// ColumnType reports the type tag of column i.
func (r *Result) ColumnType(i uint64) Type { return r.types[i] }

// Changes reports the number of rows changed by the statement that
// produced the result.
func (r *Result) Changes() uint64 {
	return uint64(C.duckdb_rows_changed(&r.res))
}

// Next decodes and returns the next row, or nil when the result is
// exhausted. Chunk boundaries are crossed in a loop so empty chunks are
// skipped without recursion.
func (r *Result) Next() (*Row, error) {
	if atomic.LoadInt32(&r.closed) != 0 {
		return nil, ErrClosed
	}
	for {
		if r.chunk == nil {
			if r.next >= C.duckdb_result_chunk_count(r.res) {
				return nil, nil
			}
			chunk := C.duckdb_result_get_chunk(r.res, r.next)
			r.next++
			cols := int(C.duckdb_data_chunk_get_column_count(chunk))
			vecs := make([]C.duckdb_vector, cols)
			for i := range vecs {
				vecs[i] = C.duckdb_data_chunk_get_vector(chunk, C.idx_t(i))
			}
			r.chunk = &chunkCursor{
				chunk: chunk,
				vecs:  vecs,
				size:  C.duckdb_data_chunk_get_size(chunk),
			}
		}
		if r.chunk.row < r.chunk.size {
			row, err := r.decodeRow(r.chunk)
			r.chunk.row++
			return row, err
		}
		C.duckdb_destroy_data_chunk(&r.chunk.chunk)
		r.chunk = nil
	}
}

func (r *Result) decodeRow(c *chunkCursor) (*Row, error) {
	values := make([]Value, len(c.vecs))
	for i, vec := range c.vecs {
		v, err := decodeVector(vec, c.row)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return &Row{names: r.names, values: values}, nil
}

// Rows iterates over the remaining rows. Iteration stops after the
// first decode error; the error is yielded with a nil row.
func (r *Result) Rows() iter.Seq2[*Row, error] {
	return func(yield func(*Row, error) bool) {
		for {
			row, err := r.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if row == nil {
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Close destroys the result and any chunk in flight. Closing twice is a
// no-op.
func (r *Result) Close() error {
	if !atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		return nil
	}
	runtime.SetFinalizer(r, nil)
	if r.chunk != nil {
		C.duckdb_destroy_data_chunk(&r.chunk.chunk)
		r.chunk = nil
	}
	C.duckdb_destroy_result(&r.res)
	return nil
}

func (r *Result) finalize() {
	if atomic.LoadInt32(&r.closed) != 0 {
		return
	}
	log.Printf("quack: result finalized without Close")
	r.Close()
}

// Row is one fully owned decoded row.
type Row struct {
	names  []string
	values []Value
}

// Len reports the number of columns.
func (r *Row) Len() int { return len(r.values) }

// Values returns the row's values as a RowValues, ready to append to a
// table or bind to a statement.
func (r *Row) Values() RowValues { return RowValues(r.values) }

// Value returns the value of column i.
func (r *Row) Value(i int) Value { return r.values[i] }

// Get looks a column up by name. Column counts are small, so the scan
// is linear.
func (r *Row) Get(name string) (Value, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return Value{}, false
}

// MustGet is Get for callers that treat a missing column as fatal.
func (r *Row) MustGet(name string) Value {
	v, ok := r.Get(name)
	if !ok {
		panic("quack: no column named " + name)
	}
	return v
}
