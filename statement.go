package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import (
	"log"
	"math/big"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/shopspring/decimal"
)

// Statement is a prepared statement. Parameters are bound by 0-based
// index, either positionally with Bind or explicitly with BindAt.
// A Statement executes at most once per arming: Fetch after a
// successful Fetch returns ErrAlreadyExecuted until ResetResult.
type Statement struct {
	conn     *Connection
	stmt     C.duckdb_prepared_statement
	next     uint64
	executed bool
	closed   int32
}

// ParameterCount reports the number of parameters the statement expects.
func (s *Statement) ParameterCount() uint64 {
	return uint64(C.duckdb_nparams(s.stmt))
}

// Bind binds v at the next unbound index. Successive calls bind
// parameters left to right.
func (s *Statement) Bind(v any) error {
	if err := s.BindAt(s.next, v); err != nil {
		return err
	}
	s.next++
	return nil
}

// BindAt binds v at the given 0-based parameter index. The engine's
// parameter numbering starts at one; the offset is applied here.
func (s *Statement) BindAt(index uint64, v any) error {
	if atomic.LoadInt32(&s.closed) != 0 {
		return ErrClosed
	}
	idx := C.idx_t(index + 1)

	var rc C.duckdb_state
	switch val := v.(type) {
	case nil:
		rc = C.duckdb_bind_null(s.stmt, idx)
	case bool:
		rc = C.duckdb_bind_boolean(s.stmt, idx, C.bool(val))
	case int8:
		rc = C.duckdb_bind_int8(s.stmt, idx, C.int8_t(val))
	case int16:
		rc = C.duckdb_bind_int16(s.stmt, idx, C.int16_t(val))
	case int32:
		rc = C.duckdb_bind_int32(s.stmt, idx, C.int32_t(val))
	case int64:
		rc = C.duckdb_bind_int64(s.stmt, idx, C.int64_t(val))
	case int:
		rc = C.duckdb_bind_int64(s.stmt, idx, C.int64_t(val))
	case uint8:
		rc = C.duckdb_bind_uint8(s.stmt, idx, C.uint8_t(val))
	case uint16:
		rc = C.duckdb_bind_uint16(s.stmt, idx, C.uint16_t(val))
	case uint32:
		rc = C.duckdb_bind_uint32(s.stmt, idx, C.uint32_t(val))
	case uint64:
		rc = C.duckdb_bind_uint64(s.stmt, idx, C.uint64_t(val))
	case uint:
		rc = C.duckdb_bind_uint64(s.stmt, idx, C.uint64_t(val))
	case float32:
		rc = C.duckdb_bind_float(s.stmt, idx, C.float(val))
	case float64:
		rc = C.duckdb_bind_double(s.stmt, idx, C.double(val))
	case string:
		cs := cString(val)
		rc = C.duckdb_bind_varchar(s.stmt, idx, cs)
		freeString(cs)
	case []byte:
		if len(val) == 0 {
			rc = C.duckdb_bind_blob(s.stmt, idx, nil, 0)
		} else {
			rc = C.duckdb_bind_blob(s.stmt, idx, unsafe.Pointer(&val[0]), C.idx_t(len(val)))
		}
	case *big.Int:
		rc = C.duckdb_bind_hugeint(s.stmt, idx, encodeHugeInt(val))
	case time.Time:
		rc = C.duckdb_bind_timestamp(s.stmt, idx, C.duckdb_timestamp{micros: C.int64_t(timestampMicros(val))})
	case Interval:
		rc = C.duckdb_bind_interval(s.stmt, idx, C.duckdb_interval{
			months: C.int32_t(val.Months),
			days:   C.int32_t(val.Days),
			micros: C.int64_t(val.Micros),
		})
	case decimal.Decimal:
		// Bound as text; the engine casts to the parameter's type.
		cs := cString(val.String())
		rc = C.duckdb_bind_varchar(s.stmt, idx, cs)
		freeString(cs)
	case Value:
		return s.bindValue(idx, val)
	default:
		return conversionErrorf("cannot bind value of type %T", v)
	}
	if rc == C.DuckDBError {
		return engineError(rc, "bind error")
	}
	return nil
}

func (s *Statement) bindValue(idx C.idx_t, v Value) error {
	if v.IsNull() {
		if rc := C.duckdb_bind_null(s.stmt, idx); rc == C.DuckDBError {
			return engineError(rc, "bind error")
		}
		return nil
	}
	return s.BindAt(uint64(idx-1), v.Any())
}

// BindRow binds every value of the row in order, starting at the next
// unbound index.
func (s *Statement) BindRow(row RowValues) error {
	return row.bindTo(s)
}

// ClearBindings drops every bound parameter and resets the positional
// bind cursor.
func (s *Statement) ClearBindings() error {
	if atomic.LoadInt32(&s.closed) != 0 {
		return ErrClosed
	}
	if rc := C.duckdb_clear_bindings(s.stmt); rc == C.DuckDBError {
		return engineError(rc, "clear bindings error")
	}
	s.next = 0
	return nil
}

// Fetch executes the statement and returns its result. A Statement
// executes at most once; further calls return ErrAlreadyExecuted until
// ResetResult re-arms it.
func (s *Statement) Fetch() (*Result, error) {
	if atomic.LoadInt32(&s.closed) != 0 {
		return nil, ErrClosed
	}
	if s.executed {
		return nil, ErrAlreadyExecuted
	}

	var res C.duckdb_result
	if rc := C.duckdb_execute_prepared(s.stmt, &res); rc == C.DuckDBError {
		return nil, resultError(rc, &res)
	}
	s.executed = true
	return newResult(res)
}

// Exec executes the statement, discards the result, and returns the
// number of rows changed. Like Fetch it consumes the statement's single
// execution.
func (s *Statement) Exec() (uint64, error) {
	res, err := s.Fetch()
	if err != nil {
		return 0, err
	}
	defer res.Close()
	return res.Changes(), nil
}

// ResetResult re-arms the statement for exactly one more Fetch. Bound
// parameters are kept.
func (s *Statement) ResetResult() {
	s.executed = false
}

// Close destroys the prepared statement. Closing twice is a no-op.
func (s *Statement) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	if s.stmt != nil {
		C.duckdb_destroy_prepare(&s.stmt)
		s.stmt = nil
	}
	return nil
}

func (s *Statement) finalize() {
	if atomic.LoadInt32(&s.closed) != 0 {
		return
	}
	log.Printf("quack: statement finalized without Close")
	s.Close()
}
