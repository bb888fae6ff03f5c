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
)

// Appender streams rows into a table in bulk. Cell values are staged
// with the Append* methods; EndRow commits the staged row to the
// appender's buffer, and Flush or Save pushes buffered rows into the
// table. The column cursor advances left to right and EndRow requires
// every column to be filled.
type Appender struct {
	conn   *Connection
	app    C.duckdb_appender
	closed int32
}

func (a *Appender) appenderErr(op string) error {
	return &EngineError{
		Code:    int(C.DuckDBError),
		Message: op + ": " + goString(C.duckdb_appender_error(a.app)),
	}
}

// ColumnCount reports the number of columns in the target table.
func (a *Appender) ColumnCount() uint64 {
	return uint64(C.duckdb_appender_column_count(a.app))
}

// Append stages v into the next column of the current row.
func (a *Appender) Append(v Appendable) error {
	if atomic.LoadInt32(&a.closed) != 0 {
		return ErrClosed
	}
	return v.appendTo(a)
}

// AppendRow stages every value in order and ends the row.
func (a *Appender) AppendRow(values ...any) error {
	for _, v := range values {
		if err := a.appendAny(v); err != nil {
			return err
		}
	}
	return a.EndRow()
}

func (a *Appender) appendAny(v any) error {
	if atomic.LoadInt32(&a.closed) != 0 {
		return ErrClosed
	}

	var rc C.duckdb_state
	switch val := v.(type) {
	case nil:
		rc = C.duckdb_append_null(a.app)
	case bool:
		rc = C.duckdb_append_bool(a.app, C.bool(val))
	case int8:
		rc = C.duckdb_append_int8(a.app, C.int8_t(val))
	case int16:
		rc = C.duckdb_append_int16(a.app, C.int16_t(val))
	case int32:
		rc = C.duckdb_append_int32(a.app, C.int32_t(val))
	case int64:
		rc = C.duckdb_append_int64(a.app, C.int64_t(val))
	case int:
		rc = C.duckdb_append_int64(a.app, C.int64_t(val))
	case uint8:
		rc = C.duckdb_append_uint8(a.app, C.uint8_t(val))
	case uint16:
		rc = C.duckdb_append_uint16(a.app, C.uint16_t(val))
	case uint32:
		rc = C.duckdb_append_uint32(a.app, C.uint32_t(val))
	case uint64:
		rc = C.duckdb_append_uint64(a.app, C.uint64_t(val))
	case uint:
		rc = C.duckdb_append_uint64(a.app, C.uint64_t(val))
	case float32:
		rc = C.duckdb_append_float(a.app, C.float(val))
	case float64:
		rc = C.duckdb_append_double(a.app, C.double(val))
	case string:
		cs := cString(val)
		rc = C.duckdb_append_varchar(a.app, cs)
		freeString(cs)
	case []byte:
		if len(val) == 0 {
			rc = C.duckdb_append_blob(a.app, nil, 0)
		} else {
			rc = C.duckdb_append_blob(a.app, unsafe.Pointer(&val[0]), C.idx_t(len(val)))
		}
	case *big.Int:
		rc = C.duckdb_append_hugeint(a.app, encodeHugeInt(val))
	case time.Time:
		rc = C.duckdb_append_timestamp(a.app, C.duckdb_timestamp{micros: C.int64_t(timestampMicros(val))})
	case Interval:
		rc = C.duckdb_append_interval(a.app, C.duckdb_interval{
			months: C.int32_t(val.Months),
			days:   C.int32_t(val.Days),
			micros: C.int64_t(val.Micros),
		})
	case Appendable:
		return val.appendTo(a)
	default:
		return conversionErrorf("cannot append value of type %T", v)
	}
	if rc == C.DuckDBError {
		return a.appenderErr("append error")
	}
	return nil
}

// AppendNull stages a NULL cell.
func (a *Appender) AppendNull() error {
	if atomic.LoadInt32(&a.closed) != 0 {
		return ErrClosed
	}
	if rc := C.duckdb_append_null(a.app); rc == C.DuckDBError {
		return a.appenderErr("append null error")
	}
	return nil
}

// EndRow commits the staged row to the appender's buffer. A failed end
// row leaves the appender in an undefined state, so it is destroyed and
// cannot be used again.
func (a *Appender) EndRow() error {
	if atomic.LoadInt32(&a.closed) != 0 {
		return ErrClosed
	}
	if rc := C.duckdb_appender_end_row(a.app); rc == C.DuckDBError {
		err := a.appenderErr("end row error")
		a.destroy()
		return err
	}
	return nil
}

// destroy drops the native appender without flushing.
func (a *Appender) destroy() {
	if !atomic.CompareAndSwapInt32(&a.closed, 0, 1) {
		return
	}
	runtime.SetFinalizer(a, nil)
	if a.app != nil {
		C.duckdb_appender_destroy(&a.app)
		a.app = nil
	}
}

// Flush pushes every buffered row into the table. The appender stays
// usable.
func (a *Appender) Flush() error {
	if atomic.LoadInt32(&a.closed) != 0 {
		return ErrClosed
	}
	if rc := C.duckdb_appender_flush(a.app); rc == C.DuckDBError {
		return a.appenderErr("flush error")
	}
	return nil
}

// Save flushes every buffered row and closes the appender. After Save
// the appender cannot be used again.
func (a *Appender) Save() error {
	if err := a.Flush(); err != nil {
		a.Close()
		return err
	}
	return a.Close()
}

// Close flushes remaining rows and destroys the appender. Closing twice
// is a no-op.
func (a *Appender) Close() error {
	if !atomic.CompareAndSwapInt32(&a.closed, 0, 1) {
		return nil
	}
	runtime.SetFinalizer(a, nil)
	if a.app != nil {
		var err error
		if rc := C.duckdb_appender_close(a.app); rc == C.DuckDBError {
			err = &EngineError{
				Code:    int(C.DuckDBError),
				Message: "close error: " + goString(C.duckdb_appender_error(a.app)),
			}
		}
		C.duckdb_appender_destroy(&a.app)
		a.app = nil
		return err
	}
	return nil
}

func (a *Appender) finalize() {
	if atomic.LoadInt32(&a.closed) != 0 {
		return
	}
	log.Printf("quack: appender finalized without Close")
	a.Close()
}
