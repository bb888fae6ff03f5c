package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import "unsafe"

// Appendable is anything that can encode itself toward the engine, as
// cells on an Appender or as parameters on a Statement. Value
// implements it for every decodable kind, so rows read from one table
// can be appended to another or re-bound to a query without
// unwrapping. RowValues implements it for whole rows.
type Appendable interface {
	appendTo(a *Appender) error
	bindTo(s *Statement) error
}

// RowValues is a full row of values. Appending it stages every field
// and ends the row; binding it binds every field in order.
type RowValues []Value

func (r RowValues) appendTo(a *Appender) error {
	for _, v := range r {
		if err := v.appendTo(a); err != nil {
			return err
		}
	}
	return a.EndRow()
}

func (r RowValues) bindTo(s *Statement) error {
	for _, v := range r {
		if err := v.bindTo(s); err != nil {
			return err
		}
	}
	return nil
}

func (v Value) bindTo(s *Statement) error {
	return s.Bind(v)
}

func (v Value) appendTo(a *Appender) error {
	var rc C.duckdb_state
	switch v.kind {
	case TypeInvalid:
		rc = C.duckdb_append_null(a.app)
	case TypeBoolean:
		rc = C.duckdb_append_bool(a.app, C.bool(v.b))
	case TypeTinyInt:
		rc = C.duckdb_append_int8(a.app, C.int8_t(v.i))
	case TypeSmallInt:
		rc = C.duckdb_append_int16(a.app, C.int16_t(v.i))
	case TypeInteger:
		rc = C.duckdb_append_int32(a.app, C.int32_t(v.i))
	case TypeBigInt:
		rc = C.duckdb_append_int64(a.app, C.int64_t(v.i))
	case TypeUTinyInt:
		rc = C.duckdb_append_uint8(a.app, C.uint8_t(v.u))
	case TypeUSmallInt:
		rc = C.duckdb_append_uint16(a.app, C.uint16_t(v.u))
	case TypeUInteger:
		rc = C.duckdb_append_uint32(a.app, C.uint32_t(v.u))
	case TypeUBigInt:
		rc = C.duckdb_append_uint64(a.app, C.uint64_t(v.u))
	case TypeFloat:
		rc = C.duckdb_append_float(a.app, C.float(v.f))
	case TypeDouble:
		rc = C.duckdb_append_double(a.app, C.double(v.f))
	case TypeVarchar, TypeEnum, TypeUUID:
		cs := cString(v.s)
		rc = C.duckdb_append_varchar(a.app, cs)
		freeString(cs)
	case TypeBlob:
		if len(v.bs) == 0 {
			rc = C.duckdb_append_blob(a.app, nil, 0)
		} else {
			rc = C.duckdb_append_blob(a.app, unsafe.Pointer(&v.bs[0]), C.idx_t(len(v.bs)))
		}
	case TypeDate:
		rc = C.duckdb_append_date(a.app, C.duckdb_date{days: C.int32_t(dateDays(v.t))})
	case TypeTime:
		rc = C.duckdb_append_time(a.app, C.duckdb_time{micros: C.int64_t(timeMicros(v.t))})
	case TypeTimestamp, TypeTimestampS, TypeTimestampMS, TypeTimestampNS, TypeTimestampTZ:
		rc = C.duckdb_append_timestamp(a.app, C.duckdb_timestamp{micros: C.int64_t(timestampMicros(v.t))})
	case TypeInterval:
		rc = C.duckdb_append_interval(a.app, C.duckdb_interval{
			months: C.int32_t(v.iv.Months),
			days:   C.int32_t(v.iv.Days),
			micros: C.int64_t(v.iv.Micros),
		})
	case TypeHugeInt:
		rc = C.duckdb_append_hugeint(a.app, encodeHugeInt(v.big))
	case TypeDecimal:
		// The appender has no decimal entry point that survives every
		// width, so decimals travel as text and the engine parses them
		// against the target column type.
		cs := cString(v.dec.String())
		rc = C.duckdb_append_varchar(a.app, cs)
		freeString(cs)
	default:
		return conversionErrorf("cannot append value of kind %s", v.kind)
	}
	if rc == C.DuckDBError {
		return a.appenderErr("append error")
	}
	return nil
}
