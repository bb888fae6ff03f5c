package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import (
	"unicode/utf8"
	"unsafe"

	"github.com/shopspring/decimal"
)

// stringTSize is the wire size of duckdb_string_t: a 4-byte length,
// then either 12 inline bytes or a 4-byte prefix and an 8-byte pointer.
const (
	stringTSize      = 16
	stringInlineMax  = 12
	stringInlineOff  = 4
	stringPointerOff = 8
)

func readAt[T any](base unsafe.Pointer, row C.idx_t) T {
	var zero T
	return *(*T)(unsafe.Add(base, uintptr(row)*unsafe.Sizeof(zero)))
}

// rowIsValid tests the row's bit in a validity bitmap of packed uint64
// words. A nil bitmap means every row is valid.
func rowIsValid(mask *C.uint64_t, row C.idx_t) bool {
	if mask == nil {
		return true
	}
	word := readAt[uint64](unsafe.Pointer(mask), row/64)
	return word>>(uint64(row)%64)&1 == 1
}

// decodeStringT copies the payload of the row's duckdb_string_t out of
// engine memory.
func decodeStringT(data unsafe.Pointer, row C.idx_t) []byte {
	base := unsafe.Add(data, uintptr(row)*stringTSize)
	length := *(*uint32)(base)
	if length == 0 {
		return []byte{}
	}
	var src unsafe.Pointer
	if length <= stringInlineMax {
		src = unsafe.Add(base, stringInlineOff)
	} else {
		src = *(*unsafe.Pointer)(unsafe.Add(base, stringPointerOff))
	}
	return C.GoBytes(src, C.int(length))
}

// decodeVector decodes one cell into a fully owned Value. The validity
// bitmap is consulted before any type dispatch, so NULL cells never
// touch payload memory.
func decodeVector(vec C.duckdb_vector, row C.idx_t) (Value, error) {
	if !rowIsValid(C.duckdb_vector_get_validity(vec), row) {
		return NullValue(), nil
	}

	lt := C.duckdb_vector_get_column_type(vec)
	defer C.duckdb_destroy_logical_type(&lt)

	t := Type(C.duckdb_get_type_id(lt))
	data := unsafe.Pointer(C.duckdb_vector_get_data(vec))

	switch t {
	case TypeBoolean:
		return BoolValue(readAt[bool](data, row)), nil
	case TypeTinyInt:
		return Int8Value(readAt[int8](data, row)), nil
	case TypeSmallInt:
		return Int16Value(readAt[int16](data, row)), nil
	case TypeInteger:
		return Int32Value(readAt[int32](data, row)), nil
	case TypeBigInt:
		return Int64Value(readAt[int64](data, row)), nil
	case TypeUTinyInt:
		return UInt8Value(readAt[uint8](data, row)), nil
	case TypeUSmallInt:
		return UInt16Value(readAt[uint16](data, row)), nil
	case TypeUInteger:
		return UInt32Value(readAt[uint32](data, row)), nil
	case TypeUBigInt:
		return UInt64Value(readAt[uint64](data, row)), nil
	case TypeFloat:
		return Float32Value(readAt[float32](data, row)), nil
	case TypeDouble:
		return Float64Value(readAt[float64](data, row)), nil
	case TypeVarchar:
		b := decodeStringT(data, row)
		if !utf8.Valid(b) {
			return Value{}, conversionErrorf("invalid UTF-8 in varchar payload")
		}
		return TextValue(string(b)), nil
	case TypeBlob:
		return BlobValue(decodeStringT(data, row)), nil
	case TypeDate:
		d, err := dateFromDays(readAt[int32](data, row))
		if err != nil {
			return Value{}, err
		}
		return DateValue(d), nil
	case TypeTime:
		return TimeValue(timeFromMicros(readAt[int64](data, row))), nil
	case TypeTimestamp, TypeTimestampTZ:
		ts, err := timestampFromMicros(readAt[int64](data, row))
		if err != nil {
			return Value{}, err
		}
		return Value{kind: t, t: ts}, nil
	case TypeTimestampS:
		ts, err := timestampFromSeconds(readAt[int64](data, row))
		if err != nil {
			return Value{}, err
		}
		return Value{kind: t, t: ts}, nil
	case TypeTimestampMS:
		ts, err := timestampFromMillis(readAt[int64](data, row))
		if err != nil {
			return Value{}, err
		}
		return Value{kind: t, t: ts}, nil
	case TypeTimestampNS:
		ts, err := timestampFromNanos(readAt[int64](data, row))
		if err != nil {
			return Value{}, err
		}
		return Value{kind: t, t: ts}, nil
	case TypeInterval:
		iv := readAt[C.duckdb_interval](data, row)
		return IntervalValue(Interval{
			Months: int32(iv.months),
			Days:   int32(iv.days),
			Micros: int64(iv.micros),
		}), nil
	case TypeHugeInt:
		return HugeIntValue(decodeHugeInt(readAt[C.duckdb_hugeint](data, row))), nil
	case TypeUUID:
		return UUIDValue(uuidString(readAt[C.duckdb_hugeint](data, row))), nil
	case TypeDecimal:
		return decodeDecimal(lt, data, row)
	case TypeEnum:
		return decodeEnum(lt, data, row)
	case TypeList:
		return decodeList(vec, data, row)
	case TypeArray:
		return decodeArray(vec, lt, row)
	default:
		return Value{}, conversionErrorf("unsupported column type %s", t)
	}
}

// decodeDecimal reads the physical integer the engine stores for the
// column's width and rescales it.
func decodeDecimal(lt C.duckdb_logical_type, data unsafe.Pointer, row C.idx_t) (Value, error) {
	scale := int32(C.duckdb_decimal_scale(lt))
	switch storage := Type(C.duckdb_decimal_internal_type(lt)); storage {
	case TypeSmallInt:
		return DecimalValue(decimal.New(int64(readAt[int16](data, row)), -scale)), nil
	case TypeInteger:
		return DecimalValue(decimal.New(int64(readAt[int32](data, row)), -scale)), nil
	case TypeBigInt:
		return DecimalValue(decimal.New(readAt[int64](data, row), -scale)), nil
	case TypeHugeInt:
		unscaled := decodeHugeInt(readAt[C.duckdb_hugeint](data, row))
		return DecimalValue(decimal.NewFromBigInt(unscaled, -scale)), nil
	default:
		return Value{}, conversionErrorf("unsupported decimal storage type %s", storage)
	}
}

// decodeEnum reads the member index at the column's physical width and
// resolves it against the enum dictionary.
func decodeEnum(lt C.duckdb_logical_type, data unsafe.Pointer, row C.idx_t) (Value, error) {
	var index uint64
	switch storage := Type(C.duckdb_enum_internal_type(lt)); storage {
	case TypeUTinyInt:
		index = uint64(readAt[uint8](data, row))
	case TypeUSmallInt:
		index = uint64(readAt[uint16](data, row))
	case TypeUInteger:
		index = uint64(readAt[uint32](data, row))
	default:
		return Value{}, conversionErrorf("unsupported enum storage type %s", storage)
	}
	cs := C.duckdb_enum_dictionary_value(lt, C.idx_t(index))
	if cs == nil {
		return Value{}, conversionErrorf("enum index %d out of dictionary range", index)
	}
	s := goString(cs)
	C.duckdb_free(unsafe.Pointer(cs))
	return EnumValue(s), nil
}

// decodeList walks the row's [offset, offset+length) window of the
// shared child vector. Elements resolve their own types, so nested
// lists decode recursively.
func decodeList(vec C.duckdb_vector, data unsafe.Pointer, row C.idx_t) (Value, error) {
	entry := readAt[C.duckdb_list_entry](data, row)
	child := C.duckdb_list_vector_get_child(vec)
	values := make([]Value, 0, uint64(entry.length))
	for i := C.idx_t(0); i < C.idx_t(entry.length); i++ {
		v, err := decodeVector(child, C.idx_t(entry.offset)+i)
		if err != nil {
			return Value{}, err
		}
		values = append(values, v)
	}
	return ListValue(values), nil
}

// decodeArray reads the row's fixed-size window of the child vector.
func decodeArray(vec C.duckdb_vector, lt C.duckdb_logical_type, row C.idx_t) (Value, error) {
	size := C.duckdb_array_type_array_size(lt)
	child := C.duckdb_array_vector_get_child(vec)
	values := make([]Value, 0, uint64(size))
	for i := C.idx_t(0); i < size; i++ {
		v, err := decodeVector(child, row*size+i)
		if err != nil {
			return Value{}, err
		}
		values = append(values, v)
	}
	return ArrayValue(values), nil
}
