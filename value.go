package quack

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Value is a fully owned cell value decoded from a result vector. A
// Value carries no reference to engine memory; it stays valid after the
// chunk or result it came from is destroyed.
//
// Accessors panic when called on the wrong kind. Use Kind or the Any
// method when the column type is not known statically.
type Value struct {
	kind Type
	b    bool
	i    int64
	u    uint64
	f    float64
	big  *big.Int
	dec  decimal.Decimal
	s    string
	bs   []byte
	t    time.Time
	iv   Interval
	vs   []Value
}

// Interval is a calendar interval. Months and days do not have a fixed
// length in real time; Duration flattens them with fixed factors.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

// Duration flattens the interval to a time.Duration, counting a month
// as 30 days and a day as 24 hours. The result saturates at the
// int64 nanosecond range.
func (iv Interval) Duration() time.Duration {
	const (
		microsPerDay = 24 * 60 * 60 * 1_000_000
		maxMicros    = math.MaxInt64 / 1000
		minMicros    = math.MinInt64 / 1000
	)
	days := int64(iv.Months)*30 + int64(iv.Days)
	if days > maxMicros/microsPerDay {
		return math.MaxInt64
	}
	if days < minMicros/microsPerDay {
		return math.MinInt64
	}
	micros := days * microsPerDay
	sum := micros + iv.Micros
	// Check for wraparound from the addition.
	if (micros > 0 && iv.Micros > 0 && sum < 0) || (micros < 0 && iv.Micros < 0 && sum >= 0) {
		if micros > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	if sum > maxMicros {
		return math.MaxInt64
	}
	if sum < minMicros {
		return math.MinInt64
	}
	return time.Duration(sum) * time.Microsecond
}

// ExactDuration is Duration for callers that cannot tolerate the
// saturated result: it reports a PrecisionLossError instead of clamping
// when the interval overflows the nanosecond range.
func (iv Interval) ExactDuration() (time.Duration, error) {
	d := iv.Duration()
	if d == math.MaxInt64 || d == math.MinInt64 {
		return 0, &PrecisionLossError{Reason: "interval exceeds duration range"}
	}
	return d, nil
}

// Constructors for every kind. Decoded results and typed appends both
// go through these.

func NullValue() Value               { return Value{kind: TypeInvalid} }
func BoolValue(v bool) Value         { return Value{kind: TypeBoolean, b: v} }
func Int8Value(v int8) Value         { return Value{kind: TypeTinyInt, i: int64(v)} }
func Int16Value(v int16) Value       { return Value{kind: TypeSmallInt, i: int64(v)} }
func Int32Value(v int32) Value       { return Value{kind: TypeInteger, i: int64(v)} }
func Int64Value(v int64) Value       { return Value{kind: TypeBigInt, i: v} }
func UInt8Value(v uint8) Value       { return Value{kind: TypeUTinyInt, u: uint64(v)} }
func UInt16Value(v uint16) Value     { return Value{kind: TypeUSmallInt, u: uint64(v)} }
func UInt32Value(v uint32) Value     { return Value{kind: TypeUInteger, u: uint64(v)} }
func UInt64Value(v uint64) Value     { return Value{kind: TypeUBigInt, u: v} }
func Float32Value(v float32) Value   { return Value{kind: TypeFloat, f: float64(v)} }
func Float64Value(v float64) Value   { return Value{kind: TypeDouble, f: v} }
func TextValue(v string) Value       { return Value{kind: TypeVarchar, s: v} }
func BlobValue(v []byte) Value       { return Value{kind: TypeBlob, bs: v} }
func DateValue(v time.Time) Value    { return Value{kind: TypeDate, t: v} }
func TimeValue(v time.Time) Value    { return Value{kind: TypeTime, t: v} }
func TimestampValue(v time.Time) Value {
	return Value{kind: TypeTimestamp, t: v}
}
func IntervalValue(v Interval) Value { return Value{kind: TypeInterval, iv: v} }
func UUIDValue(v string) Value       { return Value{kind: TypeUUID, s: v} }

// HugeIntValue wraps an arbitrary-precision integer. Encoding back to
// the engine's 128-bit form panics when v does not fit.
func HugeIntValue(v *big.Int) Value {
	return Value{kind: TypeHugeInt, big: v}
}

func DecimalValue(v decimal.Decimal) Value {
	return Value{kind: TypeDecimal, dec: v}
}

func ListValue(vs []Value) Value  { return Value{kind: TypeList, vs: vs} }
func ArrayValue(vs []Value) Value { return Value{kind: TypeArray, vs: vs} }

// EnumValue holds the dictionary text of an enum member.
func EnumValue(v string) Value { return Value{kind: TypeEnum, s: v} }

// Kind reports the value's type tag. Null values report TypeInvalid.
func (v Value) Kind() Type { return v.kind }

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool { return v.kind == TypeInvalid }

func (v Value) expect(kinds ...Type) {
	for _, k := range kinds {
		if v.kind == k {
			return
		}
	}
	panic(fmt.Sprintf("quack: value is %s, not %s", v.kind, kinds[0]))
}

// Bool returns the boolean payload.
func (v Value) Bool() bool {
	v.expect(TypeBoolean)
	return v.b
}

// Int64 returns any signed integer payload widened to int64.
func (v Value) Int64() int64 {
	v.expect(TypeTinyInt, TypeSmallInt, TypeInteger, TypeBigInt)
	return v.i
}

// Uint64 returns any unsigned integer payload widened to uint64.
func (v Value) Uint64() uint64 {
	v.expect(TypeUTinyInt, TypeUSmallInt, TypeUInteger, TypeUBigInt)
	return v.u
}

// Float64 returns a FLOAT or DOUBLE payload.
func (v Value) Float64() float64 {
	v.expect(TypeFloat, TypeDouble)
	return v.f
}

// Text returns a VARCHAR, ENUM, or UUID payload.
func (v Value) Text() string {
	v.expect(TypeVarchar, TypeEnum, TypeUUID)
	return v.s
}

// Blob returns a BLOB payload. The slice is owned by the caller.
func (v Value) Blob() []byte {
	v.expect(TypeBlob)
	return v.bs
}

// Time returns a DATE, TIME, or TIMESTAMP payload. Dates are midnight
// UTC; times are on the Unix epoch date.
func (v Value) Time() time.Time {
	v.expect(TypeDate, TypeTime, TypeTimestamp, TypeTimestampS, TypeTimestampMS, TypeTimestampNS, TypeTimestampTZ)
	return v.t
}

// BigInt returns a HUGEINT payload.
func (v Value) BigInt() *big.Int {
	v.expect(TypeHugeInt)
	return v.big
}

// Decimal returns a DECIMAL payload.
func (v Value) Decimal() decimal.Decimal {
	v.expect(TypeDecimal)
	return v.dec
}

// Interval returns an INTERVAL payload.
func (v Value) Interval() Interval {
	v.expect(TypeInterval)
	return v.iv
}

// List returns a LIST or ARRAY payload.
func (v Value) List() []Value {
	v.expect(TypeList, TypeArray)
	return v.vs
}

// Any unwraps the payload into its natural Go type: nil, bool, int8
// through int64, uint8 through uint64, float32/float64, string, []byte,
// time.Time, Interval, *big.Int, decimal.Decimal, or []Value.
func (v Value) Any() any {
	switch v.kind {
	case TypeInvalid:
		return nil
	case TypeBoolean:
		return v.b
	case TypeTinyInt:
		return int8(v.i)
	case TypeSmallInt:
		return int16(v.i)
	case TypeInteger:
		return int32(v.i)
	case TypeBigInt:
		return v.i
	case TypeUTinyInt:
		return uint8(v.u)
	case TypeUSmallInt:
		return uint16(v.u)
	case TypeUInteger:
		return uint32(v.u)
	case TypeUBigInt:
		return v.u
	case TypeFloat:
		return float32(v.f)
	case TypeDouble:
		return v.f
	case TypeVarchar, TypeEnum, TypeUUID:
		return v.s
	case TypeBlob:
		return v.bs
	case TypeDate, TypeTime, TypeTimestamp, TypeTimestampS, TypeTimestampMS, TypeTimestampNS, TypeTimestampTZ:
		return v.t
	case TypeInterval:
		return v.iv
	case TypeHugeInt:
		return v.big
	case TypeDecimal:
		return v.dec
	case TypeList, TypeArray:
		return v.vs
	default:
		return nil
	}
}

// String renders the value for display.
func (v Value) String() string {
	if v.IsNull() {
		return "NULL"
	}
	return fmt.Sprintf("%v", v.Any())
}
