package quack

import (
	"math"
	"time"
)

// Temporal storage is integer offsets from the Unix epoch: days for
// DATE, microseconds since midnight for TIME, microseconds since epoch
// for TIMESTAMP. The extreme int32/int64 values are the engine's
// positive and negative infinity sentinels and cannot be represented as
// time.Time.

const (
	dateInfinity     = math.MaxInt32
	dateNegInfinity  = math.MinInt32
	stampInfinity    = math.MaxInt64
	stampNegInfinity = math.MinInt64

	secondsPerDay = 24 * 60 * 60
)

func dateFromDays(days int32) (time.Time, error) {
	if days == dateInfinity || days == dateNegInfinity {
		return time.Time{}, conversionErrorf("date is infinite")
	}
	return time.Unix(int64(days)*secondsPerDay, 0).UTC(), nil
}

func dateDays(t time.Time) int32 {
	secs := t.Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		days--
	}
	return int32(days)
}

func timeFromMicros(micros int64) time.Time {
	return time.UnixMicro(micros).UTC()
}

func timeMicros(t time.Time) int64 {
	h, m, s := t.Clock()
	return (int64(h)*3600+int64(m)*60+int64(s))*1_000_000 + int64(t.Nanosecond())/1000
}

func timestampFromMicros(micros int64) (time.Time, error) {
	if micros == stampInfinity || micros == stampNegInfinity {
		return time.Time{}, conversionErrorf("timestamp is infinite")
	}
	return time.UnixMicro(micros).UTC(), nil
}

func timestampMicros(t time.Time) int64 {
	return t.UnixMicro()
}

// Coarser and finer timestamp encodings are widened or narrowed to
// microseconds before conversion. Nanosecond narrowing truncates toward
// zero.

func timestampFromSeconds(secs int64) (time.Time, error) {
	if secs == stampInfinity || secs == stampNegInfinity {
		return time.Time{}, conversionErrorf("timestamp is infinite")
	}
	return time.Unix(secs, 0).UTC(), nil
}

func timestampFromMillis(millis int64) (time.Time, error) {
	if millis == stampInfinity || millis == stampNegInfinity {
		return time.Time{}, conversionErrorf("timestamp is infinite")
	}
	return time.UnixMilli(millis).UTC(), nil
}

func timestampFromNanos(nanos int64) (time.Time, error) {
	if nanos == stampInfinity || nanos == stampNegInfinity {
		return time.Time{}, conversionErrorf("timestamp is infinite")
	}
	return time.Unix(0, nanos).UTC(), nil
}
