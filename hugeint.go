package quack

/*
#include <duckdb.h>
*/
import "C"

import (
	"fmt"
	"math/big"
)

// The signed 128-bit range is [-2^127, 2^127-1].
var (
	hugeIntMax = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	hugeIntMin = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	word64     = new(big.Int).Lsh(big.NewInt(1), 64)
)

// decodeHugeInt reconstructs the signed 128-bit value upper*2^64+lower.
func decodeHugeInt(h C.duckdb_hugeint) *big.Int {
	v := big.NewInt(int64(h.upper))
	v.Lsh(v, 64)
	return v.Add(v, new(big.Int).SetUint64(uint64(h.lower)))
}

// encodeHugeInt splits v into the engine's two's-complement limb pair.
// It panics when v does not fit in 128 bits; bind and append callers
// treat an oversized literal as a programming error.
func encodeHugeInt(v *big.Int) C.duckdb_hugeint {
	if v.Cmp(hugeIntMax) > 0 || v.Cmp(hugeIntMin) < 0 {
		panic(fmt.Sprintf("quack: %s overflows HUGEINT", v))
	}
	bits := new(big.Int).Set(v)
	if bits.Sign() < 0 {
		bits.Add(bits, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	var lower big.Int
	lower.Mod(bits, word64)
	bits.Rsh(bits, 64)
	return C.duckdb_hugeint{
		lower: C.uint64_t(lower.Uint64()),
		upper: C.int64_t(int64(bits.Uint64())),
	}
}

// uuidString renders the engine's hugeint UUID storage in canonical
// form. The engine flips the top bit so UUIDs sort as unsigned values.
func uuidString(h C.duckdb_hugeint) string {
	upper := uint64(h.upper) ^ (1 << 63)
	lower := uint64(h.lower)
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uint32(upper>>32),
		uint16(upper>>16),
		uint16(upper),
		uint16(lower>>48),
		lower&0xffffffffffff)
}
