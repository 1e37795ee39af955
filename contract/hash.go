package contract

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"math"
	"reflect"
)

var seed = maphash.MakeSeed()

// hashAny hashes a scalar value consistently with ==.  Floats hash by
// value with -0 folded into 0; other values hash by their printed form.
func hashAny(v any) uint64 {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0
	}
	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteString(rv.Type().String())
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		writeFloat(&h, rv.Float())
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		writeFloat(&h, real(c))
		writeFloat(&h, imag(c))
	default:
		fmt.Fprintf(&h, ":%v", v)
	}
	return h.Sum64()
}

func writeFloat(h *maphash.Hash, f float64) {
	if f == 0 {
		f = 0
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
	h.Write(b[:])
}
