package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var seed = maphash.MakeSeed()

// Hash returns a structural hash of y consistent with Equal: whole numbers
// hash the same whether they were read as integers or floats.
func (y *Node) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	y.hashTo(&h)
	return h.Sum64()
}

func (y *Node) hashTo(h *maphash.Hash) {
	y = y.value()
	if y == nil {
		h.WriteByte(0xff)
		return
	}
	h.WriteByte(byte(y.Type))
	var b [8]byte
	switch y.Type {
	case BoolType:
		if y.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case StringType:
		h.WriteString(y.String)
	case NumberType:
		if i, ok := y.integral(); ok {
			binary.LittleEndian.PutUint64(b[:], uint64(i))
		} else if f, ok := y.float(); ok {
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		} else {
			h.WriteString(y.Number)
			return
		}
		h.Write(b[:])
	case ArrayType:
		binary.LittleEndian.PutUint64(b[:], uint64(len(y.Values)))
		h.Write(b[:])
		for _, v := range y.Values {
			v.hashTo(h)
		}
	case ObjectType:
		binary.LittleEndian.PutUint64(b[:], uint64(len(y.Values)))
		h.Write(b[:])
		for i, v := range y.Values {
			y.Fields[i].hashTo(h)
			v.hashTo(h)
		}
	}
}
