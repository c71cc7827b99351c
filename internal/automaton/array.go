package automaton

import "errors"

// PackedArray is K2I: a flat, zero-copy lookup from a minimal-perfect-hash
// id (or any dense small integer index) to an external id.
type PackedArray struct {
	values []int32
}

// Get returns the value at index i.
func (a *PackedArray) Get(i int32) int32 {
	return a.values[i]
}

// Len returns the number of entries.
func (a *PackedArray) Len() int32 {
	return int32(len(a.values))
}

func EncodePackedArray(values []int32) []byte {
	return int32SliceBytesCopy(append([]int32(nil), values...))
}

func ParsePackedArray(b []byte) (*PackedArray, error) {
	if len(b)%4 != 0 {
		return nil, errors.New("automaton: packed array section not a multiple of 4 bytes")
	}
	return &PackedArray{values: asInt32Slice(b)}, nil
}
