package automaton

import "unsafe"

// asInt32Slice casts a byte buffer to a read-only []int32 without
// copying, for reading numeric arrays straight out of a packed image.
func asInt32Slice(b []byte) []int32 {
	if len(b) == 0 {
		return nil
	}
	n := len(b) / 4
	return unsafe.Slice((*int32)(unsafe.Pointer(&b[0])), n)
}

// int32SliceBytes is the inverse of asInt32Slice, used when packing a
// section for Build().
func int32SliceBytes(v []int32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}
