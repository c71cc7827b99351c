package automaton

import (
	"errors"
	"sort"
)

// packedMulti is the shared open-addressing core behind both
// State2Output and PackedMultiMap: every "map an int32 key to a short
// slice of int32 values" structure in this package (state->output
// weights, dictionary id->score/length/flags, code point->substitution
// sequence) is this same bucket-table shape, with the value generalized
// from a single scalar to a variable-length slice into a flat arena.
type packedMulti struct {
	buckets []multiEntry
	values  []int32
}

type multiEntry struct {
	key    int32
	offset int32
	length int32
}

const nilKey int32 = -1

func sortInt32s(v []int32) {
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
}

func multiKeyHash(k int32) uint64 {
	h := uint64(uint32(k))
	h ^= h >> 23
	h *= 0x2127599bf4325c37
	h ^= h >> 47
	return h
}

func (m *packedMulti) get(k int32) []int32 {
	if len(m.buckets) == 0 {
		return nil
	}
	i := int(multiKeyHash(k) % uint64(len(m.buckets)))
	for {
		e := m.buckets[i]
		if e.key == k {
			if e.length == 0 {
				return nil
			}
			return m.values[e.offset : e.offset+e.length]
		}
		if e.key == nilKey {
			return nil
		}
		i++
		if i == len(m.buckets) {
			i = 0
		}
	}
}

func encodePackedMulti(entries map[int32][]int32) []byte {
	n := len(entries)
	numBuckets := 4
	for numBuckets < n*2+1 {
		numBuckets *= 2
	}
	buckets := make([]multiEntry, numBuckets)
	for i := range buckets {
		buckets[i].key = nilKey
	}
	var values []int32
	keys := make([]int32, 0, n)
	for k := range entries {
		keys = append(keys, k)
	}
	sortInt32s(keys)
	for _, k := range keys {
		vs := entries[k]
		offset := int32(len(values))
		values = append(values, vs...)
		i := int(multiKeyHash(k) % uint64(numBuckets))
		for buckets[i].key != nilKey {
			i++
			if i == numBuckets {
				i = 0
			}
		}
		buckets[i] = multiEntry{key: k, offset: offset, length: int32(len(vs))}
	}

	header := []int32{int32(numBuckets), int32(len(values))}
	out := make([]int32, 0, len(header)+numBuckets*3+len(values))
	out = append(out, header...)
	for _, e := range buckets {
		out = append(out, e.key, e.offset, e.length)
	}
	out = append(out, values...)
	return int32SliceBytesCopy(out)
}

func parsePackedMulti(b []byte) (*packedMulti, error) {
	ints := asInt32Slice(b)
	if len(ints) < 2 {
		return nil, errors.New("automaton: packed multi-map section too short")
	}
	numBuckets, numValues := ints[0], ints[1]
	rest := ints[2:]
	need := int(numBuckets)*3 + int(numValues)
	if len(rest) < need {
		return nil, errors.New("automaton: packed multi-map section truncated")
	}
	buckets := make([]multiEntry, numBuckets)
	for i := 0; i < int(numBuckets); i++ {
		buckets[i] = multiEntry{
			key:    rest[i*3],
			offset: rest[i*3+1],
			length: rest[i*3+2],
		}
	}
	values := rest[int(numBuckets)*3:]
	return &packedMulti{buckets: buckets, values: values}, nil
}

// PackedMultiMap maps an integer key (a dictionary mph-id for I2Info, or
// a code point for the character map) to a short vector of integers.
// One structure serves both roles.
type PackedMultiMap struct {
	core *packedMulti
}

// Get returns the values attached to key, or nil if key is absent.
func (m *PackedMultiMap) Get(key int32) []int32 {
	return m.core.get(key)
}

func EncodePackedMultiMap(entries map[int32][]int32) []byte {
	return encodePackedMulti(entries)
}

func ParsePackedMultiMap(b []byte) (*PackedMultiMap, error) {
	core, err := parsePackedMulti(b)
	if err != nil {
		return nil, err
	}
	return &PackedMultiMap{core: core}, nil
}
