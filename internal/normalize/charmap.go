// Package normalize implements a character normalization transducer: a
// many-to-many code-point rewrite driven by a packed multi-map,
// emitting an aligned offset vector.
package normalize

import (
	"sort"

	"github.com/kho-lab/bling/internal/automaton"
)

// CharMapEntry is one normalization rule: Key (one or more code points) is
// rewritten to Value (zero or more code points) when Key matches a prefix
// of the remaining input.
type CharMapEntry struct {
	Key   []rune
	Value []rune
}

// CharMap is a packed, read-only view over a set of CharMapEntry rules,
// bucketed by the first code point of Key so a scan position can find
// its candidates in one probe. It rides on automaton.PackedMultiMap,
// keyed on the first code point of a rule, with the remaining key
// suffix and value packed inline in the bucket's payload since
// PackedMultiMap's keys are single int32s.
type CharMap struct {
	mm *automaton.PackedMultiMap
}

// EncodeCharMap packs entries into a CharMap section. Candidates sharing
// a first code point are stored longest-key-first so the first match
// found during a scan is always the longest.
func EncodeCharMap(entries []CharMapEntry) []byte {
	byFirst := map[int32][]CharMapEntry{}
	for _, e := range entries {
		if len(e.Key) == 0 {
			continue
		}
		first := int32(e.Key[0])
		byFirst[first] = append(byFirst[first], e)
	}
	packed := make(map[int32][]int32, len(byFirst))
	for first, es := range byFirst {
		sort.SliceStable(es, func(i, j int) bool { return len(es[i].Key) > len(es[j].Key) })
		var blob []int32
		for _, e := range es {
			blob = append(blob, int32(len(e.Key)-1))
			for _, r := range e.Key[1:] {
				blob = append(blob, int32(r))
			}
			blob = append(blob, int32(len(e.Value)))
			for _, r := range e.Value {
				blob = append(blob, int32(r))
			}
		}
		packed[first] = blob
	}
	return automaton.EncodePackedMultiMap(packed)
}

func ParseCharMap(b []byte) (*CharMap, error) {
	mm, err := automaton.ParsePackedMultiMap(b)
	if err != nil {
		return nil, err
	}
	return &CharMap{mm: mm}, nil
}

// longestMatch finds the longest rule whose Key matches input starting at
// pos, returning its Value and the number of input runes it consumes. ok
// is false if no rule at all applies at pos.
func (c *CharMap) longestMatch(input []rune, pos int) (value []rune, keyLen int, ok bool) {
	blob := c.mm.Get(int32(input[pos]))
	i := 0
	for i < len(blob) {
		restLen := int(blob[i])
		i++
		rest := blob[i : i+restLen]
		i += restLen
		valLen := int(blob[i])
		i++
		val := blob[i : i+valLen]
		i += valLen

		total := 1 + restLen
		if pos+total > len(input) {
			continue
		}
		if runesEqualInt32(input[pos+1:pos+total], rest) {
			return int32sToRunes(val), total, true
		}
	}
	return nil, 0, false
}

func runesEqualInt32(rs []rune, is []int32) bool {
	if len(rs) != len(is) {
		return false
	}
	for i, r := range rs {
		if int32(r) != is[i] {
			return false
		}
	}
	return true
}

func int32sToRunes(is []int32) []rune {
	if len(is) == 0 {
		return nil
	}
	rs := make([]rune, len(is))
	for i, v := range is {
		rs[i] = rune(v)
	}
	return rs
}
