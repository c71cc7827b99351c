package automaton

import (
	"errors"
	"sort"
)

// RSDFA is a packed, read-only deterministic finite automaton over
// Unicode code points. States are 0..N-1; each state's out-going
// transitions are stored contiguously and sorted by label so Step can
// binary-search them.
type RSDFA struct {
	initial   int32
	numStates int32
	// offsets has numStates+1 entries; state s's transitions live in
	// labels/next[offsets[s]:offsets[s+1]], sorted ascending by label.
	offsets []int32
	labels  []int32
	next    []int32
	// finalBits is a packed bitset, 32 states per word.
	finalBits []int32
}

// Initial returns the automaton's start state.
func (d *RSDFA) Initial() int32 { return d.initial }

// NumStates returns the number of states.
func (d *RSDFA) NumStates() int32 { return d.numStates }

// IsFinal reports whether s is an accepting state.
func (d *RSDFA) IsFinal(s int32) bool {
	if s < 0 || s >= d.numStates {
		return false
	}
	return d.finalBits[s/32]&(1<<uint(s%32)) != 0
}

// Step follows the transition out of s labeled c, if any.
func (d *RSDFA) Step(s int32, c rune) (int32, bool) {
	if s < 0 || s >= d.numStates {
		return 0, false
	}
	lo, hi := d.offsets[s], d.offsets[s+1]
	label := int32(c)
	for lo < hi {
		mid := lo + (hi-lo)/2
		l := d.labels[mid]
		switch {
		case l < label:
			lo = mid + 1
		case l > label:
			hi = mid
		default:
			return d.next[mid], true
		}
	}
	return 0, false
}

// Transition describes one packed RS-DFA edge, used by EncodeRSDFA.
type Transition struct {
	From, To int32
	Label    rune
}

// EncodeRSDFA packs a transition table into the RS-DFA section format.
// transitions need not be pre-sorted; EncodeRSDFA sorts a copy by
// (From, Label).
func EncodeRSDFA(numStates int, initial int32, finals []int32, transitions []Transition) []byte {
	sorted := append([]Transition(nil), transitions...)
	sort.Sort(byFromLabel(sorted))

	offsets := make([]int32, numStates+1)
	labels := make([]int32, len(sorted))
	next := make([]int32, len(sorted))
	for i, tr := range sorted {
		labels[i] = int32(tr.Label)
		next[i] = tr.To
		offsets[tr.From+1]++
	}
	for s := 0; s < numStates; s++ {
		offsets[s+1] += offsets[s]
	}

	finalBits := make([]int32, (numStates+31)/32)
	for _, s := range finals {
		finalBits[s/32] |= 1 << uint(s%32)
	}

	header := []int32{initial, int32(numStates), int32(len(sorted))}
	out := make([]int32, 0, len(header)+len(offsets)+len(labels)+len(next)+len(finalBits))
	out = append(out, header...)
	out = append(out, offsets...)
	out = append(out, labels...)
	out = append(out, next...)
	out = append(out, finalBits...)
	return int32SliceBytesCopy(out)
}

// ParseRSDFA interprets b (a section obtained from packedimage.Image) as
// a packed RS-DFA, zero-copy.
func ParseRSDFA(b []byte) (*RSDFA, error) {
	ints := asInt32Slice(b)
	if len(ints) < 3 {
		return nil, errors.New("automaton: RS-DFA section too short")
	}
	initial, numStates, numTrans := ints[0], ints[1], ints[2]
	rest := ints[3:]
	need := int(numStates) + 1 + int(numTrans)*2 + (int(numStates)+31)/32
	if len(rest) < need {
		return nil, errors.New("automaton: RS-DFA section truncated")
	}
	offsets := rest[:numStates+1]
	rest = rest[numStates+1:]
	labels := rest[:numTrans]
	rest = rest[numTrans:]
	next := rest[:numTrans]
	rest = rest[numTrans:]
	finalBits := rest[:(numStates+31)/32]
	return &RSDFA{
		initial:   initial,
		numStates: numStates,
		offsets:   offsets,
		labels:    labels,
		next:      next,
		finalBits: finalBits,
	}, nil
}

// byFromLabel sorts Transitions by (From, Label).
type byFromLabel []Transition

func (s byFromLabel) Len() int { return len(s) }
func (s byFromLabel) Less(i, j int) bool {
	if s[i].From != s[j].From {
		return s[i].From < s[j].From
	}
	return s[i].Label < s[j].Label
}
func (s byFromLabel) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// int32SliceBytesCopy copies v into a fresh byte slice (as opposed to
// int32SliceBytes, which aliases). EncodeRSDFA must return an
// independent buffer since out is stack/heap-local and about to go out
// of scope.
func int32SliceBytesCopy(v []int32) []byte {
	b := int32SliceBytes(v)
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
