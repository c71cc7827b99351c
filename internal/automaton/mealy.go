package automaton

import (
	"errors"
	"sort"
)

// MealyDFA augments an RS-DFA's transitions with a per-transition integer
// increment. Walking an accepted key and summing the increments along
// the path yields a minimal perfect hash id in [0, K). The shape is the
// same packed CSR-by-state, binary-searched-by-label layout as RSDFA;
// only the payload per transition differs.
type MealyDFA struct {
	initial   int32
	numStates int32
	offsets   []int32
	labels    []int32
	next      []int32
	deltas    []int32
	finalBits []int32
}

func (d *MealyDFA) Initial() int32   { return d.initial }
func (d *MealyDFA) NumStates() int32 { return d.numStates }

func (d *MealyDFA) IsFinal(s int32) bool {
	if s < 0 || s >= d.numStates {
		return false
	}
	return d.finalBits[s/32]&(1<<uint(s%32)) != 0
}

// Step returns the next state and the Δ to accumulate, or ok=false if c is
// not accepted from s.
func (d *MealyDFA) Step(s int32, c rune) (next int32, delta int32, ok bool) {
	if s < 0 || s >= d.numStates {
		return 0, 0, false
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
			return d.next[mid], d.deltas[mid], true
		}
	}
	return 0, 0, false
}

// Walk walks key through the automaton from its initial state and, if key
// is fully accepted at a final state, returns the accumulated Δ (the MPH
// id) and ok=true.
func (d *MealyDFA) Walk(key []rune) (id int32, ok bool) {
	s := d.Initial()
	for _, c := range key {
		next, delta, stepOK := d.Step(s, c)
		if !stepOK {
			return 0, false
		}
		s, id = next, id+delta
	}
	if !d.IsFinal(s) {
		return 0, false
	}
	return id, true
}

// MealyTransition is a packed Mealy-DFA edge, used by EncodeMealyDFA.
type MealyTransition struct {
	From, To int32
	Label    rune
	Delta    int32
}

func EncodeMealyDFA(numStates int, initial int32, finals []int32, transitions []MealyTransition) []byte {
	sorted := append([]MealyTransition(nil), transitions...)
	sort.Sort(byFromLabelMealy(sorted))

	offsets := make([]int32, numStates+1)
	labels := make([]int32, len(sorted))
	next := make([]int32, len(sorted))
	deltas := make([]int32, len(sorted))
	for i, tr := range sorted {
		labels[i] = int32(tr.Label)
		next[i] = tr.To
		deltas[i] = tr.Delta
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
	out := make([]int32, 0, len(header)+len(offsets)+3*len(labels)+len(finalBits))
	out = append(out, header...)
	out = append(out, offsets...)
	out = append(out, labels...)
	out = append(out, next...)
	out = append(out, deltas...)
	out = append(out, finalBits...)
	return int32SliceBytesCopy(out)
}

func ParseMealyDFA(b []byte) (*MealyDFA, error) {
	ints := asInt32Slice(b)
	if len(ints) < 3 {
		return nil, errors.New("automaton: Mealy-DFA section too short")
	}
	initial, numStates, numTrans := ints[0], ints[1], ints[2]
	rest := ints[3:]
	need := int(numStates) + 1 + int(numTrans)*3 + (int(numStates)+31)/32
	if len(rest) < need {
		return nil, errors.New("automaton: Mealy-DFA section truncated")
	}
	offsets := rest[:numStates+1]
	rest = rest[numStates+1:]
	labels := rest[:numTrans]
	rest = rest[numTrans:]
	next := rest[:numTrans]
	rest = rest[numTrans:]
	deltas := rest[:numTrans]
	rest = rest[numTrans:]
	finalBits := rest[:(numStates+31)/32]
	return &MealyDFA{
		initial:   initial,
		numStates: numStates,
		offsets:   offsets,
		labels:    labels,
		next:      next,
		deltas:    deltas,
		finalBits: finalBits,
	}, nil
}

type byFromLabelMealy []MealyTransition

func (s byFromLabelMealy) Len() int { return len(s) }
func (s byFromLabelMealy) Less(i, j int) bool {
	if s[i].From != s[j].From {
		return s[i].From < s[j].From
	}
	return s[i].Label < s[j].Label
}
func (s byFromLabelMealy) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
