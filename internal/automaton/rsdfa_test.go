package automaton

import "testing"

// buildAbcDFA builds a tiny DFA accepting exactly "a", "ab", "abc".
func buildAbcDFA() *RSDFA {
	// states: 0=start, 1=after 'a' (final), 2=after 'ab' (final), 3=after 'abc' (final)
	trans := []Transition{
		{From: 0, Label: 'a', To: 1},
		{From: 1, Label: 'b', To: 2},
		{From: 2, Label: 'c', To: 3},
	}
	raw := EncodeRSDFA(4, 0, []int32{1, 2, 3}, trans)
	d, err := ParseRSDFA(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRSDFAWalk(t *testing.T) {
	d := buildAbcDFA()
	if d.Initial() != 0 {
		t.Fatalf("expected initial state 0, got %d", d.Initial())
	}
	s := d.Initial()
	for _, c := range "abc" {
		next, ok := d.Step(s, c)
		if !ok {
			t.Fatalf("no transition on %q from state %d", c, s)
		}
		s = next
		if !d.IsFinal(s) {
			t.Errorf("expected state %d to be final after consuming %q", s, c)
		}
	}
}

func TestRSDFANoTransition(t *testing.T) {
	d := buildAbcDFA()
	if _, ok := d.Step(d.Initial(), 'z'); ok {
		t.Errorf("expected no transition on 'z' from initial state")
	}
	if d.IsFinal(0) {
		t.Errorf("start state should not be final")
	}
	if d.IsFinal(99) {
		t.Errorf("out-of-range state should not be final")
	}
}
