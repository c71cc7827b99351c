package unigram

import (
	"reflect"
	"testing"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/lex"
)

// buildDict recognizes "a" (id 0, score 5), "ab" (id 1, score 3), and
// "b" (id 2, score 5), so that "ab" is cheaper as one unit than as "a"+"b".
func buildDict() (*automaton.RSDFA, *automaton.State2Output) {
	trans := []automaton.Transition{
		{From: 0, Label: 'a', To: 1},
		{From: 1, Label: 'b', To: 2},
		{From: 0, Label: 'b', To: 3},
	}
	raw := automaton.EncodeRSDFA(4, 0, []int32{1, 2, 3}, trans)
	dfa, err := automaton.ParseRSDFA(raw)
	if err != nil {
		panic(err)
	}
	outs := automaton.EncodeState2Output(map[int32][]int32{
		1: {0, 5}, // "a" -> id 0, score 5
		2: {1, 3}, // "ab" -> id 1, score 3
		3: {2, 5}, // "b" -> id 2, score 5
	})
	s2o, err := automaton.ParseState2Output(outs)
	if err != nil {
		panic(err)
	}
	return dfa, s2o
}

func TestSegmentPrefersCheaperWholeMatch(t *testing.T) {
	dfa, s2o := buildDict()
	spans, err := Segment([]rune("ab"), dfa, s2o, -1)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	want := []lex.Span{{Tag: 1, From: 0, To: 1}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %+v, want %+v", spans, want)
	}
}

func TestSegmentFallsBackWhenUnreachable(t *testing.T) {
	dfa, s2o := buildDict()
	spans, err := Segment([]rune("abc"), dfa, s2o, -1)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	want := []lex.Span{{Tag: -1, From: 0, To: 2}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %+v, want %+v", spans, want)
	}
}

func TestSegmentTiesPreferLongerThenLowerID(t *testing.T) {
	// Two entries, "a" (id 9, score 5) and "aa" (id 0, score 10), plus a
	// second single-char "a" entry would be a DFA conflict, so instead
	// verify via two equal-total-score paths over "aa": one path is
	// "a"+"a" (ids 9,9, total 10), the other is "aa" (id 0, total 10).
	// The longer single match ("aa") must win the tie.
	trans := []automaton.Transition{
		{From: 0, Label: 'a', To: 1},
		{From: 1, Label: 'a', To: 2},
	}
	raw := automaton.EncodeRSDFA(3, 0, []int32{1, 2}, trans)
	dfa, err := automaton.ParseRSDFA(raw)
	if err != nil {
		t.Fatal(err)
	}
	outs := automaton.EncodeState2Output(map[int32][]int32{
		1: {9, 5},
		2: {0, 10},
	})
	s2o, err := automaton.ParseState2Output(outs)
	if err != nil {
		t.Fatal(err)
	}
	spans, err := Segment([]rune("aa"), dfa, s2o, -1)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	want := []lex.Span{{Tag: 0, From: 0, To: 1}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %+v, want %+v", spans, want)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	dfa, s2o := buildDict()
	spans, err := Segment(nil, dfa, s2o, -1)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if spans != nil {
		t.Errorf("expected nil spans for empty input, got %+v", spans)
	}
}
