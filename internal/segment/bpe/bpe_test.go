package bpe

import (
	"reflect"
	"testing"

	"github.com/kho-lab/bling/internal/lex"
)

// Alphabet: a=1, b=2, c=3. Merges: (a,b)->4 rank 0, (4,c)->5 rank 1.
// So "abc" should merge to "ab" first, then "ab"+"c" -> single unit 5.
func buildAlphabetAndMerges(t *testing.T) (*Alphabet, *MergeTable) {
	t.Helper()
	alpha, err := ParseAlphabet(EncodeAlphabet(map[rune]int32{'a': 1, 'b': 2, 'c': 3, 'd': 6}))
	if err != nil {
		t.Fatal(err)
	}
	merges, err := ParseMergeTable(EncodeMergeTable([]MergeRule{
		{Left: 1, Right: 2, Rank: 0, MergedID: 4},
		{Left: 4, Right: 3, Rank: 1, MergedID: 5},
	}))
	if err != nil {
		t.Fatal(err)
	}
	return alpha, merges
}

func TestGreedyMergesInRankOrder(t *testing.T) {
	alpha, merges := buildAlphabetAndMerges(t)
	spans, err := Greedy([]rune("abc"), alpha, merges, -1)
	if err != nil {
		t.Fatalf("Greedy: %v", err)
	}
	want := []lex.Span{{Tag: 5, From: 0, To: 2}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %+v, want %+v", spans, want)
	}
}

func TestGreedyLeavesUnmergeableAlone(t *testing.T) {
	alpha, merges := buildAlphabetAndMerges(t)
	spans, err := Greedy([]rune("abd"), alpha, merges, -1)
	if err != nil {
		t.Fatalf("Greedy: %v", err)
	}
	// "ab" merges (rank 0); "d" has no rule with unit 4, stays separate.
	want := []lex.Span{
		{Tag: 4, From: 0, To: 1},
		{Tag: 6, From: 2, To: 2},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %+v, want %+v", spans, want)
	}
}

func TestGreedyAndGreedyOptAgree(t *testing.T) {
	alpha, merges := buildAlphabetAndMerges(t)
	for _, s := range []string{"abc", "abd", "dddd", "abcabc", "a", ""} {
		g, err := Greedy([]rune(s), alpha, merges, -1)
		if err != nil {
			t.Fatalf("Greedy(%q): %v", s, err)
		}
		o, err := GreedyOpt([]rune(s), alpha, merges, -1)
		if err != nil {
			t.Fatalf("GreedyOpt(%q): %v", s, err)
		}
		if !reflect.DeepEqual(g, o) {
			t.Errorf("Greedy/GreedyOpt disagree on %q: greedy=%+v opt=%+v", s, g, o)
		}
	}
}

func TestUnknownCodePointFallsBackToUnkID(t *testing.T) {
	alpha, merges := buildAlphabetAndMerges(t)
	spans, err := Greedy([]rune("az"), alpha, merges, -1)
	if err != nil {
		t.Fatalf("Greedy: %v", err)
	}
	want := []lex.Span{
		{Tag: 1, From: 0, To: 0},
		{Tag: -1, From: 1, To: 1},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %+v, want %+v", spans, want)
	}
}
