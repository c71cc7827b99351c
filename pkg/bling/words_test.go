package bling

import (
	"reflect"
	"testing"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/lex"
)

// buildMultiWordWBD builds a lexModel whose only entry is the literal
// string "new york city" (spaces included), to exercise the
// space-to-underscore folding a multi-word dictionary entry needs.
func buildMultiWordWBD() *lexModel {
	key := []rune("new york city")
	var transitions []automaton.Transition
	for i, r := range key {
		transitions = append(transitions, automaton.Transition{From: int32(i), Label: r, To: int32(i + 1)})
	}
	return mustLexModel(int32(len(key)+1), 0, []int32{int32(len(key))}, transitions, map[int32][]int32{int32(len(key)): {lex.WordTag}})
}

func TestTextToWordsUsesBuiltinDefaultWhenModelIsNil(t *testing.T) {
	words, start, end, err := TextToWords(nil, []byte("Hello, world!"))
	if err != nil {
		t.Fatalf("TextToWords: %v", err)
	}
	want := []string{"Hello", ",", "world", "!"}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("words = %v, want %v", words, want)
	}
	if len(start) != len(want) || len(end) != len(want) {
		t.Fatalf("offsets length mismatch: start=%v end=%v", start, end)
	}
	if start[0] != 0 || end[0] != 4 {
		t.Errorf("word 0 offsets = [%d,%d], want [0,4]", start[0], end[0])
	}
}

func TestTextToWordsEmptyInput(t *testing.T) {
	words, start, end, err := TextToWords(nil, nil)
	if err != nil || words != nil || start != nil || end != nil {
		t.Errorf("empty input: got (%v,%v,%v,%v), want all nil", words, start, end, err)
	}
}

func TestTextToWordsFoldsInternalSpaceToUnderscore(t *testing.T) {
	m := &Model{wbd: buildMultiWordWBD()}
	words, _, _, err := TextToWords(m, []byte("new york city"))
	if err != nil {
		t.Fatalf("TextToWords: %v", err)
	}
	if len(words) != 1 || words[0] != "new_york_city" {
		t.Errorf("words = %v, want [new_york_city]", words)
	}
}
