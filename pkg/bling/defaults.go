package bling

import (
	"sync"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/lex"
)

// defaultOnce guards lazy construction of the process-wide built-in
// WBD/SBD models, giving callers of TextToSentences/TextToWords with a
// nil *Model a happens-before guarantee on first use without needing a
// package init() to pay the cost unconditionally.
var (
	defaultOnce sync.Once
	defaultWBD  *lexModel
	defaultSBD  *lexModel
)

func initDefaults() {
	defaultOnce.Do(func() {
		defaultWBD = buildDefaultWBD()
		defaultSBD = buildDefaultSBD()
	})
}

// defaultPunctuation is the set of single-rune tokens the built-in word
// breaker recognizes as their own word, independent of any letters or
// digits they're adjacent to.
var defaultPunctuation = []rune(",.!?;:'\"()[]{}-")

// buildDefaultWBD constructs a minimal default word-breaking model: any
// maximal run of ASCII letters, digits, or underscore is one WORD_TAG
// span, and each mark in defaultPunctuation is its own one-rune
// WORD_TAG span. It stands in for the large trained default models a
// real deployment would ship (training one is out of scope here; see
// DESIGN.md) and is built the same way any WBD model is: a packed
// RS-DFA plus a State->Output table, assembled directly through
// automaton.EncodeRSDFA/EncodeState2Output rather than
// internal/modelbuild's Builder, since Builder's trie is acyclic and a
// "run of word-class runes" matcher needs a self-loop transition.
func buildDefaultWBD() *lexModel {
	const (
		start    = int32(0)
		wordBody = int32(1)
	)
	nextState := int32(2)
	finals := []int32{wordBody}
	outputs := map[int32][]int32{wordBody: {lex.WordTag}}

	var transitions []automaton.Transition
	for _, r := range wordClassRunes() {
		transitions = append(transitions,
			automaton.Transition{From: start, Label: r, To: wordBody},
			automaton.Transition{From: wordBody, Label: r, To: wordBody})
	}
	for _, r := range defaultPunctuation {
		s := nextState
		nextState++
		transitions = append(transitions, automaton.Transition{From: start, Label: r, To: s})
		finals = append(finals, s)
		outputs[s] = []int32{lex.WordTag}
	}

	return mustLexModel(nextState, start, finals, transitions, outputs)
}

func wordClassRunes() []rune {
	var rs []rune
	for r := 'a'; r <= 'z'; r++ {
		rs = append(rs, r)
	}
	for r := 'A'; r <= 'Z'; r++ {
		rs = append(rs, r)
	}
	for r := '0'; r <= '9'; r++ {
		rs = append(rs, r)
	}
	return append(rs, '_')
}

// buildDefaultSBD constructs a minimal default sentence breaker: each
// of '.', '!', '?' is a one-rune WORD_TAG span marking a sentence
// terminator, which TextToSentences stitches into sentences. A real
// trained default model additionally suppresses terminators inside
// abbreviations and quoted speech; this stand-in does not attempt
// that, and DESIGN.md records the gap.
func buildDefaultSBD() *lexModel {
	const start = int32(0)
	nextState := int32(1)
	var transitions []automaton.Transition
	var finals []int32
	outputs := map[int32][]int32{}
	for _, r := range []rune{'.', '!', '?'} {
		s := nextState
		nextState++
		transitions = append(transitions, automaton.Transition{From: start, Label: r, To: s})
		finals = append(finals, s)
		outputs[s] = []int32{lex.WordTag}
	}
	return mustLexModel(nextState, start, finals, transitions, outputs)
}

func mustLexModel(numStates int32, initial int32, finals []int32, transitions []automaton.Transition, rawOutputs map[int32][]int32) *lexModel {
	dfa, err := automaton.ParseRSDFA(automaton.EncodeRSDFA(int(numStates), initial, finals, transitions))
	if err != nil {
		panic(err) // built from well-formed data above; cannot fail
	}
	outputs, err := automaton.ParseState2Output(automaton.EncodeState2Output(rawOutputs))
	if err != nil {
		panic(err)
	}
	return &lexModel{dfa: dfa, outputs: outputs}
}
