// Package automaton implements the read-only, zero-copy packed automaton
// views: the RS-DFA, the Mealy-DFA (used as a minimal perfect hash), the
// State->Output table, the packed array, and the packed multi-map. All
// types here borrow from an underlying byte buffer for their entire
// lifetime and never write to it.
package automaton

// Direction controls whether the lexical tokenizer and segmentation
// engines scan an input left-to-right or right-to-left.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// FSMType selects whether a dictionary section is keyed by walking an
// RS-DFA (Moore-style, outputs attached to accepting states) or by walking a
// Mealy-DFA whose accumulated per-transition deltas form a minimal
// perfect hash into a side K2I/I2Info table: the two are structurally
// different runtime paths, not one path with a flag.
type FSMType int

const (
	FSMMoore FSMType = iota
	FSMMealyMPH
)

// TokAlgo selects the subword segmentation runtime, if any.
type TokAlgo int

const (
	TokAlgoNone TokAlgo = iota
	TokAlgoUnigramLM
	TokAlgoBPE
	TokAlgoBPEOpt
)

// Config is a functional section's configuration record. The pointers
// into the packed image are resolved separately by whichever runtime
// (lex, unigram, bpe) the section feeds; Config carries only the scalar
// knobs. NoTransduction opts this section out of character-map
// normalization even when the model carries one; HasCharMap declares
// that this section expects one to be present, which the loader
// verifies against the model's actual CHAR_MAP section.
type Config struct {
	FSMType        FSMType
	IgnoreCase     bool
	NoTransduction bool
	Direction      Direction
	TokAlgo        TokAlgo
	HasCharMap     bool
}
