// Package modelbuild constructs packed dictionary sections (RS-DFA +
// State->Output, per internal/automaton) from a text source: entries
// are added incrementally as (key, tags...) pairs and the whole trie is
// dumped as one packed RS-DFA and one packed State->Output section.
package modelbuild

import (
	"github.com/golang/glog"
	"github.com/kho/word"

	"github.com/kho-lab/bling/internal/automaton"
)

// Builder incrementally builds a trie over dictionary keys: each state's
// payload is a variable-length run of output ids.
type Builder struct {
	numStates int32
	trans     map[int32]map[rune]int32
	outputs   map[int32][]int32
}

func NewBuilder() *Builder {
	b := &Builder{trans: map[int32]map[rune]int32{}, outputs: map[int32][]int32{}}
	b.newState() // state 0: root
	return b
}

func (b *Builder) newState() int32 {
	s := b.numStates
	b.numStates++
	return s
}

func (b *Builder) findNextState(p int32, r rune) int32 {
	m := b.trans[p]
	if m == nil {
		m = map[rune]int32{}
		b.trans[p] = m
	}
	if q, ok := m[r]; ok {
		return q
	}
	q := b.newState()
	m[r] = q
	return q
}

// AddEntry inserts key into the trie and appends outputs to whatever
// outputs the key's terminal state already carries, so multiple calls
// with the same key accumulate (a state may carry more than one output,
// e.g. a WORD span plus its subtoken spans).
func (b *Builder) AddEntry(key []rune, outputs ...int32) {
	if len(key) == 0 {
		glog.Warningf("modelbuild: skipping empty dictionary key")
		return
	}
	s := int32(0)
	for _, r := range key {
		s = b.findNextState(s, r)
	}
	b.outputs[s] = append(b.outputs[s], outputs...)
}

// Dump packs the trie into an RS-DFA section and its matching
// State->Output section.
func (b *Builder) Dump() (dfaSection, outputSection []byte) {
	var transitions []automaton.Transition
	for p, m := range b.trans {
		for r, q := range m {
			transitions = append(transitions, automaton.Transition{From: p, Label: r, To: q})
		}
	}
	finals := make([]int32, 0, len(b.outputs))
	for s := range b.outputs {
		finals = append(finals, s)
	}
	dfaSection = automaton.EncodeRSDFA(int(b.numStates), 0, finals, transitions)
	outputSection = automaton.EncodeState2Output(b.outputs)
	return dfaSection, outputSection
}

// TagVocab assigns stable int32 ids to symbolic output labels (POS
// tags, subtoken markers), backed by github.com/kho/word.Vocab.
type TagVocab struct {
	v    *word.Vocab
	byID []string
}

func NewTagVocab() *TagVocab {
	return &TagVocab{v: word.NewVocab([]string{})}
}

// IDOf returns tag's stable id, assigning a new one on first use.
func (t *TagVocab) IDOf(tag string) int32 {
	id := t.v.IdOrAdd(tag)
	i := int(id)
	for len(t.byID) <= i {
		t.byID = append(t.byID, "")
	}
	t.byID[i] = tag
	return int32(id)
}

// TagOf reverses IDOf; ok is false for an id never assigned by this
// vocabulary.
func (t *TagVocab) TagOf(id int32) (tag string, ok bool) {
	if id < 0 || int(id) >= len(t.byID) {
		return "", false
	}
	s := t.byID[id]
	return s, s != ""
}
