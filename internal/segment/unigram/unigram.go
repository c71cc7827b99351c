// Package unigram implements 1-best dictionary segmentation: a
// Viterbi-style dynamic program over dictionary matches driven by an
// RS-DFA and its State->Output candidate table.
package unigram

import (
	"math"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/lex"
)

// infScore stands in for the DP's "+infinity": unreachable positions.
// Scores are summed along a path, so this must stay far from overflow.
const infScore = math.MaxInt64 / 2

// Candidate is one (id, score) pair attached to a dictionary-entry final
// state, decoded from a packed automaton.State2Output value.
type Candidate struct {
	ID    int32
	Score int32
}

// decodeCandidates unpacks a State2Output value into (id, score) pairs,
// in declared order.
func decodeCandidates(raw []int32) []Candidate {
	if len(raw) == 0 {
		return nil
	}
	cs := make([]Candidate, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		cs = append(cs, Candidate{ID: raw[i], Score: raw[i+1]})
	}
	return cs
}

type backPtr struct {
	prev int
	id   int32
	len  int
	set  bool
}

// Segment returns the best segmentation of input into dictionary entries
// recognized by dfa, scored via candidates. unkID labels the single
// fallback span emitted when no segmentation reaches the end of input.
func Segment(input []rune, dfa *automaton.RSDFA, candidates *automaton.State2Output, unkID int32) ([]lex.Span, error) {
	n := len(input)
	if n == 0 {
		return nil, nil
	}

	best := make([]int64, n+1)
	back := make([]backPtr, n+1)
	for i := 1; i <= n; i++ {
		best[i] = infScore
	}

	for i := 0; i < n; i++ {
		if i > 0 && best[i] >= infScore {
			continue
		}
		s := dfa.Initial()
		for j := i; j < n; j++ {
			next, ok := dfa.Step(s, input[j])
			if !ok {
				break
			}
			s = next
			if !dfa.IsFinal(s) {
				continue
			}
			end := j + 1
			spanLen := end - i
			for _, c := range decodeCandidates(candidates.Outputs(s)) {
				score := best[i] + int64(c.Score)
				if betterCandidate(score, spanLen, c.ID, best[end], back[end]) {
					best[end] = score
					back[end] = backPtr{prev: i, id: c.ID, len: spanLen, set: true}
				}
			}
		}
	}

	if best[n] >= infScore {
		return []lex.Span{{Tag: unkID, From: 0, To: n - 1}}, nil
	}

	var reversed []lex.Span
	for k := n; k > 0; {
		bp := back[k]
		reversed = append(reversed, lex.Span{Tag: bp.id, From: bp.prev, To: k - 1})
		k = bp.prev
	}
	spans := make([]lex.Span, len(reversed))
	for i, sp := range reversed {
		spans[len(reversed)-1-i] = sp
	}
	return spans, nil
}

// SegmentMPH is Segment's counterpart for a dictionary represented as a
// Mealy-DFA used as a minimal perfect hash: walking an accepted
// substring accumulates a mph-id in dfa's own id space, k2i maps that
// mph-id to the dictionary's external id, and info (keyed by the
// external id) carries that id's score as its first element. Unlike
// Segment's RS-DFA/State->Output path, a Mealy walk yields exactly one
// candidate per accepting position rather than a declared-order list,
// since the MPH construction gives each accepted key a single id.
func SegmentMPH(input []rune, dfa *automaton.MealyDFA, k2i *automaton.PackedArray, info *automaton.PackedMultiMap, unkID int32) ([]lex.Span, error) {
	n := len(input)
	if n == 0 {
		return nil, nil
	}

	best := make([]int64, n+1)
	back := make([]backPtr, n+1)
	for i := 1; i <= n; i++ {
		best[i] = infScore
	}

	for i := 0; i < n; i++ {
		if i > 0 && best[i] >= infScore {
			continue
		}
		s := dfa.Initial()
		var mphID int32
		for j := i; j < n; j++ {
			next, delta, ok := dfa.Step(s, input[j])
			if !ok {
				break
			}
			s, mphID = next, mphID+delta
			if !dfa.IsFinal(s) {
				continue
			}
			end := j + 1
			spanLen := end - i
			extID := k2i.Get(mphID)
			rawInfo := info.Get(extID)
			if len(rawInfo) == 0 {
				continue
			}
			score := best[i] + int64(rawInfo[0])
			if betterCandidate(score, spanLen, extID, best[end], back[end]) {
				best[end] = score
				back[end] = backPtr{prev: i, id: extID, len: spanLen, set: true}
			}
		}
	}

	if best[n] >= infScore {
		return []lex.Span{{Tag: unkID, From: 0, To: n - 1}}, nil
	}

	var reversed []lex.Span
	for k := n; k > 0; {
		bp := back[k]
		reversed = append(reversed, lex.Span{Tag: bp.id, From: bp.prev, To: k - 1})
		k = bp.prev
	}
	spans := make([]lex.Span, len(reversed))
	for i, sp := range reversed {
		spans[len(reversed)-1-i] = sp
	}
	return spans, nil
}

// betterCandidate: lower score wins; equal score prefers the longer
// match; a further tie prefers the lexicographically (numerically)
// earlier id.
func betterCandidate(score int64, spanLen int, id int32, curBest int64, curBack backPtr) bool {
	if !curBack.set {
		return true
	}
	if score != curBest {
		return score < curBest
	}
	if spanLen != curBack.len {
		return spanLen > curBack.len
	}
	return id < curBack.id
}
