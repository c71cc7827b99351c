// Package lex is a longest-match scanner that walks a packed RS-DFA over
// a UTF-32 buffer, remembers the rightmost position at which an
// accepting state carried output, and emits that state's outputs as
// spans.
package lex

import "github.com/kho-lab/bling/internal/automaton"

// Reserved tag values.
const (
	WordTag   int32 = 1
	IgnoreTag int32 = 4
)

// Span is a (tag, from, to) triple: [from, to] are inclusive indices into
// the UTF-32 buffer under analysis.
type Span struct {
	Tag      int32
	From, To int
}

// Process scans input with dfa+outputs, honoring cfg.IgnoreCase and
// cfg.Direction. Positions with no accepting state are emitted as a
// single-rune IgnoreTag span.
func Process(input []rune, dfa *automaton.RSDFA, outputs *automaton.State2Output, cfg automaton.Config) ([]Span, error) {
	n := len(input)
	if n == 0 {
		return nil, nil
	}

	scan := input
	if cfg.Direction == automaton.RightToLeft {
		scan = reversed(input)
	}
	if cfg.IgnoreCase {
		scan = foldCase(scan)
	}

	var spans []Span
	i := 0
	for i < n {
		s := dfa.Initial()
		j := i
		bestJ := -1
		var bestOutputs []int32
		for j < n {
			next, ok := dfa.Step(s, scan[j])
			if !ok {
				break
			}
			s = next
			j++
			if dfa.IsFinal(s) {
				if outs := outputs.Outputs(s); len(outs) > 0 {
					bestJ = j - 1
					bestOutputs = outs
				}
			}
		}
		if bestJ >= 0 {
			for _, tag := range bestOutputs {
				spans = append(spans, Span{Tag: tag, From: i, To: bestJ})
			}
			i = bestJ + 1
			continue
		}
		spans = append(spans, Span{Tag: IgnoreTag, From: i, To: i})
		i++
	}

	if cfg.Direction == automaton.RightToLeft {
		spans = reverseSpans(spans, n)
	}
	return spans, nil
}

func reversed(input []rune) []rune {
	out := make([]rune, len(input))
	for i, r := range input {
		out[len(input)-1-i] = r
	}
	return out
}

// reverseSpans maps spans computed over the reversed buffer back onto
// positions in the original, n-rune buffer, restoring left-to-right order.
func reverseSpans(spans []Span, n int) []Span {
	out := make([]Span, len(spans))
	for i, sp := range spans {
		out[len(spans)-1-i] = Span{
			Tag:  sp.Tag,
			From: n - 1 - sp.To,
			To:   n - 1 - sp.From,
		}
	}
	return out
}

// foldCase applies simple Unicode case folding (ASCII + Latin-1 range,
// the common case for the built-in WBD/SBD models) prior to the DFA
// walk. The folded buffer is used only to drive delta; emitted span
// offsets always index the caller's original input.
func foldCase(input []rune) []rune {
	out := make([]rune, len(input))
	for i, r := range input {
		out[i] = foldRune(r)
	}
	return out
}

func foldRune(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	case r >= 0xC0 && r <= 0xDE && r != 0xD7:
		return r + 0x20
	default:
		return r
	}
}
