package bling

import (
	"strings"

	"github.com/kho-lab/bling/internal/lex"
)

// TextToWords splits text into word tokens using m's WBD model, or the
// process-wide built-in default word breaker when m is nil or carries
// no WBD section: every non-IGNORE span is a word; a literal space
// inside a word (a multi-word dictionary entry) is folded to an
// underscore so the joined output stays single-space delimited.
func TextToWords(m *Model, text []byte) (words []string, startOffsets, endOffsets []int, err error) {
	if len(text) == 0 {
		return nil, nil, nil, nil
	}
	fm := wbdModel(m)

	runes, byteOffsets, err := decodeForAnalysis(text)
	if err != nil {
		return nil, nil, nil, err
	}

	spans, err := lex.Process(runes, fm.dfa, fm.outputs, fm.cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, sp := range spans {
		if sp.Tag == lex.IgnoreTag {
			continue
		}
		word := strings.ReplaceAll(string(runes[sp.From:sp.To+1]), " ", "_")
		words = append(words, word)
		startOffsets = append(startOffsets, byteOffsets[sp.From])
		endOffsets = append(endOffsets, byteEnd(byteOffsets, len(text), sp.To))
	}
	return words, startOffsets, endOffsets, nil
}
