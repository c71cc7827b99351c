package bling

import (
	"strings"

	"github.com/kho-lab/bling/internal/lex"
)

// TextToSentences splits text into sentences using m's SBD model, or
// the process-wide built-in default sentence breaker when m is nil or
// carries no SBD section: run the lexical tokenizer, take each
// non-IGNORE span's end as a sentence terminator, start the next
// sentence at the first non-whitespace code point after it, and always
// flush a trailing sentence even without a terminating span. Internal
// newlines within a sentence are folded to spaces. Offsets are byte
// ranges into the original UTF-8 text.
func TextToSentences(m *Model, text []byte) (sentences []string, startOffsets, endOffsets []int, err error) {
	if len(text) == 0 {
		return nil, nil, nil, nil
	}
	fm := sbdModel(m)

	runes, byteOffsets, err := decodeForAnalysis(text)
	if err != nil {
		return nil, nil, nil, err
	}

	spans, err := lex.Process(runes, fm.dfa, fm.outputs, fm.cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	start := 0
	emit := func(from, to int) {
		sentences = append(sentences, strings.ReplaceAll(string(runes[from:to+1]), "\n", " "))
		startOffsets = append(startOffsets, byteOffsets[from])
		endOffsets = append(endOffsets, byteEnd(byteOffsets, len(text), to))
	}
	for _, sp := range spans {
		if sp.Tag == lex.IgnoreTag {
			continue
		}
		emit(start, sp.To)
		start = skipWhitespace(runes, sp.To+1)
	}
	if start < len(runes) {
		emit(start, len(runes)-1)
	}
	return sentences, startOffsets, endOffsets, nil
}

func skipWhitespace(runes []rune, i int) int {
	for i < len(runes) && isWhitespace(runes[i]) {
		i++
	}
	return i
}
