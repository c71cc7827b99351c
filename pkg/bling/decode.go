package bling

import "github.com/kho-lab/bling/internal/utf8x"

// decodeForAnalysis decodes text to UTF-32 with byte offsets and
// substitutes U+0000 with a space before analysis, shared by all three
// text-to-* operations.
func decodeForAnalysis(text []byte) ([]rune, []int, error) {
	runes, offsets, err := utf8x.Decode(text)
	if err != nil {
		return nil, nil, err
	}
	for i, r := range runes {
		if r == 0 {
			runes[i] = ' '
		}
	}
	return runes, offsets, nil
}

// byteEnd returns the last original-text byte index covered by the
// rune at position idx: one past runeOffsets[idx] up to (but not
// including) the next rune's start, or up to textLen for the final
// rune. This equals byte_start_of_last_codepoint + utf8_char_size - 1
// only when the next rune in runeOffsets is the next scalar of text;
// where the buffer skips original scalars (a whitespace run collapsed
// to one U+2581, or code points deleted by normalization), the end
// also covers those skipped bytes.
func byteEnd(runeOffsets []int, textLen, idx int) int {
	end := textLen - 1
	if idx+1 < len(runeOffsets) {
		end = runeOffsets[idx+1] - 1
	}
	if end < runeOffsets[idx] {
		// Normalization can expand one input rune into several output
		// runes that all share the same pre-normalization byte offset;
		// report a zero-width end rather than a negative range.
		return runeOffsets[idx]
	}
	return end
}

// composeOffsets maps post-normalization rune indices back to original
// UTF-8 byte offsets by composing byteOffsets (UTF-32 index -> original
// byte offset) with normOffsets (post-normalization index -> pre-
// normalization UTF-32 index).
func composeOffsets(byteOffsets, normOffsets []int) []int {
	out := make([]int, len(normOffsets))
	for i, pre := range normOffsets {
		out[i] = byteOffsets[pre]
	}
	return out
}
