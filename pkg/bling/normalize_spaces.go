package bling

import "github.com/kho-lab/bling/internal/utf8x"

// NormalizeSpaces collapses every run of whitespace-class code points
// into a single instance of spaceCodepoint. It is a standalone
// operation distinct from the normalizer TextToIds runs internally:
// callers use it to canonicalize raw text before storage or display,
// not as part of the tokenization pipeline.
func NormalizeSpaces(text []byte, spaceCodepoint rune) ([]byte, error) {
	runes, _, err := utf8x.Decode(text)
	if err != nil {
		return nil, err
	}
	out := make([]rune, 0, len(runes))
	i := 0
	for i < len(runes) {
		if isWhitespace(runes[i]) {
			out = append(out, spaceCodepoint)
			for i < len(runes) && isWhitespace(runes[i]) {
				i++
			}
			continue
		}
		out = append(out, runes[i])
		i++
	}
	return utf8x.Encode(out), nil
}
