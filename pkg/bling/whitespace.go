package bling

// isWhitespace reports whether r belongs to the extended whitespace
// class. It governs sentence stitching (the gap skipped between one
// sentence's terminator and the next sentence's first code point),
// the whitespace-run collapsing before BPE in TextToIds, and
// NormalizeSpaces' run-collapsing.
func isWhitespace(r rune) bool {
	switch {
	case r <= 0x20:
		return true
	case r == 0xA0, r == 0x202F, r == 0x205F, r == 0x2060, r == 0x2420, r == 0x2424, r == 0x3000, r == 0xFEFF:
		return true
	case r >= 0x2000 && r <= 0x200F:
		return true
	default:
		return false
	}
}
