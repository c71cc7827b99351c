package normalize

import "errors"

// ErrScratchExhausted is returned when the normalized output would
// exceed 2x the input length. Overflow is detected and reported rather
// than silently truncated.
var ErrScratchExhausted = errors.New("normalize: output exceeds 2x input scratch bound")

// Normalize scans input left to right, substituting the longest matching
// CharMap rule at each position (or passing the code point through
// unchanged if none applies), and returns the normalized output together
// with offsets[i] = the input index that produced output[i].
func Normalize(input []rune, cm *CharMap) (output []rune, offsets []int, err error) {
	limit := 2 * len(input)
	output = make([]rune, 0, len(input))
	offsets = make([]int, 0, len(input))
	i := 0
	for i < len(input) {
		val, keyLen, matched := cm.longestMatch(input, i)
		if !matched {
			if len(output) >= limit {
				return nil, nil, ErrScratchExhausted
			}
			output = append(output, input[i])
			offsets = append(offsets, i)
			i++
			continue
		}
		for _, r := range val {
			if len(output) >= limit {
				return nil, nil, ErrScratchExhausted
			}
			output = append(output, r)
			offsets = append(offsets, i)
		}
		i += keyLen
	}
	return output, offsets, nil
}
