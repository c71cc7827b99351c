package bling

import (
	"strings"

	"github.com/kho-lab/bling/internal/hashutil"
)

// TextToHashes hashes pre-tokenized, space-delimited UTF-8 text into
// fastText-compatible unigram and word n-gram hashes. It splits on
// whitespace and delegates the hashing itself to internal/hashutil.
func TextToHashes(text []byte, wordNgrams int, bucket uint32) ([]uint32, error) {
	words := strings.Fields(string(text))
	return hashutil.TextToHashes(words, wordNgrams, bucket)
}
