// Package hashutil implements fastText-compatible hashing: an FNV-1a-like
// byte hash for unigrams and a multiply-accumulate combiner for word
// n-grams, both reduced mod a caller-supplied bucket count.
package hashutil

import "errors"

// ErrInvalidWordNgrams is returned when wordNgrams <= 0.
var ErrInvalidWordNgrams = errors.New("hashutil: word_ngrams must be > 0")

// ErrInvalidBucket is returned when bucket == 0.
var ErrInvalidBucket = errors.New("hashutil: bucket must be > 0")

const (
	fnvOffset = 2166136261
	fnvPrime  = 16777619
	ngramMul  = 116049371
)

// eosHash is the hash of the sentence-boundary token used to pad the
// right edge of the final n-gram window.
var eosHash = HashString("</s>")

// HashBytes sign-extends each byte to int32 before XOR-ing, matching
// fastText's use of `char` (signed on the reference platform).
func HashBytes(b []byte) uint32 {
	h := uint32(fnvOffset)
	for _, c := range b {
		h ^= uint32(int32(int8(c)))
		h *= fnvPrime
	}
	return h
}

func HashString(s string) uint32 {
	return HashBytes([]byte(s))
}

// TextToHashes hashes an already-split word sequence into unigram hashes
// followed by wordNgrams-order n-gram hashes, each reduced mod bucket. A
// hash is pushed at every intermediate order (bigram, trigram, ...,
// wordNgrams-gram) for each token, not just the fully-accumulated one;
// the window past the end of words is padded with the end-of-sentence
// hash. Total output length is len(words)*wordNgrams.
func TextToHashes(words []string, wordNgrams int, bucket uint32) ([]uint32, error) {
	if wordNgrams <= 0 {
		return nil, ErrInvalidWordNgrams
	}
	if bucket == 0 {
		return nil, ErrInvalidBucket
	}

	unigrams := make([]uint32, len(words))
	for i, w := range words {
		unigrams[i] = HashString(w)
	}

	out := make([]uint32, 0, len(words)*wordNgrams)
	for _, h := range unigrams {
		out = append(out, h%bucket)
	}

	for i := range words {
		acc := uint64(unigrams[i])
		for off := 1; off < wordNgrams; off++ {
			next := eosHash
			if i+off < len(words) {
				next = unigrams[i+off]
			}
			acc = acc*ngramMul + uint64(next)
			out = append(out, uint32(acc%uint64(bucket)))
		}
	}
	return out, nil
}
