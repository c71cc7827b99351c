package modelbuild

import (
	"bytes"
	"io"
	"strings"

	"github.com/kho/stream"
)

// ParseDictText reads a dictionary-text-format source into b: one entry
// per line, "word<TAB>tag[,tag...]"; blank lines and "#"-prefixed
// comment lines are skipped. Every tag name is resolved to a stable id
// via vocab.
func ParseDictText(r io.Reader, b *Builder, vocab *TagVocab) error {
	return stream.Run(stream.NewScanEnumeratorWith(r, dictLineSplit), dictTop{b, vocab})
}

type dictTop struct {
	builder *Builder
	vocab   *TagVocab
}

func (it dictTop) Final() error { return nil }

func (it dictTop) Next(line []byte) (stream.Iteratee, bool, error) {
	s := string(line)
	if s == "" || strings.HasPrefix(s, "#") {
		return it, true, nil
	}
	parts := strings.SplitN(s, "\t", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, false, stream.ErrExpect(`"word<TAB>tag[,tag...]"`)
	}
	key := []rune(parts[0])
	tags := strings.Split(parts[1], ",")
	outs := make([]int32, len(tags))
	for i, tag := range tags {
		outs[i] = it.vocab.IDOf(tag)
	}
	it.builder.AddEntry(key, outs...)
	return it, true, nil
}

// dictLineSplit is a bufio.SplitFunc-shaped line splitter, trimming a
// trailing \r and yielding the final unterminated line at EOF.
func dictLineSplit(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, bytes.TrimRight(data[:i], "\r"), nil
	}
	if atEOF && len(data) > 0 {
		return len(data), bytes.TrimRight(data, "\r"), nil
	}
	if atEOF {
		return 0, nil, io.EOF
	}
	return 0, nil, nil
}
