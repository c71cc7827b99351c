package bling

import (
	"errors"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/lex"
	"github.com/kho-lab/bling/internal/normalize"
	"github.com/kho-lab/bling/internal/segment/bpe"
	"github.com/kho-lab/bling/internal/segment/unigram"
)

// ErrNoDictModel is returned by TextToIds when m carries no POS_DICT
// section; there is no built-in default subword dictionary.
var ErrNoDictModel = errors.New("bling: TextToIds requires a loaded model with a dictionary section")

// useCharMap reports whether the dictionary's character map applies:
// present on the model, and not opted out via Cfg.NoTransduction.
func (m *Model) useCharMap() bool {
	return m.charMap != nil && !m.posDict.cfg.NoTransduction
}

// TextToIds tokenizes text into subword ids. A BPE/BPE_OPT dictionary
// gets the sentence-piece treatment (leading U+2581, whitespace runs
// collapsed to a single U+2581) before the greedy-merge engine. A
// UNIGRAM_LM dictionary runs the Viterbi best-segmentation DP directly.
// Otherwise (a WordPiece-style dictionary) the word breaker and the
// dictionary's lexical matcher run independently over the same buffer;
// for each word span, dictionary spans that exactly and contiguously
// cover it become that word's ids, falling back to a single unkID when
// the dictionary leaves a gap or doesn't fully cover the word.
func TextToIds(m *Model, text []byte, unkID int32) (ids []int32, startOffsets, endOffsets []int, err error) {
	if m == nil || m.posDict == nil {
		return nil, nil, nil, ErrNoDictModel
	}
	if len(text) == 0 {
		return nil, nil, nil, nil
	}
	switch m.posDict.cfg.TokAlgo {
	case automaton.TokAlgoBPE, automaton.TokAlgoBPEOpt:
		return m.textToIdsBPE(text, unkID)
	case automaton.TokAlgoUnigramLM:
		return m.textToIdsUnigram(text, unkID)
	default:
		return m.textToIdsLex(text, unkID)
	}
}

// textToIdsUnigram decodes text (normalizing first if the dictionary
// carries a character map) and hands the buffer straight to the
// unigram-LM DP. A Moore-style dictionary (Cfg.FSMType = FSMMoore)
// walks its RS-DFA and candidate table directly; a Mealy-as-MPH
// dictionary (FSMMealyMPH) walks its Mealy-DFA and resolves candidates
// through K2I/I2Info instead.
func (m *Model) textToIdsUnigram(text []byte, unkID int32) (ids []int32, startOffsets, endOffsets []int, err error) {
	runes, byteOffsets, err := decodeForAnalysis(text)
	if err != nil {
		return nil, nil, nil, err
	}
	if m.useCharMap() {
		normed, normOffsets, nerr := normalize.Normalize(runes, m.charMap)
		if nerr != nil {
			return nil, nil, nil, nerr
		}
		runes = normed
		byteOffsets = composeOffsets(byteOffsets, normOffsets)
	}

	var spans []lex.Span
	if m.posDict.cfg.FSMType == automaton.FSMMealyMPH {
		spans, err = unigram.SegmentMPH(runes, m.posDict.mealy, m.posDict.k2i, m.posDict.i2info, unkID)
	} else {
		spans, err = unigram.Segment(runes, m.posDict.dfa, m.posDict.outputs, unkID)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	for _, sp := range spans {
		ids = append(ids, sp.Tag)
		startOffsets = append(startOffsets, byteOffsets[sp.From])
		endOffsets = append(endOffsets, byteEnd(byteOffsets, len(text), sp.To))
	}
	return ids, startOffsets, endOffsets, nil
}

func (m *Model) textToIdsLex(text []byte, unkID int32) (ids []int32, startOffsets, endOffsets []int, err error) {
	runes, byteOffsets, err := decodeForAnalysis(text)
	if err != nil {
		return nil, nil, nil, err
	}
	if m.useCharMap() {
		normed, normOffsets, nerr := normalize.Normalize(runes, m.charMap)
		if nerr != nil {
			return nil, nil, nil, nerr
		}
		runes = normed
		byteOffsets = composeOffsets(byteOffsets, normOffsets)
	}

	wbd := wbdModel(m)
	wordSpans, err := lex.Process(runes, wbd.dfa, wbd.outputs, wbd.cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	dictSpans, err := lex.Process(runes, m.posDict.dfa, m.posDict.outputs, m.posDict.cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	emit := func(from, to int, tag int32) {
		ids = append(ids, tag)
		startOffsets = append(startOffsets, byteOffsets[from])
		endOffsets = append(endOffsets, byteEnd(byteOffsets, len(text), to))
	}

	di := 0
	for _, ws := range wordSpans {
		if ws.Tag == lex.IgnoreTag {
			continue
		}
		for di < len(dictSpans) && dictSpans[di].To < ws.From {
			di++
		}
		var covering []lex.Span
		cursor := ws.From
		j := di
		for j < len(dictSpans) && dictSpans[j].From <= ws.To && dictSpans[j].Tag != lex.IgnoreTag && dictSpans[j].From == cursor {
			covering = append(covering, dictSpans[j])
			cursor = dictSpans[j].To + 1
			j++
		}
		if len(covering) == 0 || cursor != ws.To+1 {
			emit(ws.From, ws.To, unkID)
			continue
		}
		for _, ds := range covering {
			emit(ds.From, ds.To, ds.Tag)
		}
		di = j
	}
	return ids, startOffsets, endOffsets, nil
}

// spMark is the sentence-piece-style space marker used to mark
// word-initial subwords in the BPE path.
const spMark = rune(0x2581)

func (m *Model) textToIdsBPE(text []byte, unkID int32) (ids []int32, startOffsets, endOffsets []int, err error) {
	runes, byteOffsets, err := decodeForAnalysis(text)
	if err != nil {
		return nil, nil, nil, err
	}
	runes, byteOffsets = spPreprocess(runes, byteOffsets)
	if m.useCharMap() {
		normed, normOffsets, nerr := normalize.Normalize(runes, m.charMap)
		if nerr != nil {
			return nil, nil, nil, nerr
		}
		runes = normed
		byteOffsets = composeOffsets(byteOffsets, normOffsets)
	}

	var spans []lex.Span
	if m.posDict.cfg.TokAlgo == automaton.TokAlgoBPEOpt {
		spans, err = bpe.GreedyOpt(runes, m.posDict.alpha, m.posDict.merges, unkID)
	} else {
		spans, err = bpe.Greedy(runes, m.posDict.alpha, m.posDict.merges, unkID)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	for _, sp := range spans {
		ids = append(ids, sp.Tag)
		startOffsets = append(startOffsets, byteOffsets[sp.From])
		endOffsets = append(endOffsets, byteEnd(byteOffsets, len(text), sp.To))
	}
	return ids, startOffsets, endOffsets, nil
}

// spPreprocess prepends spMark and collapses every whitespace run to a
// single spMark, the sentence-piece convention expected before running
// the BPE engine. Each synthetic spMark inherits the byte offset of the
// whitespace run's first rune (or of the first rune of the text, for
// the prepended mark), since it has no single corresponding input byte
// of its own.
func spPreprocess(runes []rune, byteOffsets []int) ([]rune, []int) {
	lead := 0
	if len(byteOffsets) > 0 {
		lead = byteOffsets[0]
	}
	out := []rune{spMark}
	offs := []int{lead}
	i := 0
	for i < len(runes) {
		if isWhitespace(runes[i]) {
			start := i
			for i < len(runes) && isWhitespace(runes[i]) {
				i++
			}
			out = append(out, spMark)
			offs = append(offs, byteOffsets[start])
			continue
		}
		out = append(out, runes[i])
		offs = append(offs, byteOffsets[i])
		i++
	}
	return out, offs
}
