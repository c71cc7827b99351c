// Package bling is the public facade: it orchestrates the UTF-8 codec,
// character normalizer, lexical tokenizer, and segmentation engines into
// text-to-sentences/words/ids, space normalization, and fastText-style
// hashing operations over a loaded model. It speaks idiomatic Go —
// slices, strings, and error returns — rather than a (buffer,
// out_max)-with-sentinel C-ABI convention.
package bling

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/normalize"
	"github.com/kho-lab/bling/internal/packedimage"
	"github.com/kho-lab/bling/internal/segment/bpe"
)

const (
	versionMajor = 1
	versionMinor = 0
)

// GetVersion returns major*1000+minor.
func GetVersion() int { return versionMajor*1000 + versionMinor }

// Model is a loaded, immutable packed model image together with its
// decoded functional sections. Safe for concurrent use by multiple
// readers.
type Model struct {
	wbd     *lexModel
	sbd     *lexModel
	posDict *dictModel
	charMap *normalize.CharMap
}

// lexModel is a decoded WBD/SBD functional section: a packed RS-DFA
// plus State->Output table driving the lexical tokenizer.
type lexModel struct {
	cfg     automaton.Config
	dfa     *automaton.RSDFA
	outputs *automaton.State2Output
}

// dictModel is a decoded POS_DICT functional section. Its shape depends
// on cfg.TokAlgo and cfg.FSMType: a Moore-style lexical dictionary
// (None/UnigramLM, FSMMoore) decodes to a dfa+outputs pair exactly like
// lexModel; a Mealy-as-MPH lexical dictionary (None/UnigramLM,
// FSMMealyMPH) decodes to a mealy+k2i+i2info triple instead; a
// BPE/BPE_OPT dictionary decodes to an Alphabet+MergeTable pair.
type dictModel struct {
	cfg     automaton.Config
	dfa     *automaton.RSDFA
	outputs *automaton.State2Output
	mealy   *automaton.MealyDFA
	k2i     *automaton.PackedArray
	i2info  *automaton.PackedMultiMap
	alpha   *bpe.Alphabet
	merges  *bpe.MergeTable
}

// LoadModel reads a packed model image from path and decodes whichever
// functional sections it carries.
func LoadModel(path string) (*Model, error) {
	img, err := packedimage.Open(path)
	if err != nil {
		return nil, err
	}
	return modelFromImage(img)
}

func modelFromImage(img *packedimage.Image) (*Model, error) {
	m := &Model{}
	var err error
	if img.Has(packedimage.SectionWBD) {
		if m.wbd, err = loadLexModel(img, packedimage.SectionWBD); err != nil {
			return nil, fmt.Errorf("bling: WBD section: %w", err)
		}
	}
	if img.Has(packedimage.SectionSBD) {
		if m.sbd, err = loadLexModel(img, packedimage.SectionSBD); err != nil {
			return nil, fmt.Errorf("bling: SBD section: %w", err)
		}
	}
	if img.Has(packedimage.SectionPOSDict) {
		if m.posDict, err = loadDictModel(img); err != nil {
			return nil, fmt.Errorf("bling: POS_DICT section: %w", err)
		}
	}
	if img.Has(packedimage.SectionCharMap) {
		b, _ := img.Section(packedimage.SectionCharMap)
		if m.charMap, err = normalize.ParseCharMap(b); err != nil {
			return nil, fmt.Errorf("bling: char map section: %w", err)
		}
	}
	if m.wbd == nil && m.sbd == nil && m.posDict == nil {
		return nil, errors.New("bling: model has no functional sections")
	}
	if err := checkCharMapConsistency(m); err != nil {
		return nil, err
	}
	return m, nil
}

// checkCharMapConsistency rejects a model where a section's config
// claims a character map (Cfg.HasCharMap) but the image carries no
// CHAR_MAP section to back it.
func checkCharMapConsistency(m *Model) error {
	if m.charMap != nil {
		return nil
	}
	if m.wbd != nil && m.wbd.cfg.HasCharMap {
		return errors.New("bling: WBD section: Cfg.HasCharMap set but model carries no char map section")
	}
	if m.sbd != nil && m.sbd.cfg.HasCharMap {
		return errors.New("bling: SBD section: Cfg.HasCharMap set but model carries no char map section")
	}
	if m.posDict != nil && m.posDict.cfg.HasCharMap {
		return errors.New("bling: POS_DICT section: Cfg.HasCharMap set but model carries no char map section")
	}
	return nil
}

// FreeModel returns 1 if m is a live handle, 0 if m is nil. Go's garbage
// collector reclaims m once unreferenced; this only validates the
// handle, for callers ported from a manual-free API.
func FreeModel(m *Model) int {
	if m == nil {
		return 0
	}
	return 1
}

// funcSectionData is a functional section's on-disk shape: its scalar
// Config plus up to three payload blobs whose meaning depends on
// Cfg.TokAlgo/Cfg.FSMType (a lexical dictionary or WBD/SBD section only
// ever fills Blob1/Blob2; Blob3 carries I2Info for a Mealy-as-MPH
// dictionary section).
type funcSectionData struct {
	Cfg                 automaton.Config
	Blob1, Blob2, Blob3 []byte
}

func encodeFuncSection(cfg automaton.Config, blob1, blob2 []byte) ([]byte, error) {
	return encodeFuncSection3(cfg, blob1, blob2, nil)
}

// encodeFuncSection3 is encodeFuncSection's three-blob form, used by the
// Mealy-as-MPH dictionary shape (mealy dfa bytes, K2I bytes, I2Info
// bytes) where two blobs aren't enough to carry the section's payload.
func encodeFuncSection3(cfg automaton.Config, blob1, blob2, blob3 []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(funcSectionData{Cfg: cfg, Blob1: blob1, Blob2: blob2, Blob3: blob3}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFuncSection(b []byte) (funcSectionData, error) {
	var d funcSectionData
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&d)
	return d, err
}

func loadLexModel(img *packedimage.Image, id packedimage.SectionID) (*lexModel, error) {
	b, _ := img.Section(id)
	d, err := decodeFuncSection(b)
	if err != nil {
		return nil, err
	}
	dfa, err := automaton.ParseRSDFA(d.Blob1)
	if err != nil {
		return nil, err
	}
	outputs, err := automaton.ParseState2Output(d.Blob2)
	if err != nil {
		return nil, err
	}
	return &lexModel{cfg: d.Cfg, dfa: dfa, outputs: outputs}, nil
}

func loadDictModel(img *packedimage.Image) (*dictModel, error) {
	b, _ := img.Section(packedimage.SectionPOSDict)
	d, err := decodeFuncSection(b)
	if err != nil {
		return nil, err
	}
	dm := &dictModel{cfg: d.Cfg}
	switch {
	case d.Cfg.TokAlgo == automaton.TokAlgoBPE || d.Cfg.TokAlgo == automaton.TokAlgoBPEOpt:
		if dm.alpha, err = bpe.ParseAlphabet(d.Blob1); err != nil {
			return nil, err
		}
		if dm.merges, err = bpe.ParseMergeTable(d.Blob2); err != nil {
			return nil, err
		}
	case d.Cfg.FSMType == automaton.FSMMealyMPH:
		if dm.mealy, err = automaton.ParseMealyDFA(d.Blob1); err != nil {
			return nil, err
		}
		if dm.k2i, err = automaton.ParsePackedArray(d.Blob2); err != nil {
			return nil, err
		}
		if dm.i2info, err = automaton.ParsePackedMultiMap(d.Blob3); err != nil {
			return nil, err
		}
	default:
		if dm.dfa, err = automaton.ParseRSDFA(d.Blob1); err != nil {
			return nil, err
		}
		if dm.outputs, err = automaton.ParseState2Output(d.Blob2); err != nil {
			return nil, err
		}
	}
	return dm, nil
}

// wbdModel returns m's WBD section, or the process-wide built-in
// default word-breaking model when m is nil or carries none.
func wbdModel(m *Model) *lexModel {
	if m != nil && m.wbd != nil {
		return m.wbd
	}
	initDefaults()
	return defaultWBD
}

// sbdModel is wbdModel's sentence-breaking counterpart.
func sbdModel(m *Model) *lexModel {
	if m != nil && m.sbd != nil {
		return m.sbd
	}
	initDefaults()
	return defaultSBD
}
