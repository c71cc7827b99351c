package bling

import (
	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/packedimage"
)

// Section bundles a functional section's scalar config with its raw
// payload blobs, ready to be packed into a model image. For a
// WBD/SBD/Moore-style POS_DICT section, Blob1/Blob2 are the dfa/output
// pair internal/modelbuild.Builder.Dump produces; for a BPE/BPE_OPT
// POS_DICT section they are bpe.EncodeAlphabet/bpe.EncodeMergeTable's
// output instead; for a Mealy-as-MPH POS_DICT section (Cfg.FSMType =
// FSMMealyMPH) Blob1/Blob2/Blob3 are automaton.EncodeMealyDFA's,
// EncodePackedArray's, and EncodePackedMultiMap's output. Blob3 is
// unused outside the Mealy-MPH case.
type Section struct {
	Cfg                 automaton.Config
	Blob1, Blob2, Blob3 []byte
}

// BuildImage assembles a packed model image (loadable via LoadModel)
// from its functional sections and an optional encoded character map.
// Model-building tools (cmd/blingc) call this once they've produced the
// raw section blobs with internal/modelbuild or internal/segment/bpe.
func BuildImage(sections map[packedimage.SectionID]Section, charMap []byte) ([]byte, error) {
	raw := make(map[packedimage.SectionID][]byte, len(sections)+1)
	for id, sec := range sections {
		b, err := encodeFuncSection3(sec.Cfg, sec.Blob1, sec.Blob2, sec.Blob3)
		if err != nil {
			return nil, err
		}
		raw[id] = b
	}
	if charMap != nil {
		raw[packedimage.SectionCharMap] = charMap
	}
	return packedimage.Build(raw), nil
}
