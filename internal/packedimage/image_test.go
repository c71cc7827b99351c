package packedimage

import (
	"bytes"
	"testing"
)

func TestBuildParseRoundTrip(t *testing.T) {
	sections := map[SectionID][]byte{
		SectionWBD:     []byte("wbd-automaton-bytes"),
		SectionPOSDict: []byte("dict-bytes-longer-than-one-alignment-unit-12345678"),
	}
	raw := Build(sections)
	im, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for id, want := range sections {
		got, ok := im.Section(id)
		if !ok {
			t.Fatalf("section %v missing", id)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("section %v: got %q want %q", id, got, want)
		}
	}
	if im.Has(SectionCharMap) {
		t.Errorf("SectionCharMap should be absent")
	}
	if _, ok := im.Section(SectionSBD); ok {
		t.Errorf("SectionSBD should be absent")
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	if _, err := Parse([]byte("not a model")); err == nil {
		t.Errorf("expected error for bad magic")
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	raw := Build(map[SectionID][]byte{SectionWBD: []byte("hello")})
	if _, err := Parse(raw[:len(raw)-2]); err == nil {
		t.Errorf("expected error for truncated image")
	}
}

func TestEmptySectionIsPresentButEmpty(t *testing.T) {
	raw := Build(map[SectionID][]byte{SectionCharMap: {}})
	im, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, ok := im.Section(SectionCharMap)
	if !ok {
		t.Fatalf("expected empty-but-present section")
	}
	if len(b) != 0 {
		t.Errorf("expected zero length, got %d", len(b))
	}
}
