package normalize

import (
	"reflect"
	"testing"
)

func buildTestCharMap() *CharMap {
	entries := []CharMapEntry{
		{Key: []rune("ﬁ"), Value: []rune("fi")},    // single-codepoint ligature -> two codepoints
		{Key: []rune("ss"), Value: []rune("ß")},     // two codepoints -> one
		{Key: []rune("’"), Value: []rune("'")}, // curly quote -> ascii quote
		{Key: []rune("​"), Value: nil},         // zero-width space deleted
	}
	raw := EncodeCharMap(entries)
	cm, err := ParseCharMap(raw)
	if err != nil {
		panic(err)
	}
	return cm
}

func TestNormalizeSubstitutesLongestMatch(t *testing.T) {
	cm := buildTestCharMap()
	input := []rune("maßs ﬁle’s​done")
	out, offsets, err := Normalize(input, cm)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(out) != len(offsets) {
		t.Fatalf("len(out)=%d len(offsets)=%d", len(out), len(offsets))
	}
	if want := "maßs file'sdone"; string(out) != want {
		t.Errorf("got %q want %q", string(out), want)
	}
	if want := []int{0, 1, 2, 3, 4, 5, 5, 6, 7, 8, 9, 11, 12, 13, 14}; !reflect.DeepEqual(offsets, want) {
		t.Errorf("offsets = %v, want %v", offsets, want)
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Fatalf("offsets not monotone at %d: %v", i, offsets)
		}
	}
}

func TestNormalizeTwoCodepointKey(t *testing.T) {
	cm := buildTestCharMap()
	out, offsets, err := Normalize([]rune("ss"), cm)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []rune("ß")
	if !reflect.DeepEqual(out, want) {
		t.Errorf("got %q want %q", string(out), string(want))
	}
	if len(offsets) != 1 || offsets[0] != 0 {
		t.Errorf("offsets = %v, want [0]", offsets)
	}
}

func TestNormalizeDeletion(t *testing.T) {
	cm := buildTestCharMap()
	out, offsets, err := Normalize([]rune("a​b"), cm)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if string(out) != "ab" {
		t.Errorf("got %q want %q", string(out), "ab")
	}
	if !reflect.DeepEqual(offsets, []int{0, 2}) {
		t.Errorf("offsets = %v, want [0 2]", offsets)
	}
}

func TestNormalizePassthrough(t *testing.T) {
	cm := buildTestCharMap()
	out, offsets, err := Normalize([]rune("xyz"), cm)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if string(out) != "xyz" {
		t.Errorf("got %q", string(out))
	}
	if !reflect.DeepEqual(offsets, []int{0, 1, 2}) {
		t.Errorf("offsets = %v", offsets)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	cm := buildTestCharMap()
	input := []rune("maßs ﬁle’s​done")
	once, _, err := Normalize(input, cm)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	twice, _, err := Normalize(once, cm)
	if err != nil {
		t.Fatalf("Normalize (second pass): %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalize not idempotent: once=%q twice=%q", string(once), string(twice))
	}
}

func TestNormalizeScratchOverflow(t *testing.T) {
	entries := []CharMapEntry{
		{Key: []rune("a"), Value: []rune("aaaa")},
	}
	raw := EncodeCharMap(entries)
	cm, err := ParseCharMap(raw)
	if err != nil {
		t.Fatalf("ParseCharMap: %v", err)
	}
	_, _, err = Normalize([]rune("aa"), cm)
	if err != ErrScratchExhausted {
		t.Errorf("expected ErrScratchExhausted, got %v", err)
	}
}
