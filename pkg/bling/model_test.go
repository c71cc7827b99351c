package bling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/lex"
	"github.com/kho-lab/bling/internal/modelbuild"
	"github.com/kho-lab/bling/internal/packedimage"
)

func TestGetVersion(t *testing.T) {
	if got := GetVersion(); got != 1000 {
		t.Errorf("GetVersion() = %d, want 1000", got)
	}
}

func TestFreeModel(t *testing.T) {
	if FreeModel(nil) != 0 {
		t.Errorf("FreeModel(nil) != 0")
	}
	if FreeModel(&Model{}) != 1 {
		t.Errorf("FreeModel(non-nil) != 1")
	}
}

func TestEncodeDecodeFuncSectionRoundTrip(t *testing.T) {
	cfg := automaton.Config{TokAlgo: automaton.TokAlgoUnigramLM, IgnoreCase: true}
	b, err := encodeFuncSection(cfg, []byte("dfa-bytes"), []byte("output-bytes"))
	if err != nil {
		t.Fatalf("encodeFuncSection: %v", err)
	}
	d, err := decodeFuncSection(b)
	if err != nil {
		t.Fatalf("decodeFuncSection: %v", err)
	}
	if d.Cfg != cfg {
		t.Errorf("Cfg = %+v, want %+v", d.Cfg, cfg)
	}
	if string(d.Blob1) != "dfa-bytes" || string(d.Blob2) != "output-bytes" {
		t.Errorf("blobs = %q, %q", d.Blob1, d.Blob2)
	}
}

func TestLoadModelRoundTripsWBDSection(t *testing.T) {
	b := modelbuild.NewBuilder()
	b.AddEntry([]rune("cat"), lex.WordTag)
	dfaSection, outSection := b.Dump()
	img, err := BuildImage(map[packedimage.SectionID]Section{
		packedimage.SectionWBD: {Cfg: automaton.Config{}, Blob1: dfaSection, Blob2: outSection},
	}, nil)
	if err != nil {
		t.Fatalf("BuildImage: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.bin")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if m.wbd == nil {
		t.Fatal("expected a decoded WBD section")
	}
	words, _, _, err := TextToWords(m, []byte("cat"))
	if err != nil {
		t.Fatalf("TextToWords: %v", err)
	}
	if len(words) != 1 || words[0] != "cat" {
		t.Errorf("words = %v, want [cat]", words)
	}
}

func TestLoadModelRejectsEmptyImage(t *testing.T) {
	img, err := BuildImage(nil, nil)
	if err != nil {
		t.Fatalf("BuildImage: %v", err)
	}
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadModel(path); err == nil {
		t.Errorf("expected an error loading a model with no functional sections")
	}
}
