// Command blingc compiles a dictionary-text-format source into a
// packed WBD/SBD model image, and can apply a compiled (or built-in
// default) model to stdin text for inspection.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/kho/easy"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/modelbuild"
	"github.com/kho-lab/bling/internal/packedimage"
	"github.com/kho-lab/bling/pkg/bling"
)

func main() {
	var args struct {
		Cmd string `name:"cmd" usage:"compile-wbd | compile-sbd | sentences | words | ids"`
	}
	modelPath := flag.String("model", "", "packed model image path (compile-* writes it, sentences/words/ids read it; empty selects the built-in default where one exists)")
	easy.ParseFlagsAndArgs(&args)

	switch args.Cmd {
	case "compile-wbd":
		compile(*modelPath, packedimage.SectionWBD)
	case "compile-sbd":
		compile(*modelPath, packedimage.SectionSBD)
	case "sentences":
		run(*modelPath, runSentences)
	case "words":
		run(*modelPath, runWords)
	case "ids":
		run(*modelPath, runIds)
	default:
		glog.Fatalf("unknown -cmd %q", args.Cmd)
	}
}

// compile reads a dictionary-text-format source from stdin (see
// internal/modelbuild.ParseDictText) and writes a packed model image
// carrying it as the given section to path.
func compile(path string, id packedimage.SectionID) {
	if path == "" {
		glog.Fatal("-model is required for compile-*")
	}
	b := modelbuild.NewBuilder()
	v := modelbuild.NewTagVocab()
	if err := modelbuild.ParseDictText(os.Stdin, b, v); err != nil {
		glog.Fatal("parsing dictionary: ", err)
	}
	dfaSection, outSection := b.Dump()
	img, err := bling.BuildImage(map[packedimage.SectionID]bling.Section{
		id: {Cfg: automaton.Config{}, Blob1: dfaSection, Blob2: outSection},
	}, nil)
	if err != nil {
		glog.Fatal("building image: ", err)
	}
	w := easy.MustCreate(path)
	defer w.Close()
	if _, err := w.Write(img); err != nil {
		glog.Fatal("writing image: ", err)
	}
}

func loadModel(path string) *bling.Model {
	if path == "" {
		return nil
	}
	m, err := bling.LoadModel(path)
	if err != nil {
		glog.Fatal("loading model: ", err)
	}
	return m
}

func run(path string, f func(m *bling.Model, line []byte) (interface{}, error)) {
	m := loadModel(path)
	in := bufio.NewScanner(os.Stdin)
	out := json.NewEncoder(os.Stdout)
	for in.Scan() {
		v, err := f(m, in.Bytes())
		if err != nil {
			glog.Errorf("line failed: %v", err)
			continue
		}
		if err := out.Encode(v); err != nil {
			glog.Fatal(err)
		}
	}
	if err := in.Err(); err != nil && err != io.EOF {
		glog.Fatal(err)
	}
}

type spanResult struct {
	Text  []string `json:"text"`
	Start []int    `json:"start"`
	End   []int    `json:"end"`
}

func runSentences(m *bling.Model, line []byte) (interface{}, error) {
	text, start, end, err := bling.TextToSentences(m, line)
	return spanResult{text, start, end}, err
}

func runWords(m *bling.Model, line []byte) (interface{}, error) {
	text, start, end, err := bling.TextToWords(m, line)
	return spanResult{text, start, end}, err
}

func runIds(m *bling.Model, line []byte) (interface{}, error) {
	ids, start, end, err := bling.TextToIds(m, line, -1)
	return struct {
		Ids   []int32 `json:"ids"`
		Start []int   `json:"start"`
		End   []int   `json:"end"`
	}{ids, start, end}, err
}
