// Package packedimage implements the read-only model-image reader:
// a contiguous immutable byte blob fronted by a directory that maps a
// section id to a byte range. All accessors here borrow from the
// underlying buffer; nothing is copied.
package packedimage

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/kho/easy"
)

// SectionID enumerates the functional sections a model image may carry.
type SectionID int

const (
	SectionWBD SectionID = iota
	SectionSBD
	SectionPOSDict
	SectionCharMap
)

func (id SectionID) String() string {
	switch id {
	case SectionWBD:
		return "WBD"
	case SectionSBD:
		return "SBD"
	case SectionPOSDict:
		return "POS_DICT"
	case SectionCharMap:
		return "CHAR_MAP"
	default:
		return fmt.Sprintf("SectionID(%d)", int(id))
	}
}

// magic identifies a bling packed model file.
const magic = "#bling01"

const align = 8

// entry records where a section lives in the image, or that it is absent.
type entry struct {
	Offset int64
	Size   int64 // -1 means the section is absent.
}

// Image is a read-only, zero-copy view over a packed model file.
type Image struct {
	data []byte
	dir  map[SectionID]entry
}

// Section returns the bytes for id, or ok=false if the section is absent
// from this image.
func (im *Image) Section(id SectionID) (b []byte, ok bool) {
	e, present := im.dir[id]
	if !present || e.Size < 0 {
		return nil, false
	}
	return im.data[e.Offset : e.Offset+e.Size], true
}

// Has reports whether the image carries a (non-absent) section id.
func (im *Image) Has(id SectionID) bool {
	_, ok := im.Section(id)
	return ok
}

// Build assembles a packed image in memory from named sections. A section
// present in the map with a nil/empty slice is still recorded as present
// (size 0); sections never mentioned are absent.
func Build(sections map[SectionID][]byte) []byte {
	// Payloads are laid out in ascending section-id order. The directory
	// itself is gob-encoded from a map, whose entry order gob does not
	// fix, so two builds of the same multi-section input may differ in
	// their directory bytes (never in its length or in any offset).
	ids := make([]SectionID, 0, len(sections))
	for id := range sections {
		ids = append(ids, id)
	}
	sortSectionIDs(ids)

	payload := make([]byte, 0, 256)
	rel := make(map[SectionID]entry, len(sections))
	for _, id := range ids {
		b := sections[id]
		for len(payload)%align != 0 {
			payload = append(payload, 0)
		}
		rel[id] = entry{Offset: int64(len(payload)), Size: int64(len(b))}
		payload = append(payload, b...)
	}

	// The directory's own encoded size depends on the offsets it holds, and
	// the offsets depend on where the payload starts, which depends on the
	// directory's size. Settle this by starting from the header size with
	// payload-relative offsets and growing base until the directory
	// encoded with absolute offsets fits in front of it.
	headerLen := func(dir map[SectionID]entry) int {
		var dirBuf bytes.Buffer
		if err := gob.NewEncoder(&dirBuf).Encode(dir); err != nil {
			panic(err) // dir only ever holds plain ints; this cannot fail.
		}
		lenBytes := make([]byte, binary.MaxVarintLen64)
		n := binary.PutUvarint(lenBytes, uint64(dirBuf.Len()))
		return len(magic) + n + dirBuf.Len()
	}
	base := alignUp(headerLen(rel))
	var abs map[SectionID]entry
	for {
		abs = make(map[SectionID]entry, len(rel))
		for id, e := range rel {
			abs[id] = entry{Offset: e.Offset + int64(base), Size: e.Size}
		}
		if hl := headerLen(abs); hl > base {
			base = alignUp(hl)
			continue
		}
		break
	}
	var dirBuf bytes.Buffer
	if err := gob.NewEncoder(&dirBuf).Encode(abs); err != nil {
		panic(err)
	}
	var out bytes.Buffer
	out.WriteString(magic)
	lenBytes := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(lenBytes, uint64(dirBuf.Len()))
	out.Write(lenBytes[:n])
	out.Write(dirBuf.Bytes())
	for out.Len() < base {
		out.WriteByte(0)
	}
	out.Write(payload)
	return out.Bytes()
}

func alignUp(n int) int {
	if r := n % align; r != 0 {
		n += align - r
	}
	return n
}

func sortSectionIDs(ids []SectionID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// Parse interprets raw as a packed model image, borrowing from raw for the
// lifetime of the returned Image.
func Parse(raw []byte) (*Image, error) {
	if len(raw) < len(magic) || string(raw[:len(magic)]) != magic {
		return nil, errors.New("packedimage: not a bling model binary file")
	}
	read := len(magic)
	dirLen, n := binary.Uvarint(raw[read:])
	if n <= 0 {
		return nil, errors.New("packedimage: error reading directory size")
	}
	read += n
	if read+int(dirLen) > len(raw) {
		return nil, errors.New("packedimage: truncated directory")
	}
	var dir map[SectionID]entry
	if err := gob.NewDecoder(bytes.NewReader(raw[read : read+int(dirLen)])).Decode(&dir); err != nil {
		return nil, fmt.Errorf("packedimage: decoding directory: %w", err)
	}
	for id, e := range dir {
		if e.Size < 0 {
			continue
		}
		if e.Offset < 0 || e.Offset+e.Size > int64(len(raw)) {
			return nil, fmt.Errorf("packedimage: section %v out of range", id)
		}
	}
	return &Image{data: raw, dir: dir}, nil
}

// Open reads path (transparently decompressing gzip via easy.Open) and
// parses it as a packed model image. This keeps the whole model
// resident rather than mmap-ing it, since models are small enough in
// practice and this avoids platform-specific syscalls in the read path.
func Open(path string) (*Image, error) {
	f, err := easy.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
