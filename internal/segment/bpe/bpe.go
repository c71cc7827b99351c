// Package bpe implements greedy-merge best-segmentation in two variants
// that must agree on every input: Greedy (linear rescan) and GreedyOpt
// (container/heap lazy-deletion priority queue over mergeable pairs).
package bpe

import (
	"container/heap"

	"github.com/kho-lab/bling/internal/automaton"
	"github.com/kho-lab/bling/internal/lex"
)

// Alphabet maps a base code point to its unit id, used to seed the
// initial one-rune units before any merges.
type Alphabet struct {
	mm *automaton.PackedMultiMap
}

func EncodeAlphabet(m map[rune]int32) []byte {
	packed := make(map[int32][]int32, len(m))
	for r, id := range m {
		packed[int32(r)] = []int32{id}
	}
	return automaton.EncodePackedMultiMap(packed)
}

func ParseAlphabet(b []byte) (*Alphabet, error) {
	mm, err := automaton.ParsePackedMultiMap(b)
	if err != nil {
		return nil, err
	}
	return &Alphabet{mm: mm}, nil
}

func (a *Alphabet) ID(r rune) (int32, bool) {
	vals := a.mm.Get(int32(r))
	if len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// MergeTable holds the merge priorities (rank, merged id) for adjacent
// unit-id pairs, bucketed by the left id of the pair to fit a two-id key
// into automaton.PackedMultiMap's single-int32 key.
type MergeTable struct {
	mm *automaton.PackedMultiMap
}

// MergeRule is one entry: (left, right) -> (rank, mergedID). Lower rank
// merges first.
type MergeRule struct {
	Left, Right int32
	Rank        int32
	MergedID    int32
}

func EncodeMergeTable(rules []MergeRule) []byte {
	byLeft := map[int32][]MergeRule{}
	for _, r := range rules {
		byLeft[r.Left] = append(byLeft[r.Left], r)
	}
	packed := make(map[int32][]int32, len(byLeft))
	for left, rs := range byLeft {
		blob := make([]int32, 0, 3*len(rs))
		for _, r := range rs {
			blob = append(blob, r.Right, r.Rank, r.MergedID)
		}
		packed[left] = blob
	}
	return automaton.EncodePackedMultiMap(packed)
}

func ParseMergeTable(b []byte) (*MergeTable, error) {
	mm, err := automaton.ParsePackedMultiMap(b)
	if err != nil {
		return nil, err
	}
	return &MergeTable{mm: mm}, nil
}

// Lookup returns the merge priority for the pair (left, right), if any.
func (t *MergeTable) Lookup(left, right int32) (rank int32, mergedID int32, ok bool) {
	blob := t.mm.Get(left)
	for i := 0; i+2 < len(blob); i += 3 {
		if blob[i] == right {
			return blob[i+1], blob[i+2], true
		}
	}
	return 0, 0, false
}

// unit is one node of the doubly linked chain of surviving segments.
// Merging i with its right neighbor rewrites i in place and retires the
// neighbor, so index 0 is always the chain's permanent head.
type unit struct {
	id         int32
	from, to   int
	prev, next int
	alive      bool
	gen        int
}

func seedUnits(input []rune, alphabet *Alphabet, unkID int32) []unit {
	n := len(input)
	units := make([]unit, n)
	for i, r := range input {
		id, ok := alphabet.ID(r)
		if !ok {
			id = unkID
		}
		units[i] = unit{id: id, from: i, to: i, prev: i - 1, next: i + 1, alive: true}
	}
	if n > 0 {
		units[n-1].next = -1
	}
	return units
}

func mergePair(units []unit, i int, mergedID int32) {
	j := units[i].next
	units[i].id = mergedID
	units[i].to = units[j].to
	units[i].next = units[j].next
	if units[j].next != -1 {
		units[units[j].next].prev = i
	}
	units[j].alive = false
	units[i].gen++
}

func unitsToSpans(units []unit) []lex.Span {
	if len(units) == 0 {
		return nil
	}
	var spans []lex.Span
	for i := 0; i != -1; i = units[i].next {
		spans = append(spans, lex.Span{Tag: units[i].id, From: units[i].from, To: units[i].to})
	}
	return spans
}

// Greedy repeatedly merges the best-ranked adjacent pair by rescanning
// the whole chain. Ties go to the leftmost pair.
func Greedy(input []rune, alphabet *Alphabet, merges *MergeTable, unkID int32) ([]lex.Span, error) {
	units := seedUnits(input, alphabet, unkID)
	if len(units) == 0 {
		return nil, nil
	}
	for {
		bestI := -1
		var bestRank, bestMerged int32
		for i := 0; i != -1; i = units[i].next {
			j := units[i].next
			if j == -1 {
				break
			}
			rank, merged, ok := merges.Lookup(units[i].id, units[j].id)
			if !ok {
				continue
			}
			if bestI == -1 || rank < bestRank {
				bestI, bestRank, bestMerged = i, rank, merged
			}
		}
		if bestI == -1 {
			break
		}
		mergePair(units, bestI, bestMerged)
	}
	return unitsToSpans(units), nil
}

// pqItem is a candidate merge queued by position, used for lazy deletion:
// an item is stale once its left unit has since merged again (gen bump)
// or is no longer adjacent to the right unit it was computed against.
type pqItem struct {
	rank     int32
	pos      int
	left     int
	leftGen  int
	mergedID int32
}

type priorityQueue []*pqItem

func (q priorityQueue) Len() int { return len(q) }
func (q priorityQueue) Less(a, b int) bool {
	if q[a].rank != q[b].rank {
		return q[a].rank < q[b].rank
	}
	return q[a].pos < q[b].pos
}
func (q priorityQueue) Swap(a, b int) { q[a], q[b] = q[b], q[a] }
func (q *priorityQueue) Push(x any)   { *q = append(*q, x.(*pqItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// GreedyOpt is functionally equivalent to Greedy but uses a
// container/heap priority queue with lazy deletion instead of rescanning
// the whole chain on every merge.
func GreedyOpt(input []rune, alphabet *Alphabet, merges *MergeTable, unkID int32) ([]lex.Span, error) {
	units := seedUnits(input, alphabet, unkID)
	if len(units) == 0 {
		return nil, nil
	}
	q := &priorityQueue{}
	heap.Init(q)

	push := func(i int) {
		j := units[i].next
		if j == -1 {
			return
		}
		rank, merged, ok := merges.Lookup(units[i].id, units[j].id)
		if !ok {
			return
		}
		heap.Push(q, &pqItem{rank: rank, pos: units[i].from, left: i, leftGen: units[i].gen, mergedID: merged})
	}
	for i := 0; i != -1; i = units[i].next {
		push(i)
	}

	for q.Len() > 0 {
		it := heap.Pop(q).(*pqItem)
		li := it.left
		if !units[li].alive || units[li].gen != it.leftGen {
			continue
		}
		j := units[li].next
		if j == -1 {
			continue
		}
		rank, merged, ok := merges.Lookup(units[li].id, units[j].id)
		if !ok || rank != it.rank || merged != it.mergedID {
			continue // neighbor changed since this item was queued
		}
		prevI := units[li].prev
		mergePair(units, li, merged)
		if prevI != -1 {
			push(prevI)
		}
		push(li)
	}
	return unitsToSpans(units), nil
}
