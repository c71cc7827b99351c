package automaton

import "testing"

// buildMPH builds a minimal perfect hash over {"a", "ab", "b"} using
// Deltas chosen so Walk returns 0, 1, 2 respectively.
func buildMPH() *MealyDFA {
	// state 0 = start, 1 = after 'a' (final, id 0), 2 = after "ab" (final, id 1),
	// 3 = after 'b' (final, id 2).
	trans := []MealyTransition{
		{From: 0, Label: 'a', To: 1, Delta: 0},
		{From: 1, Label: 'b', To: 2, Delta: 1},
		{From: 0, Label: 'b', To: 3, Delta: 2},
	}
	raw := EncodeMealyDFA(4, 0, []int32{1, 2, 3}, trans)
	d, err := ParseMealyDFA(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMealyWalkAssignsDistinctIds(t *testing.T) {
	d := buildMPH()
	cases := []struct {
		key string
		id  int32
	}{
		{"a", 0},
		{"ab", 1},
		{"b", 2},
	}
	seen := map[int32]bool{}
	for _, c := range cases {
		id, ok := d.Walk([]rune(c.key))
		if !ok {
			t.Fatalf("key %q: expected accept", c.key)
		}
		if id != c.id {
			t.Errorf("key %q: expected id %d, got %d", c.key, c.id, id)
		}
		if seen[id] {
			t.Errorf("id %d assigned to more than one key", id)
		}
		seen[id] = true
	}
}

func TestMealyWalkRejectsUnknown(t *testing.T) {
	d := buildMPH()
	if _, ok := d.Walk([]rune("c")); ok {
		t.Errorf("expected rejection for unknown key")
	}
	if _, ok := d.Walk([]rune("a b")); ok {
		t.Errorf("expected rejection for partial-prefix-then-dead-end key")
	}
}
