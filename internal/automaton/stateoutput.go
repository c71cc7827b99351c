package automaton

// State2Output maps each DFA state to zero or more output weights (tags
// or dictionary ids). It is a State-keyed PackedMultiMap: the value is a
// variable-length run of output weights, riding on the same
// open-addressing core as PackedMultiMap.
type State2Output struct {
	core *packedMulti
}

// Outputs returns the output weights attached to s, or nil if s has none.
func (t *State2Output) Outputs(s int32) []int32 {
	return t.core.get(s)
}

// EncodeState2Output packs a state -> output-weights map.
func EncodeState2Output(outputs map[int32][]int32) []byte {
	return encodePackedMulti(outputs)
}

func ParseState2Output(b []byte) (*State2Output, error) {
	core, err := parsePackedMulti(b)
	if err != nil {
		return nil, err
	}
	return &State2Output{core: core}, nil
}
