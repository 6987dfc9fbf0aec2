package dat

import "errors"

// reader answers containment queries over a set of arrays. It only reads:
// indices outside the arrays mean "absent", never growth.
type reader struct {
	variant Variant
	codec   termCodec
	base    []int32
	check   []int32
	tail    []int32
}

// containsTerm encodes term and walks it. A term holding the separator can
// never have been added, so it is simply absent.
func (r reader) containsTerm(term string) (bool, error) {
	codes, err := r.codec.encode(term)
	if errors.Is(err, ErrSeparatorInTerm) {
		return false, nil
	}
	if err != nil || codes == nil {
		return false, err
	}
	return r.contains(codes), nil
}

// contains walks the separator terminated codes s from the root.
func (r reader) contains(s []int32) bool {
	n := RootNode
	if int(n) >= len(r.base) {
		return false
	}
	for i, a := range s {
		if bn := r.base[n]; bn < 0 {
			if r.variant != VariantTail {
				return false
			}
			return tailEqual(r.tail, -bn, r.codec.sepCode, s[i:])
		}
		m, ok := r.transition(n, a)
		if !ok {
			return false
		}
		n = m
	}
	// Every arc, the separator included, was a transition. Only a leaf can
	// follow the separator.
	return r.base[n] < 0
}

// transition returns g(n, code) if it exists.
func (r reader) transition(n int32, code int32) (int32, bool) {
	if n <= 0 || int(n) >= len(r.base) {
		return 0, false
	}
	bn := r.base[n]
	if bn <= 0 {
		return 0, false
	}
	m := int64(bn) + int64(code)
	if m >= int64(len(r.check)) || r.check[m] != n {
		return 0, false
	}
	return int32(m), true
}
