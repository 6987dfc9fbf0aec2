package dat

import (
	"fmt"
	"strings"
)

// Alphabet maps runes to arc codes and back. Codes must be positive; 0 is
// reserved.
type Alphabet interface {
	Code(r rune) (int32, bool)
	Rune(code int32) (rune, bool)
}

// Ordinal is the default Alphabet: a rune's code is its ordinal value.
type Ordinal struct{}

func (Ordinal) Code(r rune) (int32, bool) {
	if r <= 0 {
		return 0, false
	}
	return int32(r), true
}

func (Ordinal) Rune(code int32) (rune, bool) {
	if code <= 0 {
		return 0, false
	}
	return rune(code), true
}

// CodeTable is an explicit rune to code mapping. Every rune inserted or
// queried, and the separator, must be defined. Small dense codes keep BASE and
// CHECK short.
type CodeTable struct {
	codes map[rune]int32
	runes map[int32]rune
}

// NewCodeTable returns an empty table.
func NewCodeTable() *CodeTable {
	return &CodeTable{
		codes: make(map[rune]int32),
		runes: make(map[int32]rune),
	}
}

// NewCodeTableFromRunes assigns the codes 1..len(runes) in order.
func NewCodeTableFromRunes(runes ...rune) (*CodeTable, error) {
	t := NewCodeTable()
	for i, r := range runes {
		if err := t.Define(r, int32(i+1)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Define maps r to code. Redefining r to the same code is a no-op;
// redefining it to another code, or reusing a code for a different rune, is
// ErrCodeConflict.
func (t *CodeTable) Define(r rune, code int32) error {
	if code <= 0 {
		return fmt.Errorf("%w: %q -> %d", ErrInvalidCode, r, code)
	}
	if existing, ok := t.codes[r]; ok {
		if existing == code {
			return nil
		}
		return fmt.Errorf("%w: %q already maps to %d", ErrCodeConflict, r, existing)
	}
	if owner, ok := t.runes[code]; ok {
		return fmt.Errorf("%w: code %d already used by %q", ErrCodeConflict, code, owner)
	}
	t.codes[r] = code
	t.runes[code] = r
	return nil
}

// Code returns the code assigned to r.
func (t *CodeTable) Code(r rune) (int32, bool) {
	c, ok := t.codes[r]
	return c, ok
}

// Rune returns the rune assigned to code.
func (t *CodeTable) Rune(code int32) (rune, bool) {
	r, ok := t.runes[code]
	return r, ok
}

// Len returns the number of defined runes.
func (t *CodeTable) Len() int { return len(t.codes) }

// Table returns a copy of the mapping.
func (t *CodeTable) Table() map[rune]int32 {
	m := make(map[rune]int32, len(t.codes))
	for r, c := range t.codes {
		m[r] = c
	}
	return m
}

// termCodec turns terms into arc code sequences. The separator code is
// always appended.
type termCodec struct {
	alphabet Alphabet
	sep      rune
	sepCode  int32
	foldCase bool
}

func newTermCodec(alphabet Alphabet, sep rune, foldCase bool) (termCodec, error) {
	code, ok := alphabet.Code(sep)
	if !ok || code <= 0 {
		return termCodec{}, fmt.Errorf("%w: %q", ErrInvalidSeparator, sep)
	}
	return termCodec{alphabet: alphabet, sep: sep, sepCode: code, foldCase: foldCase}, nil
}

// encode returns nil, nil for terms that are empty after trimming.
func (c termCodec) encode(term string) ([]int32, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if c.foldCase {
		term = strings.ToLower(term)
	}
	codes := make([]int32, 0, len(term)+1)
	for _, r := range term {
		if r == c.sep {
			return nil, fmt.Errorf("%w: %q", ErrSeparatorInTerm, term)
		}
		code, ok := c.alphabet.Code(r)
		if !ok || code <= 0 {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnmappedRune, r, term)
		}
		codes = append(codes, code)
	}
	return append(codes, c.sepCode), nil
}

// render maps codes back to text for diagnostics. Unknown codes and garbage
// render as '?'.
func (c termCodec) render(codes []int32) string {
	var sb strings.Builder
	for _, code := range codes {
		r, ok := c.alphabet.Rune(code)
		if code == garbageCode || !ok {
			r = '?'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
