package dat

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// SnapshotVersion is written into every snapshot and required on load.
const SnapshotVersion uint8 = 1

type alphabetKind uint8

const (
	alphabetOrdinal alphabetKind = iota
	alphabetTable
	// alphabetCustom tries can only be loaded by supplying WithAlphabet.
	alphabetCustom
)

// snapshot is the persisted form of a Trie. BASE, CHECK and the suffix store
// are packed as big-endian int32 cells.
type snapshot struct {
	Version   uint8          `cbor:"1,keyasint"`
	ID        []byte         `cbor:"2,keyasint"`
	Variant   Variant        `cbor:"3,keyasint"`
	Separator rune           `cbor:"4,keyasint"`
	FoldCase  bool           `cbor:"5,keyasint"`
	Alphabet  alphabetKind   `cbor:"6,keyasint"`
	Table     map[rune]int32 `cbor:"7,keyasint,omitempty"`
	Base      []byte         `cbor:"8,keyasint"`
	Check     []byte         `cbor:"9,keyasint"`
	Tail      []byte         `cbor:"10,keyasint,omitempty"`
	Counters  counters       `cbor:"11,keyasint"`
}

// MarshalBinary encodes the trie as deterministic CBOR.
func (t *Trie) MarshalBinary() ([]byte, error) {
	s := snapshot{
		Version:   SnapshotVersion,
		ID:        t.id[:],
		Variant:   t.r.variant,
		Separator: t.r.codec.sep,
		FoldCase:  t.r.codec.foldCase,
		Base:      encodeInt32s(t.r.base),
		Check:     encodeInt32s(t.r.check),
		Counters:  t.counters,
	}
	if len(t.r.tail) > 0 {
		s.Tail = encodeInt32s(t.r.tail)
	}
	switch a := t.r.codec.alphabet.(type) {
	case Ordinal:
		s.Alphabet = alphabetOrdinal
	case *CodeTable:
		s.Alphabet = alphabetTable
		s.Table = a.Table()
	default:
		s.Alphabet = alphabetCustom
	}

	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(&s)
}

// UnmarshalTrie decodes a snapshot produced by MarshalBinary. Only
// WithAlphabet is consulted, and only for snapshots of tries built with a
// custom Alphabet.
func UnmarshalTrie(data []byte, opts ...Option) (*Trie, error) {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, s.Version)
	}
	if s.Variant != VariantTail && s.Variant != VariantSeparator {
		return nil, fmt.Errorf("%w: variant %d", ErrSnapshotCorrupt, s.Variant)
	}
	id, err := uuid.FromBytes(s.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %v", ErrSnapshotCorrupt, err)
	}

	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	var alphabet Alphabet
	switch s.Alphabet {
	case alphabetOrdinal:
		alphabet = Ordinal{}
	case alphabetTable:
		table := NewCodeTable()
		for r, c := range s.Table {
			if err := table.Define(r, c); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
			}
		}
		alphabet = table
	case alphabetCustom:
		if o.Alphabet == nil {
			return nil, ErrSnapshotAlphabet
		}
		alphabet = o.Alphabet
	default:
		return nil, fmt.Errorf("%w: alphabet kind %d", ErrSnapshotCorrupt, s.Alphabet)
	}
	codec, err := newTermCodec(alphabet, s.Separator, s.FoldCase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	r := reader{variant: s.Variant, codec: codec}
	if r.base, err = decodeInt32s(s.Base); err != nil {
		return nil, fmt.Errorf("%w: base", err)
	}
	if r.check, err = decodeInt32s(s.Check); err != nil {
		return nil, fmt.Errorf("%w: check", err)
	}
	if r.tail, err = decodeInt32s(s.Tail); err != nil {
		return nil, fmt.Errorf("%w: tail", err)
	}
	if err := validateArrays(r); err != nil {
		return nil, err
	}
	return &Trie{id: id, r: r, counters: s.Counters}, nil
}

// validateArrays rejects arrays a reader could index out of range. Walks are
// bounds checked anyway, but a leaf pointing outside the suffix store means
// the snapshot is not one we wrote.
func validateArrays(r reader) error {
	if len(r.base) != len(r.check) {
		return fmt.Errorf("%w: base has %d cells, check %d", ErrSnapshotCorrupt, len(r.base), len(r.check))
	}
	if len(r.base) <= int(RootNode) || r.base[RootNode] != RootBase {
		return fmt.Errorf("%w: missing root", ErrSnapshotCorrupt)
	}
	if r.variant != VariantTail {
		return nil
	}
	for i, b := range r.base {
		if b < 0 && int(-int64(b)) >= len(r.tail) {
			return fmt.Errorf("%w: leaf %d points past the suffix store", ErrSnapshotCorrupt, i)
		}
	}
	return nil
}
