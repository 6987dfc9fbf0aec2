package dat

import (
	"slices"

	"github.com/google/uuid"
)

// Trie is an immutable double-array trie produced by Builder.Freeze or
// UnmarshalTrie. It is safe for concurrent use.
type Trie struct {
	id       uuid.UUID
	r        reader
	counters counters
}

// Freeze returns an immutable copy of the trie built so far, trimmed to the
// used part of each array. The builder remains usable.
func (b *Builder) Freeze() *Trie {
	used := int(b.da.maxIndex) + 1
	r := b.reader()
	r.base = slices.Clone(b.da.base[:used])
	r.check = slices.Clone(b.da.check[:used])
	if b.opts.Variant == VariantTail {
		r.tail = slices.Clone(b.tail.buf[:b.tail.pos])
	} else {
		r.tail = nil
	}
	return &Trie{
		id:       uuid.New(),
		r:        r,
		counters: b.counters(),
	}
}

// Contains reports whether term is in the trie. It fails only when term holds
// a rune the alphabet cannot map.
func (t *Trie) Contains(term string) (bool, error) {
	return t.r.containsTerm(term)
}

// Len returns the number of distinct terms.
func (t *Trie) Len() int { return t.counters.Terms }

// ID identifies the freeze that produced the trie. It survives snapshots.
func (t *Trie) ID() uuid.UUID { return t.id }

// Variant returns the variant the trie was built with.
func (t *Trie) Variant() Variant { return t.r.variant }

// Stats describes the frozen arrays. Counters are those of the builder at freeze time.
func (t *Trie) Stats() Stats {
	s := t.counters.stats(t.r.variant)
	da := doubleArray{base: t.r.base, check: t.r.check}
	s.Capacity = da.len()
	s.MaxIndex = int32(da.len() - 1)
	s.UnusedSlots = da.unusedTrailing()
	s.TailCapacity = len(t.r.tail)
	s.TailUsed = len(t.r.tail)
	return s
}

// View renders the arrays as the builder's View does.
func (t *Trie) View() string {
	return view(t.r.codec, t.r.base, t.r.check, t.r.tail, int32(len(t.r.tail)))
}
