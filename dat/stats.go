package dat

import (
	"fmt"
	"strings"
)

// counters are the construction history carried from a Builder into its
// frozen Trie and snapshots.
type counters struct {
	Terms       int   `cbor:"1,keyasint"`
	Relocations int   `cbor:"2,keyasint"`
	Growths     int   `cbor:"3,keyasint"`
	MaxBase     int32 `cbor:"4,keyasint"`
	MaxFanout   int   `cbor:"5,keyasint"`
	TailGarbage int   `cbor:"6,keyasint"`
}

// Stats describes the size and quality of a trie. None of it is needed for
// correctness.
type Stats struct {
	Variant  Variant
	Terms    int
	Capacity int   // len(BASE) == len(CHECK)
	MaxIndex int32 // largest index ever written

	// UnusedSlots counts the free BASE/CHECK slots after the last used one.
	UnusedSlots int

	TailCapacity int
	TailUsed     int // the suffix store cursor
	TailUnused   int
	TailGarbage  int

	Relocations int
	Growths     int
	MaxBase     int32
	MaxFanout   int
}

// Bytes estimates the memory held by BASE, CHECK and the suffix store.
func (s Stats) Bytes() uint64 {
	return 4*2*uint64(s.Capacity) + 4*uint64(s.TailCapacity)
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"variant:%s,terms:%d,capacity:%d,maxIndex:%d,unused:%d,tail:%d,tailUsed:%d,tailUnused:%d,tailGarbage:%d,relocations:%d,growths:%d,maxBase:%d,maxFanout:%d,bytes:%d",
		s.Variant, s.Terms, s.Capacity, s.MaxIndex, s.UnusedSlots,
		s.TailCapacity, s.TailUsed, s.TailUnused, s.TailGarbage,
		s.Relocations, s.Growths, s.MaxBase, s.MaxFanout, s.Bytes())
}

func (b *Builder) counters() counters {
	return counters{
		Terms:       b.terms,
		Relocations: b.relocations,
		Growths:     b.da.growths,
		MaxBase:     b.maxBase,
		MaxFanout:   b.maxFanout,
		TailGarbage: b.tail.garbage,
	}
}

// Stats returns the current sizes and construction counters.
func (b *Builder) Stats() Stats {
	s := b.counters().stats(b.opts.Variant)
	s.Capacity = b.da.len()
	s.MaxIndex = b.da.maxIndex
	s.UnusedSlots = b.da.unusedTrailing()
	s.TailCapacity = len(b.tail.buf)
	if b.opts.Variant == VariantTail {
		s.TailUsed = int(b.tail.pos)
		s.TailUnused = b.tail.unusedTrailing()
	}
	return s
}

func (c counters) stats(v Variant) Stats {
	return Stats{
		Variant:     v,
		Terms:       c.Terms,
		TailGarbage: c.TailGarbage,
		Relocations: c.Relocations,
		Growths:     c.Growths,
		MaxBase:     c.MaxBase,
		MaxFanout:   c.MaxFanout,
	}
}

// View renders BASE, CHECK and the suffix store. It is only useful for small
// tries.
func (b *Builder) View() string {
	return view(b.codec, b.da.base, b.da.check, b.tail.buf, b.tail.pos)
}

func view(codec termCodec, base, check, tail []int32, pos int32) string {
	var sb strings.Builder
	sb.WriteString("base :")
	writeInts(&sb, base)
	sb.WriteString("\ncheck:")
	writeInts(&sb, check)
	sb.WriteString("\ntail :[")
	for i, c := range tail {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(codec.render([]int32{c}))
	}
	fmt.Fprintf(&sb, "]\npos:%d", pos)
	return sb.String()
}

func writeInts(sb *strings.Builder, a []int32) {
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(sb, "%d", v)
	}
	sb.WriteByte(']')
}
