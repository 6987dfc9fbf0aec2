package dat

import (
	"fmt"
	"slices"

	"github.com/datatrails/go-datatrails-common/logger"
)

// Builder constructs a double-array trie one term at a time.
//
// A Builder is not safe for concurrent use. Once ErrCapacityExceeded has been
// returned the builder is unusable and every later Add returns the same
// error.
type Builder struct {
	opts  Options
	log   logger.Logger
	codec termCodec

	da   doubleArray
	tail suffixStore
	arcs arcRegistry

	terms       int
	relocations int
	maxBase     int32
	maxFanout   int

	err error
}

// NewBuilder returns an empty builder holding only the root node.
func NewBuilder(opts ...Option) (*Builder, error) {
	o := NewOptions(opts...)
	if o.Alphabet == nil {
		o.Alphabet = Ordinal{}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	codec, err := newTermCodec(o.Alphabet, o.Separator, o.FoldCase)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		opts:  o,
		log:   o.Log,
		codec: codec,
		da:    newDoubleArray(o.Capacity),
		arcs:  newArcRegistry(o.Capacity),
	}
	if o.Variant == VariantTail {
		b.tail = newSuffixStore(o.Capacity, codec.sepCode)
	}
	if err := b.reserve(int64(RootNode)); err != nil {
		return nil, err
	}
	b.da.setBase(RootNode, RootBase)
	return b, nil
}

// Add inserts term. Surrounding white space is ignored and an empty term is
// a no-op. Adding a term that is already present changes nothing.
func (b *Builder) Add(term string) error {
	if b.err != nil {
		return b.err
	}
	codes, err := b.codec.encode(term)
	if err != nil || codes == nil {
		return err
	}

	var added bool
	switch b.opts.Variant {
	case VariantSeparator:
		added, err = b.addSeparated(codes)
	default:
		added, err = b.addTail(codes)
	}
	if err != nil {
		b.err = fmt.Errorf("%w: adding %q", err, term)
		return b.err
	}
	if added {
		b.terms++
	}
	return nil
}

// Len returns the number of distinct terms added.
func (b *Builder) Len() int { return b.terms }

// Contains reports whether term has been added.
func (b *Builder) Contains(term string) (bool, error) {
	return b.reader().containsTerm(term)
}

func (b *Builder) reader() reader {
	return reader{
		variant: b.opts.Variant,
		codec:   b.codec,
		base:    b.da.base,
		check:   b.da.check,
		tail:    b.tail.buf,
	}
}

// addTail walks s from the root and finishes with exactly one of: an
// existing leaf (split), a free slot (new leaf) or a collision (relocate,
// then new leaf). Walking the final separator arc means s is present.
func (b *Builder) addTail(s []int32) (bool, error) {
	n := RootNode
	for i, a := range s {
		bn := b.da.base[n]
		if bn < 0 {
			return b.splitLeaf(n, s[i:])
		}

		m64 := int64(bn) + int64(a)
		if err := b.reserve(m64); err != nil {
			return false, err
		}
		m := int32(m64)

		switch p := b.da.check[m]; p {
		case n:
			n = m
			continue
		case 0:
		default:
			var err error
			if n, err = b.resolveCollision(n, m, p, a); err != nil {
				return false, err
			}
			m = b.da.base[n] + a
		}
		return true, b.attachLeaf(n, m, a, s[i+1:])
	}
	return false, nil
}

// attachLeaf claims m as the child of n via a and points it at a new suffix
// entry holding rest.
func (b *Builder) attachLeaf(n, m, a int32, rest []int32) error {
	if len(rest) == 0 {
		rest = []int32{b.codec.sepCode}
	}
	off, err := b.tail.append(rest)
	if err != nil {
		return err
	}
	b.claim(n, m, a)
	b.da.setBase(m, -off)
	return nil
}

// splitLeaf handles a walk that reaches the leaf n with rest still to
// match. If the stored suffix differs, the common prefix becomes real nodes
// followed by two leaves, one per remainder. The old remainder is rewritten
// in place and the freed positions become garbage.
//
// Every base and the suffix space are reserved before the first write, so a
// capacity failure leaves the stored term reachable.
func (b *Builder) splitLeaf(n int32, rest []int32) (bool, error) {
	off := -b.da.base[n]
	stored := b.tail.readUntilSeparator(off)
	if slices.Equal(stored, rest) {
		return false, nil
	}
	p := commonPrefixLen(stored, rest)
	x, y := stored[p], rest[p]
	newRest := b.remainder(rest[p+1:])

	bases, err := b.planSplit(stored[:p], x, y)
	if err != nil {
		return false, err
	}
	if err := b.tail.reserve(len(newRest)); err != nil {
		return false, err
	}

	for i, c := range stored[:p] {
		q := bases[i]
		b.da.setBase(n, q)
		m := q + c
		b.claim(n, m, c)
		n = m
	}
	q := bases[p]
	b.da.setBase(n, q)

	oldRest := b.remainder(stored[p+1:])
	b.tail.overwrite(off, oldRest)
	b.tail.markGarbage(off+int32(len(oldRest)), len(stored)-len(oldRest))
	m1 := q + x
	b.claim(n, m1, x)
	b.da.setBase(m1, -off)

	if err := b.attachLeaf(n, q+y, y, newRest); err != nil {
		return false, err
	}
	for _, q := range bases {
		b.maxBase = max(b.maxBase, q)
	}
	if b.log != nil {
		b.log.Debugf("dat: split leaf at prefix %d, tail garbage %d", p, b.tail.garbage)
	}
	return true, nil
}

// planSplit picks a base for each node of the shared chain and a final base
// for the arcs x and y, without writing to BASE or CHECK. Slots the chain
// will claim are tracked so later picks avoid them.
func (b *Builder) planSplit(chain []int32, x, y int32) ([]int32, error) {
	bases := make([]int32, 0, len(chain)+1)
	pending := make(map[int64]struct{}, len(chain))
	maxIndex := b.da.maxIndex
	for _, c := range chain {
		q, err := b.reserveFreeBase(b.probeStartAt(maxIndex), pending, []int32{c})
		if err != nil {
			return nil, err
		}
		m := q + c
		pending[int64(m)] = struct{}{}
		maxIndex = max(maxIndex, m)
		bases = append(bases, q)
	}
	q, err := b.reserveFreeBase(b.probeStartAt(maxIndex), pending, []int32{x, y})
	if err != nil {
		return nil, err
	}
	return append(bases, q), nil
}

func (b *Builder) remainder(codes []int32) []int32 {
	if len(codes) == 0 {
		return []int32{b.codec.sepCode}
	}
	return codes
}

// addSeparated inserts s without a suffix store. Each new node gets its base
// when its first arc is added; the separator arc ends in a leaf whose BASE is
// the negated term ordinal.
func (b *Builder) addSeparated(s []int32) (bool, error) {
	n := RootNode
	added := false
	for i, a := range s {
		bn := b.da.base[n]
		if bn < 0 {
			panic(fmt.Sprintf("dat: invariant violated: walk continues past leaf %d", n))
		}
		if bn == 0 {
			q, err := b.findFreeBase(a)
			if err != nil {
				return false, err
			}
			b.da.setBase(n, q)
			bn = q
		}

		m64 := int64(bn) + int64(a)
		if err := b.reserve(m64); err != nil {
			return false, err
		}
		m := int32(m64)

		switch p := b.da.check[m]; p {
		case n:
			n = m
			continue
		case 0:
		default:
			var err error
			if n, err = b.resolveCollision(n, m, p, a); err != nil {
				return false, err
			}
			m = b.da.base[n] + a
		}
		b.claim(n, m, a)
		if i == len(s)-1 {
			b.da.setBase(m, -int32(b.terms+1))
		}
		added = true
		n = m
	}
	return added, nil
}

// claim makes m the child of n via a. m must be free and addressable.
func (b *Builder) claim(n, m, a int32) {
	if b.da.base[n] <= 0 {
		panic(fmt.Sprintf("dat: invariant violated: node %d with base %d cannot be a parent", n, b.da.base[n]))
	}
	if b.da.check[m] != 0 {
		panic(fmt.Sprintf("dat: invariant violated: slot %d already owned by %d", m, b.da.check[m]))
	}
	b.da.setCheck(m, n)
	b.maxFanout = max(b.maxFanout, b.arcs.record(n, a))
}

// reserve makes index addressable in BASE, CHECK and the arc registry.
func (b *Builder) reserve(index int64) error {
	grew, err := b.da.ensure(index)
	if err != nil {
		return err
	}
	if grew {
		b.arcs.resize(b.da.len())
		if b.log != nil {
			b.log.Debugf("dat: arrays grown to %d slots (growth %d)", b.da.len(), b.da.growths)
		}
	}
	return nil
}

func commonPrefixLen(a, b []int32) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}
