package dat

import "slices"

// resolveCollision frees a slot for the arc a out of n when m = BASE[n]+a is
// owned by p. The node with fewer arcs is relocated; n is preferred on ties
// and when m == n, so the new arc takes part in its x-check. The root is never
// relocated.
//
// It returns the index of n after relocation, which differs from n only when
// p was relocated and n was one of p's children.
func (b *Builder) resolveCollision(n, m, p, a int32) (int32, error) {
	relocateN := p == RootNode ||
		(n != RootNode && (m == n || b.arcs.count(n) <= b.arcs.count(p)))

	if relocateN {
		_, err := b.relocate(n, n, a)
		return n, err
	}
	return b.relocate(p, n)
}

// relocate moves every child of node to a new base computed over its arcs
// plus extra. Each child's BASE and arcs are copied, its own children are
// re-parented and its old slot is zeroed.
//
// pivot is an index the caller needs to track; relocate returns its index
// after the move.
func (b *Builder) relocate(node int32, pivot int32, extra ...int32) (int32, error) {
	leaving := b.arcs.arcsLeaving(node)
	codes := append(slices.Clone(leaving), extra...)
	q, err := b.findFreeBase(codes...)
	if err != nil {
		return pivot, err
	}

	old := b.da.base[node]
	b.da.setBase(node, q)
	for _, c := range leaving {
		from, to := old+c, q+c
		childBase := b.da.base[from]

		b.da.setBase(to, childBase)
		b.da.setCheck(to, node)
		if childBase > 0 {
			for _, gc := range b.arcs.arcsLeaving(from) {
				b.da.setCheck(childBase+gc, to)
			}
		}
		b.arcs.move(from, to)

		b.da.setBase(from, 0)
		b.da.setCheck(from, 0)
		b.arcs.clear(from)

		if from == pivot {
			pivot = to
		}
	}

	b.relocations++
	if b.log != nil {
		b.log.Debugf("dat: relocated node %d base %d -> %d (%d arcs)", node, old, q, len(leaving))
	}
	return pivot, nil
}
