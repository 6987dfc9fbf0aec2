package dat

// findFreeBase is the x-check: it returns the smallest q >= probeStart() such
// that CHECK[q+c] is free for every code c, and grows the arrays so that
// every q+c is addressable.
//
// Probing is linear. Indices past the end of CHECK count as free, so the
// search always terminates.
func (b *Builder) findFreeBase(codes ...int32) (int32, error) {
	q, err := b.reserveFreeBase(b.probeStart(), nil, codes)
	if err != nil {
		return 0, err
	}
	b.maxBase = max(b.maxBase, q)
	return q, nil
}

// reserveFreeBase probes from start for a base whose slots are free in CHECK
// and absent from pending, then makes those slots addressable. Growing the
// arrays is the only change it makes.
func (b *Builder) reserveFreeBase(start int32, pending map[int64]struct{}, codes []int32) (int32, error) {
	var top int32
	for _, c := range codes {
		top = max(top, c)
	}

	q := int64(start)
	for {
		free := true
		for _, c := range codes {
			i := q + int64(c)
			if _, taken := pending[i]; taken || b.da.checkAt(i) != 0 {
				free = false
				break
			}
		}
		if free {
			break
		}
		q++
	}

	if err := b.reserve(q + int64(top)); err != nil {
		return 0, err
	}
	return int32(q), nil
}

// probeStart returns 1 until the structure is large, then a point
// proportional to the max used index. The low region of a large trie is
// dense, so probing it again is mostly wasted work.
func (b *Builder) probeStart() int32 {
	return b.probeStartAt(b.da.maxIndex)
}

func (b *Builder) probeStartAt(maxIndex int32) int32 {
	threshold := b.opts.ProbeThreshold
	if threshold <= 0 || maxIndex <= threshold {
		return 1
	}
	q := int32(float64(maxIndex) * b.opts.ProbeStartRatio)
	return max(q, 1)
}
