package dat

// doubleArray holds the parallel BASE and CHECK arrays. Both always have the
// same length.
type doubleArray struct {
	base  []int32
	check []int32

	// maxIndex is the largest index ever written.
	maxIndex int32
	growths  int
}

func newDoubleArray(capacity int) doubleArray {
	return doubleArray{
		base:  make([]int32, capacity),
		check: make([]int32, capacity),
	}
}

func (d *doubleArray) len() int { return len(d.base) }

// checkAt treats indices outside the arrays as free slots. It never grows
// the arrays.
func (d *doubleArray) checkAt(i int64) int32 {
	if i < 0 || i >= int64(len(d.check)) {
		return 0
	}
	return d.check[i]
}

// setBase and setCheck require a prior ensure covering i.
func (d *doubleArray) setBase(i int32, v int32) {
	d.base[i] = v
	d.maxIndex = max(d.maxIndex, i)
}

func (d *doubleArray) setCheck(i int32, v int32) {
	d.check[i] = v
	d.maxIndex = max(d.maxIndex, i)
}

// ensure grows both arrays so that minIndex is addressable. Growth is
// geometric (x1.5), and at least enough for minIndex.
func (d *doubleArray) ensure(minIndex int64) (bool, error) {
	if minIndex < int64(len(d.base)) {
		return false, nil
	}
	n, err := growCapacity(int64(len(d.base)), minIndex+1)
	if err != nil {
		return false, err
	}
	d.base = grown(d.base, n)
	d.check = grown(d.check, n)
	d.growths++
	return true, nil
}

// unusedTrailing counts the free slots after the last used one.
func (d *doubleArray) unusedTrailing() int {
	i := len(d.base) - 1
	for i > 0 && d.base[i] == 0 && d.check[i] == 0 {
		i--
	}
	return len(d.base) - 1 - i
}

// growCapacity returns the new length for an array of length old that must
// hold need elements.
func growCapacity(old, need int64) (int64, error) {
	if need > maxSlots {
		return 0, ErrCapacityExceeded
	}
	n := old + old>>1
	if n < need {
		n = need
	}
	if n > maxSlots {
		n = maxSlots
	}
	return n, nil
}

func grown(a []int32, n int64) []int32 {
	b := make([]int32, n)
	copy(b, a)
	return b
}
