package dat

// suffixStore is the TAIL buffer. Each live entry is a run of arc codes
// terminated by the separator code and is referenced by exactly one leaf's
// negative BASE. Entries are never reclaimed; a split overwrites an entry in
// place with a shorter one and marks the released positions as garbage.
type suffixStore struct {
	buf []int32
	sep int32

	// pos is the next free offset. Offset 0 is never used, so a leaf's BASE
	// (-offset) is always negative.
	pos     int32
	garbage int
}

func newSuffixStore(capacity int, sep int32) suffixStore {
	return suffixStore{
		buf: make([]int32, capacity),
		sep: sep,
		pos: 1,
	}
}

// reserve grows the buffer so that n more codes fit after the cursor.
func (s *suffixStore) reserve(n int) error {
	end := int64(s.pos) + int64(n)
	if end <= int64(len(s.buf)) {
		return nil
	}
	c, err := growCapacity(int64(len(s.buf)), end)
	if err != nil {
		return err
	}
	s.buf = grown(s.buf, c)
	return nil
}

// append stores codes at the cursor and returns their offset.
func (s *suffixStore) append(codes []int32) (int32, error) {
	if err := s.reserve(len(codes)); err != nil {
		return 0, err
	}
	off := s.pos
	copy(s.buf[off:], codes)
	s.pos += int32(len(codes))
	return off, nil
}

// readUntilSeparator returns a copy of the entry at off, separator included.
func (s *suffixStore) readUntilSeparator(off int32) []int32 {
	i := int(off)
	for i < len(s.buf) && s.buf[i] != s.sep {
		i++
	}
	if i == len(s.buf) {
		panic("dat: invariant violated: unterminated suffix entry")
	}
	return append([]int32(nil), s.buf[off:i+1]...)
}

// overwrite replaces the start of an existing entry. codes must not be
// longer than the entry.
func (s *suffixStore) overwrite(off int32, codes []int32) {
	copy(s.buf[off:], codes)
}

func (s *suffixStore) markGarbage(off int32, count int) {
	for i := 0; i < count; i++ {
		s.buf[int(off)+i] = garbageCode
	}
	s.garbage += count
}

func (s *suffixStore) unusedTrailing() int {
	return len(s.buf) - int(s.pos)
}

// tailEqual reports whether the entry at off equals rest. rest must end with
// sep and contain it nowhere else.
func tailEqual(tail []int32, off int32, sep int32, rest []int32) bool {
	for i, c := range rest {
		j := int(off) + i
		if j < 0 || j >= len(tail) || tail[j] != c {
			return false
		}
		if c == sep {
			return i == len(rest)-1
		}
	}
	return false
}
