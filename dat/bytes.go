package dat

import "encoding/binary"

// int32s are persisted as big-endian 4 byte cells.

func encodeInt32s(a []int32) []byte {
	b := make([]byte, 4*len(a))
	for i, v := range a {
		writeU32BE(b[4*i:], uint32(v))
	}
	return b
}

func decodeInt32s(b []byte) ([]int32, error) {
	if len(b)%4 != 0 {
		return nil, ErrSnapshotCorrupt
	}
	a := make([]int32, len(b)/4)
	for i := range a {
		a[i] = int32(readU32BE(b[4*i:]))
	}
	return a, nil
}

func readU32BE(b []byte) uint32     { return binary.BigEndian.Uint32(b) }
func writeU32BE(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
