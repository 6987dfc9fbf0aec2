package dat

import (
	"errors"
	"math"
)

const (
	// RootNode is the fixed index of the root node.
	RootNode int32 = 1

	// RootBase is the BASE value of the root node.
	RootBase int32 = 1

	// DefaultCapacity is the initial length of BASE and CHECK (and of the
	// suffix store) when no capacity option is given.
	DefaultCapacity = 8

	// DefaultSeparator terminates every term. Terms may not contain it.
	DefaultSeparator = '#'

	// DefaultProbeThreshold is the max used index above which the x-check
	// stops probing from 1.
	DefaultProbeThreshold int32 = 100000

	// DefaultProbeStartRatio is the fraction of the max used index at which
	// probing starts once DefaultProbeThreshold is exceeded.
	DefaultProbeStartRatio = 0.87

	// garbageCode marks suffix store positions released by a split. No
	// alphabet may map a rune to it.
	garbageCode int32 = 0

	// maxSlots bounds the length of every array. Indices and TAIL offsets
	// are stored in int32 cells.
	maxSlots int64 = math.MaxInt32
)

// Variant selects how term endings are represented.
type Variant uint8

const (
	// VariantTail compresses unshared suffixes into the suffix store.
	VariantTail Variant = iota
	// VariantSeparator spells out every term and ends it with a separator arc.
	VariantSeparator
)

func (v Variant) String() string {
	switch v {
	case VariantTail:
		return "tail"
	case VariantSeparator:
		return "separator"
	default:
		return "unknown"
	}
}

// ParseVariant returns the Variant named by s ("tail" or "separator").
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "tail", "":
		return VariantTail, nil
	case "separator":
		return VariantSeparator, nil
	}
	return 0, ErrInvalidVariant
}

var (
	ErrInvalidCapacity  = errors.New("dat: capacity must be positive")
	ErrInvalidVariant   = errors.New("dat: unknown variant")
	ErrInvalidSeparator = errors.New("dat: separator has no code in the alphabet")
	ErrInvalidProbe     = errors.New("dat: probe start ratio must be in (0,1]")
	ErrUnmappedRune     = errors.New("dat: rune has no code in the alphabet")
	ErrSeparatorInTerm  = errors.New("dat: term contains the separator")
	ErrInvalidCode      = errors.New("dat: codes must be positive")
	ErrCodeConflict     = errors.New("dat: conflicting code definition")
	ErrCapacityExceeded = errors.New("dat: required index exceeds the int32 index space")

	ErrSnapshotVersion  = errors.New("dat: snapshot version unsupported")
	ErrSnapshotCorrupt  = errors.New("dat: snapshot data invalid")
	ErrSnapshotAlphabet = errors.New("dat: snapshot requires the alphabet it was built with")
)
