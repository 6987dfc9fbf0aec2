package dat

import (
	"github.com/datatrails/go-datatrails-common/logger"
)

// Options configures a Builder and the codec of a loaded Trie.
type Options struct {
	Capacity        int
	Variant         Variant
	Alphabet        Alphabet
	Separator       rune
	FoldCase        bool
	ProbeThreshold  int32
	ProbeStartRatio float64
	Log             logger.Logger
}

// Option sets one field of Options.
type Option func(*Options)

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{
		Capacity:        DefaultCapacity,
		Variant:         VariantTail,
		Alphabet:        Ordinal{},
		Separator:       DefaultSeparator,
		ProbeThreshold:  DefaultProbeThreshold,
		ProbeStartRatio: DefaultProbeStartRatio,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCapacity sets the initial array length. It is a hint about the
// structure size, not a term count.
func WithCapacity(capacity int) Option {
	return func(o *Options) {
		o.Capacity = capacity
	}
}

// WithVariant selects how term suffixes are stored.
func WithVariant(v Variant) Option {
	return func(o *Options) {
		o.Variant = v
	}
}

// WithAlphabet replaces the default Ordinal mapping. The same alphabet must
// be used to query the trie.
func WithAlphabet(a Alphabet) Option {
	return func(o *Options) {
		o.Alphabet = a
	}
}

// WithSeparator sets the rune that ends every term. Terms may not contain it.
func WithSeparator(sep rune) Option {
	return func(o *Options) {
		o.Separator = sep
	}
}

// WithCaseFolding lower-cases terms before they are inserted or queried.
func WithCaseFolding() Option {
	return func(o *Options) {
		o.FoldCase = true
	}
}

// WithProbeStart configures the x-check start heuristic. Once the max used
// index exceeds threshold, probing starts at ratio*maxIndex instead of 1. A
// threshold of 0 disables the heuristic.
func WithProbeStart(threshold int32, ratio float64) Option {
	return func(o *Options) {
		o.ProbeThreshold = threshold
		o.ProbeStartRatio = ratio
	}
}

// WithLogger enables debug logging of growth, relocations and splits.
func WithLogger(log logger.Logger) Option {
	return func(o *Options) {
		o.Log = log
	}
}

func (o Options) validate() error {
	if o.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if o.Variant != VariantTail && o.Variant != VariantSeparator {
		return ErrInvalidVariant
	}
	if o.ProbeThreshold > 0 && (o.ProbeStartRatio <= 0 || o.ProbeStartRatio > 1) {
		return ErrInvalidProbe
	}
	return nil
}
