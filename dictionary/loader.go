package dictionary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-doublearray/dat"
	"github.com/spf13/afero"
)

const (
	DefaultProgressEvery = 100000

	// maxLineBytes bounds a single dictionary line.
	maxLineBytes = 1 << 20
)

var (
	ErrMissingTerms = errors.New("dictionary: terms missing from trie")
	ErrInvalidPath  = errors.New("dictionary: path is required")
)

// Loader reads dictionaries with one term per line.
type Loader struct {
	log           logger.Logger
	progressEvery int
	skipInvalid   bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithProgressEvery logs progress every n lines. n <= 0 disables progress
// logging.
func WithProgressEvery(n int) LoaderOption {
	return func(l *Loader) {
		l.progressEvery = n
	}
}

// WithSkipInvalid counts terms the builder rejects (unmapped runes, the
// separator) instead of failing the load.
func WithSkipInvalid() LoaderOption {
	return func(l *Loader) {
		l.skipInvalid = true
	}
}

// NewLoader returns a loader that reports progress on log.
func NewLoader(log logger.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		log:           log,
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadResult counts what a load did. Terms is the number of distinct terms
// the load added; duplicates and blank lines are included in Lines only.
type LoadResult struct {
	Lines    int
	Terms    int
	Rejected int
}

// Load adds every line of r to b. A rejected term fails the load with its
// line number unless WithSkipInvalid was given. Errors from b that are not
// about the term itself (ErrCapacityExceeded) always fail the load.
func (l *Loader) Load(ctx context.Context, r io.Reader, b *dat.Builder) (LoadResult, error) {
	var res LoadResult
	start := b.Len()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Lines++

		if err := b.Add(scanner.Text()); err != nil {
			if !l.skipInvalid || !rejected(err) {
				res.Terms = b.Len() - start
				return res, fmt.Errorf("%w: line %d", err, res.Lines)
			}
			res.Rejected++
		}

		if l.progressEvery > 0 && res.Lines%l.progressEvery == 0 {
			l.log.Infof("dictionary: %d lines, %d terms", res.Lines, b.Len())
		}
	}
	res.Terms = b.Len() - start
	if err := scanner.Err(); err != nil {
		return res, err
	}
	l.log.Infof("dictionary: loaded %d lines, %d new terms, %d rejected", res.Lines, res.Terms, res.Rejected)
	return res, nil
}

// LoadFile opens path on fs and loads it into b.
func (l *Loader) LoadFile(ctx context.Context, fs afero.Fs, path string, b *dat.Builder) (LoadResult, error) {
	if path == "" {
		return LoadResult{}, ErrInvalidPath
	}
	f, err := fs.Open(path)
	if err != nil {
		return LoadResult{}, err
	}
	defer f.Close()
	l.log.Debugf("dictionary: loading %s", path)
	return l.Load(ctx, f, b)
}

func rejected(err error) bool {
	return errors.Is(err, dat.ErrUnmappedRune) || errors.Is(err, dat.ErrSeparatorInTerm)
}
