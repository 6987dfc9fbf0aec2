package dictionary

import (
	"bufio"
	"context"
	"errors"
	"io"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/forestrie/go-doublearray/dat"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// VerifyResult lists the dictionary terms a trie does not contain, sorted.
// Terms the trie's alphabet cannot map are reported as missing.
type VerifyResult struct {
	Checked int
	Missing []string
}

// Verify looks every term of r up in t using up to workers goroutines.
// workers <= 0 means GOMAXPROCS.
func (l *Loader) Verify(ctx context.Context, r io.Reader, t *dat.Trie, workers int) (VerifyResult, error) {
	terms, err := readTerms(r)
	if err != nil {
		return VerifyResult{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := max(1, (len(terms)+workers-1)/workers)

	var mu sync.Mutex
	var missing []string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(terms); lo += chunk {
		part := terms[lo:min(lo+chunk, len(terms))]
		g.Go(func() error {
			var notFound []string
			for _, term := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				ok, err := t.Contains(term)
				if err != nil && !errors.Is(err, dat.ErrUnmappedRune) {
					return err
				}
				if !ok {
					notFound = append(notFound, term)
				}
			}
			mu.Lock()
			missing = append(missing, notFound...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return VerifyResult{}, err
	}

	slices.Sort(missing)
	l.log.Infof("dictionary: verified %d terms, %d missing", len(terms), len(missing))
	return VerifyResult{Checked: len(terms), Missing: missing}, nil
}

// VerifyFile runs Verify over the dictionary at path on fs.
func (l *Loader) VerifyFile(ctx context.Context, fs afero.Fs, path string, t *dat.Trie, workers int) (VerifyResult, error) {
	if path == "" {
		return VerifyResult{}, ErrInvalidPath
	}
	f, err := fs.Open(path)
	if err != nil {
		return VerifyResult{}, err
	}
	defer f.Close()
	return l.Verify(ctx, f, t, workers)
}

// readTerms returns the trimmed, non-blank lines of r.
func readTerms(r io.Reader) ([]string, error) {
	var terms []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if term := strings.TrimSpace(scanner.Text()); term != "" {
			terms = append(terms, term)
		}
	}
	return terms, scanner.Err()
}
