package dictionary

import (
	"context"
	"strings"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-doublearray/dat"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	logger.New("NOOP")
	t.Cleanup(logger.OnExit)
	return logger.Sugar.WithServiceName("dictionary")
}

func newBuilder(t *testing.T, opts ...dat.Option) *dat.Builder {
	t.Helper()
	b, err := dat.NewBuilder(opts...)
	require.NoError(t, err)
	return b
}

const words = `bachelor
badge

jar
  bad
box
badge
`

func TestLoadCountsLinesAndTerms(t *testing.T) {
	l := NewLoader(testLogger(t), WithProgressEvery(2))
	b := newBuilder(t)

	res, err := l.Load(context.Background(), strings.NewReader(words), b)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Lines: 7, Terms: 5}, res)
	require.Equal(t, 5, b.Len())

	for _, term := range []string{"bachelor", "badge", "jar", "bad", "box"} {
		ok, err := b.Contains(term)
		require.NoError(t, err)
		require.True(t, ok, term)
	}

	// A second load only counts what it added.
	res, err = l.Load(context.Background(), strings.NewReader("jar\njam\n"), b)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Lines: 2, Terms: 1}, res)
}

func TestLoadRejectsInvalidTerms(t *testing.T) {
	log := testLogger(t)
	table, err := dat.NewCodeTableFromRunes([]rune("#abdgjlorx")...)
	require.NoError(t, err)

	input := "bad\nbaz\njar\nja#r\n"

	b := newBuilder(t, dat.WithAlphabet(table))
	res, err := NewLoader(log).Load(context.Background(), strings.NewReader(input), b)
	require.ErrorIs(t, err, dat.ErrUnmappedRune)
	require.ErrorContains(t, err, "line 2")
	assert.Equal(t, LoadResult{Lines: 2, Terms: 1}, res)

	b = newBuilder(t, dat.WithAlphabet(table))
	res, err = NewLoader(log, WithSkipInvalid()).Load(context.Background(), strings.NewReader(input), b)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Lines: 4, Terms: 2, Rejected: 2}, res)
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newBuilder(t)
	res, err := NewLoader(testLogger(t)).Load(ctx, strings.NewReader(words), b)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, res.Lines)
	require.Zero(t, b.Len())
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dict/words.txt", []byte(words), 0o644))
	l := NewLoader(testLogger(t))

	b := newBuilder(t, dat.WithVariant(dat.VariantSeparator))
	res, err := l.LoadFile(context.Background(), fs, "/dict/words.txt", b)
	require.NoError(t, err)
	require.Equal(t, 5, res.Terms)

	_, err = l.LoadFile(context.Background(), fs, "/dict/missing.txt", b)
	require.Error(t, err)

	_, err = l.LoadFile(context.Background(), fs, "", b)
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestLoadLongLines(t *testing.T) {
	long := strings.Repeat("a", 100*1024)
	b := newBuilder(t)
	res, err := NewLoader(testLogger(t)).Load(context.Background(), strings.NewReader(long+"\nb\n"), b)
	require.NoError(t, err)
	require.Equal(t, 2, res.Terms)

	ok, err := b.Contains(long)
	require.NoError(t, err)
	require.True(t, ok)
}
