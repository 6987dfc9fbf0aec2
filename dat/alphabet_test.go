package dat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeTableDefine(t *testing.T) {
	table := NewCodeTable()
	require.NoError(t, table.Define('a', 1))
	require.NoError(t, table.Define('a', 1))
	require.ErrorIs(t, table.Define('a', 2), ErrCodeConflict)
	require.ErrorIs(t, table.Define('b', 1), ErrCodeConflict)
	require.ErrorIs(t, table.Define('b', 0), ErrInvalidCode)
	require.ErrorIs(t, table.Define('b', -3), ErrInvalidCode)
	require.Equal(t, 1, table.Len())

	code, ok := table.Code('a')
	require.True(t, ok)
	require.Equal(t, int32(1), code)
	r, ok := table.Rune(1)
	require.True(t, ok)
	require.Equal(t, 'a', r)
	_, ok = table.Code('z')
	require.False(t, ok)

	m := table.Table()
	m['z'] = 9
	_, ok = table.Code('z')
	require.False(t, ok)
}

func TestNewCodeTableFromRunes(t *testing.T) {
	table, err := NewCodeTableFromRunes('#', 'x', 'y')
	require.NoError(t, err)
	require.Equal(t, map[rune]int32{'#': 1, 'x': 2, 'y': 3}, table.Table())

	_, err = NewCodeTableFromRunes('x', 'x')
	require.ErrorIs(t, err, ErrCodeConflict)
}

func TestOrdinal(t *testing.T) {
	code, ok := Ordinal{}.Code('a')
	require.True(t, ok)
	require.Equal(t, int32(97), code)
	_, ok = Ordinal{}.Code(0)
	require.False(t, ok)
	r, ok := Ordinal{}.Rune(0x4e16)
	require.True(t, ok)
	require.Equal(t, '世', r)
}

func TestTermCodec(t *testing.T) {
	table, err := NewCodeTableFromRunes('#', 'a', 'b')
	require.NoError(t, err)
	codec, err := newTermCodec(table, '#', true)
	require.NoError(t, err)

	codes, err := codec.encode(" AbA ")
	require.NoError(t, err)
	require.Equal(t, []int32{2, 3, 2, 1}, codes)
	assert.Equal(t, "aba#", codec.render(codes))
	assert.Equal(t, "a?", codec.render([]int32{2, garbageCode}))

	codes, err = codec.encode("\t\n")
	require.NoError(t, err)
	require.Nil(t, codes)

	_, err = codec.encode("a#")
	require.ErrorIs(t, err, ErrSeparatorInTerm)
	_, err = codec.encode("abc")
	require.ErrorIs(t, err, ErrUnmappedRune)

	_, err = newTermCodec(table, '$', false)
	require.ErrorIs(t, err, ErrInvalidSeparator)
}

func TestParseVariant(t *testing.T) {
	for _, v := range variants() {
		got, err := ParseVariant(v.String())
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
	got, err := ParseVariant("")
	require.NoError(t, err)
	require.Equal(t, VariantTail, got)

	_, err = ParseVariant("patricia")
	require.ErrorIs(t, err, ErrInvalidVariant)
	require.Equal(t, "unknown", Variant(9).String())
}

func TestBuilderNonASCIITerms(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.String(), func(t *testing.T) {
			b := newTestBuilder(t, WithVariant(v), WithCaseFolding())
			addAll(t, b, "Straße", "strasse", "日本語", "日本")

			requireContains(t, b, "straße", true)
			requireContains(t, b, "日本", true)
			requireContains(t, b, "日本語", true)
			requireContains(t, b, "日", false)
			require.Equal(t, 4, b.Len())
			requireConsistent(t, b)
		})
	}
}
