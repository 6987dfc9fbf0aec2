package config

import (
	"testing"

	"github.com/forestrie/go-doublearray/dat"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(afero.NewMemMapFs()), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "tail", cfg.Variant)
	assert.Equal(t, "#", cfg.Separator)
	assert.Empty(t, cfg.Alphabet)
	assert.False(t, cfg.FoldCase)
	assert.Equal(t, 1024, cfg.Capacity)
	assert.Equal(t, 100000, cfg.ProbeThreshold)
	assert.InDelta(t, 0.87, cfg.ProbeRatio, 1e-9)
	assert.Equal(t, 100000, cfg.ProgressEvery)
	assert.False(t, cfg.SkipInvalid)
	assert.Zero(t, cfg.Workers)
}

func TestLoadConfigFileAndEnvironment(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/datdict.yaml", []byte(`
variant: separator
separator: "$"
fold-case: true
workers: 3
capacity: 64
`), 0o644))

	cfg, err := Load(New(fs), "/etc/datdict.yaml")
	require.NoError(t, err)
	assert.Equal(t, "separator", cfg.Variant)
	assert.Equal(t, "$", cfg.Separator)
	assert.True(t, cfg.FoldCase)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 64, cfg.Capacity)

	t.Setenv("DATDICT_WORKERS", "5")
	t.Setenv("DATDICT_SKIP_INVALID", "true")
	cfg, err = Load(New(fs), "/etc/datdict.yaml")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers)
	assert.True(t, cfg.SkipInvalid)
	assert.Equal(t, "separator", cfg.Variant)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(New(afero.NewMemMapFs()), "/nowhere/datdict.yaml")
	require.Error(t, err)

	t.Setenv("DATDICT_WORKERS", "-1")
	_, err = Load(New(afero.NewMemMapFs()), "")
	require.ErrorIs(t, err, ErrInvalidWorkers)
}

func TestBuilderOptions(t *testing.T) {
	cfg, err := Load(New(afero.NewMemMapFs()), "")
	require.NoError(t, err)

	cfg.Variant = "separator"
	cfg.Alphabet = "#abdjr"
	cfg.FoldCase = true
	opts, err := cfg.BuilderOptions(nil)
	require.NoError(t, err)

	b, err := dat.NewBuilder(opts...)
	require.NoError(t, err)
	require.NoError(t, b.Add("JAR"))
	ok, err := b.Contains("jar")
	require.NoError(t, err)
	require.True(t, ok)
	require.ErrorIs(t, b.Add("box"), dat.ErrUnmappedRune)
	require.Equal(t, dat.VariantSeparator, b.Freeze().Variant())

	bad := *cfg
	bad.Separator = "ab"
	_, err = bad.BuilderOptions(nil)
	require.ErrorIs(t, err, ErrInvalidSeparator)

	bad = *cfg
	bad.Variant = "patricia"
	_, err = bad.BuilderOptions(nil)
	require.ErrorIs(t, err, dat.ErrInvalidVariant)

	bad = *cfg
	bad.Alphabet = "#aa"
	_, err = bad.BuilderOptions(nil)
	require.ErrorIs(t, err, dat.ErrCodeConflict)

	// The separator must be part of an explicit alphabet.
	bad = *cfg
	bad.Alphabet = "ab"
	opts, err = bad.BuilderOptions(nil)
	require.NoError(t, err)
	_, err = dat.NewBuilder(opts...)
	require.ErrorIs(t, err, dat.ErrInvalidSeparator)
}

func TestLoaderOptions(t *testing.T) {
	cfg := &Config{ProgressEvery: 10}
	require.Len(t, cfg.LoaderOptions(), 1)
	cfg.SkipInvalid = true
	require.Len(t, cfg.LoaderOptions(), 2)
}
