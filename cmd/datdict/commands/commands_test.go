package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-doublearray/dictionary"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const words = `bachelor
badge

jar
  bad
box
badge
`

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	logger.New("NOOP")
	t.Cleanup(logger.OnExit)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/words.txt", []byte(words), 0o644))
	return fs
}

func run(fs afero.Fs, args ...string) (string, error) {
	root := NewRootCommand(fs)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "NOOP"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuildLookupVerifyStats(t *testing.T) {
	fs := newTestFs(t)

	out, err := run(fs, "build", "/words.txt", "-o", "/words.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "/words.dat: 5 terms from 7 lines (0 rejected)")
	exists, err := afero.Exists(fs, "/words.dat")
	require.NoError(t, err)
	require.True(t, exists)

	out, err = run(fs, "lookup", "/words.dat", "bad", "ba", "bachelor", "jab")
	require.NoError(t, err)
	assert.Equal(t, "bad\ttrue\nba\tfalse\nbachelor\ttrue\njab\tfalse\n", out)

	out, err = run(fs, "verify", "/words.dat", "/words.txt", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "checked 6 terms, 0 missing")

	require.NoError(t, afero.WriteFile(fs, "/more.txt", []byte("bad\nzebra\nba\n"), 0o644))
	out, err = run(fs, "verify", "/words.dat", "/more.txt")
	require.ErrorIs(t, err, dictionary.ErrMissingTerms)
	assert.Contains(t, out, "missing\tba\nmissing\tzebra\n")
	assert.Contains(t, out, "checked 3 terms, 2 missing")

	out, err = run(fs, "stats", "/words.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "variant:     tail")
	assert.Contains(t, out, "terms:       5")
	assert.Contains(t, out, "memory:")
}

func TestBuildDefaultOutputAndOptions(t *testing.T) {
	fs := newTestFs(t)

	_, err := run(fs, "build", "/words.txt",
		"--variant", "separator", "--fold-case", "--alphabet", "#abcdeghjlorx", "--capacity", "16")
	require.NoError(t, err)

	out, err := run(fs, "lookup", "/words.txt.dat", "BAD", "Box", "bo")
	require.NoError(t, err)
	assert.Equal(t, "BAD\ttrue\nBox\ttrue\nbo\tfalse\n", out)

	out, err = run(fs, "stats", "/words.txt.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "variant:     separator")

	// The snapshot's alphabet is enforced on lookup.
	_, err = run(fs, "lookup", "/words.txt.dat", "zebra")
	require.Error(t, err)
}

func TestBuildRejectsOrSkipsInvalidTerms(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/bad.txt", []byte("bad\nba#d\njar\n"), 0o644))

	_, err := run(fs, "build", "/bad.txt")
	require.ErrorContains(t, err, "line 2")

	out, err := run(fs, "build", "/bad.txt", "--skip-invalid")
	require.NoError(t, err)
	assert.Contains(t, out, "2 terms from 3 lines (1 rejected)")
}

func TestConfigFileAndEnvironment(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/datdict.yaml", []byte("variant: separator\nseparator: \"$\"\n"), 0o644))

	_, err := run(fs, "--config", "/datdict.yaml", "build", "/words.txt", "-o", "/cfg.dat")
	require.NoError(t, err)
	out, err := run(fs, "stats", "/cfg.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "variant:     separator")

	// Flags win over the config file.
	_, err = run(fs, "--config", "/datdict.yaml", "build", "/words.txt", "-o", "/flag.dat", "--variant", "tail")
	require.NoError(t, err)
	out, err = run(fs, "stats", "/flag.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "variant:     tail")

	t.Setenv("DATDICT_VARIANT", "bogus")
	_, err = run(fs, "build", "/words.txt", "-o", "/env.dat")
	require.Error(t, err)

	_, err = run(fs, "--config", "/missing.yaml", "stats", "/cfg.dat")
	require.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	fs := newTestFs(t)

	_, err := run(fs, "build")
	require.Error(t, err)

	_, err = run(fs, "build", "/nope.txt")
	require.Error(t, err)

	_, err = run(fs, "lookup", "/words.txt", "bad")
	require.Error(t, err)

	_, err = run(fs, "stats", "/nope.dat")
	require.Error(t, err)
}
