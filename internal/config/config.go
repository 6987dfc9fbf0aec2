package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-doublearray/dat"
	"github.com/forestrie/go-doublearray/dictionary"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

const (
	EnvPrefix = "DATDICT"
	FileName  = ".datdict"

	DefaultLogLevel = "INFO"
)

// Keys shared by the config file, the environment (DATDICT_LOG_LEVEL etc.)
// and the command line flags.
const (
	KeyLogLevel       = "log-level"
	KeyVariant        = "variant"
	KeySeparator      = "separator"
	KeyAlphabet       = "alphabet"
	KeyFoldCase       = "fold-case"
	KeyCapacity       = "capacity"
	KeyProbeThreshold = "probe-threshold"
	KeyProbeRatio     = "probe-ratio"
	KeyProgressEvery  = "progress-every"
	KeySkipInvalid    = "skip-invalid"
	KeyWorkers        = "workers"
)

var (
	ErrInvalidSeparator = errors.New("config: separator must be a single character")
	ErrInvalidWorkers   = errors.New("config: workers must not be negative")
)

// Config holds the datdict settings after defaults, the config file, the
// environment and flags have been merged.
type Config struct {
	LogLevel string

	Variant        string
	Separator      string
	Alphabet       string // runes assigned codes 1..n in order; empty means ordinal
	FoldCase       bool
	Capacity       int
	ProbeThreshold int
	ProbeRatio     float64

	ProgressEvery int
	SkipInvalid   bool
	Workers       int
}

// New returns a viper instance reading .datdict.yaml from the working
// directory or the user's home, and DATDICT_* environment variables.
func New(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "datdict"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyVariant, dat.VariantTail.String())
	v.SetDefault(KeySeparator, string(dat.DefaultSeparator))
	v.SetDefault(KeyAlphabet, "")
	v.SetDefault(KeyFoldCase, false)
	v.SetDefault(KeyCapacity, 1024)
	v.SetDefault(KeyProbeThreshold, int(dat.DefaultProbeThreshold))
	v.SetDefault(KeyProbeRatio, dat.DefaultProbeStartRatio)
	v.SetDefault(KeyProgressEvery, dictionary.DefaultProgressEvery)
	v.SetDefault(KeySkipInvalid, false)
	v.SetDefault(KeyWorkers, 0)
	return v
}

// Load reads the config file, if any, and returns the merged settings. An
// explicit configFile must exist; the default search path may find nothing.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := &Config{
		LogLevel:       v.GetString(KeyLogLevel),
		Variant:        v.GetString(KeyVariant),
		Separator:      v.GetString(KeySeparator),
		Alphabet:       v.GetString(KeyAlphabet),
		FoldCase:       v.GetBool(KeyFoldCase),
		Capacity:       v.GetInt(KeyCapacity),
		ProbeThreshold: v.GetInt(KeyProbeThreshold),
		ProbeRatio:     v.GetFloat64(KeyProbeRatio),
		ProgressEvery:  v.GetInt(KeyProgressEvery),
		SkipInvalid:    v.GetBool(KeySkipInvalid),
		Workers:        v.GetInt(KeyWorkers),
	}
	if cfg.Workers < 0 {
		return nil, ErrInvalidWorkers
	}
	return cfg, nil
}

// BuilderOptions converts the trie settings to dat options. Validation of
// the values themselves is left to dat.NewBuilder.
func (c *Config) BuilderOptions(log logger.Logger) ([]dat.Option, error) {
	variant, err := dat.ParseVariant(c.Variant)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, c.Variant)
	}
	if utf8.RuneCountInString(c.Separator) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeparator, c.Separator)
	}
	sep, _ := utf8.DecodeRuneInString(c.Separator)

	opts := []dat.Option{
		dat.WithVariant(variant),
		dat.WithSeparator(sep),
		dat.WithCapacity(c.Capacity),
		dat.WithProbeStart(int32(c.ProbeThreshold), c.ProbeRatio),
		dat.WithLogger(log),
	}
	if c.Alphabet != "" {
		table, err := dat.NewCodeTableFromRunes([]rune(c.Alphabet)...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dat.WithAlphabet(table))
	}
	if c.FoldCase {
		opts = append(opts, dat.WithCaseFolding())
	}
	return opts, nil
}

func (c *Config) LoaderOptions() []dictionary.LoaderOption {
	opts := []dictionary.LoaderOption{dictionary.WithProgressEvery(c.ProgressEvery)}
	if c.SkipInvalid {
		opts = append(opts, dictionary.WithSkipInvalid())
	}
	return opts
}
