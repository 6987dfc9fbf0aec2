package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-doublearray/dat"
	"github.com/forestrie/go-doublearray/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const serviceName = "datdict"

// app is the state shared by the subcommands of one invocation.
type app struct {
	fs         afero.Fs
	v          *viper.Viper
	cfg        *config.Config
	configFile string
}

// Execute runs datdict against the OS file system. An interrupt cancels the
// running command.
func Execute() error {
	logger.New(config.DefaultLogLevel)
	defer logger.OnExit()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand(config.AppFs).ExecuteContext(ctx)
}

// NewRootCommand builds the datdict command tree over fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, v: config.New(fs)}

	root := &cobra.Command{
		Use:          "datdict",
		Short:        "Build and query double-array trie dictionaries",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger.New(cfg.LogLevel)
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default .datdict.yaml in . or $HOME)")
	flags.String(config.KeyLogLevel, config.DefaultLogLevel, "log level")
	a.bind(flags, config.KeyLogLevel)

	root.AddCommand(
		newBuildCommand(a),
		newLookupCommand(a),
		newVerifyCommand(a),
		newStatsCommand(a),
	)
	return root
}

// bind makes the named flags the highest priority source for their config
// keys.
func (a *app) bind(flags *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("datdict: binding flag %s: %v", key, err))
		}
	}
}

func (a *app) log() logger.Logger {
	return logger.Sugar.WithServiceName(serviceName)
}

func (a *app) readTrie(path string) (*dat.Trie, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, err
	}
	t, err := dat.UnmarshalTrie(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return t, nil
}
