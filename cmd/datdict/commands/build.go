package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/forestrie/go-doublearray/dat"
	"github.com/forestrie/go-doublearray/dictionary"
	"github.com/forestrie/go-doublearray/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newBuildCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build <dictionary>",
		Short: "Build a trie snapshot from a file with one term per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.log()
			opts, err := a.cfg.BuilderOptions(log)
			if err != nil {
				return err
			}
			b, err := dat.NewBuilder(opts...)
			if err != nil {
				return err
			}

			loader := dictionary.NewLoader(log, a.cfg.LoaderOptions()...)
			res, err := loader.LoadFile(cmd.Context(), a.fs, args[0], b)
			if err != nil {
				return err
			}

			t := b.Freeze()
			data, err := t.MarshalBinary()
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0] + ".dat"
			}
			if err := afero.WriteFile(a.fs, output, data, 0o644); err != nil {
				return err
			}
			log.Debugf("build: %v", b.Stats())

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s terms from %s lines (%s rejected), %s\n",
				output,
				humanize.Comma(int64(t.Len())),
				humanize.Comma(int64(res.Lines)),
				humanize.Comma(int64(res.Rejected)),
				humanize.IBytes(uint64(len(data))))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "snapshot path (default <dictionary>.dat)")
	flags.String(config.KeyVariant, "tail", "trie variant: tail or separator")
	flags.String(config.KeySeparator, "#", "term separator; terms may not contain it")
	flags.String(config.KeyAlphabet, "", "runes to number 1..n in order instead of using code points")
	flags.Bool(config.KeyFoldCase, false, "lower-case terms before inserting and querying")
	flags.Int(config.KeyCapacity, 1024, "initial array length")
	flags.Int(config.KeyProbeThreshold, 100000, "max index above which free-base probing skips the dense low region (0 disables)")
	flags.Float64(config.KeyProbeRatio, 0.87, "fraction of the max index at which probing starts")
	flags.Int(config.KeyProgressEvery, dictionary.DefaultProgressEvery, "log progress every n lines (0 disables)")
	flags.Bool(config.KeySkipInvalid, false, "skip terms with unmapped runes or the separator instead of failing")
	a.bind(flags,
		config.KeyVariant, config.KeySeparator, config.KeyAlphabet, config.KeyFoldCase,
		config.KeyCapacity, config.KeyProbeThreshold, config.KeyProbeRatio,
		config.KeyProgressEvery, config.KeySkipInvalid)
	return cmd
}
