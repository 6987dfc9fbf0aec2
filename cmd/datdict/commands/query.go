package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/forestrie/go-doublearray/dictionary"
	"github.com/forestrie/go-doublearray/internal/config"
	"github.com/spf13/cobra"
)

func newLookupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <snapshot> <term>...",
		Short: "Report whether each term is in the snapshot",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.readTrie(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, term := range args[1:] {
				ok, err := t.Contains(term)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%t\n", term, ok)
			}
			return nil
		},
	}
}

func newVerifyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <snapshot> <dictionary>",
		Short: "Check that every term of a dictionary is in the snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.readTrie(args[0])
			if err != nil {
				return err
			}
			loader := dictionary.NewLoader(a.log())
			res, err := loader.VerifyFile(cmd.Context(), a.fs, args[1], t, a.cfg.Workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, term := range res.Missing {
				fmt.Fprintf(out, "missing\t%s\n", term)
			}
			fmt.Fprintf(out, "checked %s terms, %s missing\n",
				humanize.Comma(int64(res.Checked)), humanize.Comma(int64(len(res.Missing))))
			if len(res.Missing) > 0 {
				return fmt.Errorf("%w: %d of %d", dictionary.ErrMissingTerms, len(res.Missing), res.Checked)
			}
			return nil
		},
	}
	cmd.Flags().Int(config.KeyWorkers, 0, "concurrent lookups (default GOMAXPROCS)")
	a.bind(cmd.Flags(), config.KeyWorkers)
	return cmd
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <snapshot>",
		Short: "Print the size and shape of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.readTrie(args[0])
			if err != nil {
				return err
			}
			s := t.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:          %s\n", t.ID())
			fmt.Fprintf(out, "variant:     %s\n", s.Variant)
			fmt.Fprintf(out, "terms:       %s\n", humanize.Comma(int64(s.Terms)))
			fmt.Fprintf(out, "slots:       %s\n", humanize.Comma(int64(s.Capacity)))
			fmt.Fprintf(out, "tail:        %s (%s garbage)\n",
				humanize.Comma(int64(s.TailCapacity)), humanize.Comma(int64(s.TailGarbage)))
			fmt.Fprintf(out, "relocations: %s\n", humanize.Comma(int64(s.Relocations)))
			fmt.Fprintf(out, "growths:     %d\n", s.Growths)
			fmt.Fprintf(out, "max base:    %d\n", s.MaxBase)
			fmt.Fprintf(out, "max fanout:  %d\n", s.MaxFanout)
			fmt.Fprintf(out, "memory:      %s\n", humanize.IBytes(s.Bytes()))
			return nil
		},
	}
}
