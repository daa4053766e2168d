// Command fluxidset is a small demonstration CLI over the idset textual
// grammar and brace-expansion tool: decode/re-encode a set, or expand a
// "[...]"-bracketed pattern into every literal it denotes.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/flux-framework/flux-broker-go/idset"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fluxidset",
		Short: "Inspect and expand idset textual ranges",
	}
	root.AddCommand(newEncodeCmd(), newExpandCmd())
	return root
}

func newEncodeCmd() *cobra.Command {
	var useRange, useBrackets bool

	cmd := &cobra.Command{
		Use:   "encode [idset]",
		Short: "Decode an idset and re-encode it under the given flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := idset.Decode(args[0])
			if err != nil {
				return err
			}
			var flags idset.Flags
			if useRange {
				flags |= idset.Range
			}
			if useBrackets {
				flags |= idset.Brackets
			}
			out, err := idset.Encode(s, flags)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useRange, "range", false, "emit maximal consecutive runs as lo-hi")
	cmd.Flags().BoolVar(&useBrackets, "brackets", false, "wrap non-empty output in [...]")
	return cmd
}

func newExpandCmd() *cobra.Command {
	var stopAfter int

	cmd := &cobra.Command{
		Use:   "expand [pattern]",
		Short: "Expand a brace-bracketed pattern into every literal it denotes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			count, err := idset.FormatMap(args[0], func(literal string) (bool, error) {
				n++
				fmt.Println(literal)
				if stopAfter > 0 && n >= stopAfter {
					return true, nil
				}
				return false, nil
			})
			if err != nil {
				return err
			}
			slog.Debug("expansion complete", "count", count)
			return nil
		},
	}
	cmd.Flags().IntVar(&stopAfter, "stop-after", 0, "halt after this many literals (0 = no limit)")
	return cmd
}
