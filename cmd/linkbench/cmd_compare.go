package main

import (
	"errors"
	"io"
	"syscall"

	"github.com/agenthands/linkbench/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCompareCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare BASE DIR_A DIR_B",
		Short: "Print ids failing in DIR_B but not in DIR_A",
		Long: `Reads <root>/DIR_A/BASE.debug and <root>/DIR_B/BASE.debug and prints, one per
line and in DIR_B's order, every id of DIR_B that does not occur in DIR_A.
Repeated ids are printed each time. Nothing is printed when no new failures exist.

Example:
  linkbench compare qald7-test baseline refined-ft`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bench := core.NewBench(a.cfg, nil, a.logger)
			n, err := bench.Compare(cmd.OutOrStdout(), args[0], args[1], args[2])
			if isBrokenPipe(err) {
				return nil
			}
			if err != nil {
				return err
			}
			a.logger.Debug("compare finished", zap.Int("identifiers", n))
			return nil
		},
	}
}

// isBrokenPipe reports whether the reader of stdout went away, as with
// `linkbench compare ... | head`.
func isBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
