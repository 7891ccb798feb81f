package main

import (
	"fmt"
	"strings"

	"github.com/agenthands/linkbench/internal/core/linking"
	"github.com/spf13/cobra"
)

func newEvaluateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate GOLD_TSV PREDICTIONS_JSON",
		Short: "Score linker output against expected entities",
		Long: `GOLD_TSV holds "id<TAB>Q1,Q2" lines. A case passes when every expected id
appears among the predicted ids of PREDICTIONS_JSON (the output of link).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gold, err := linking.LoadGold(args[0])
			if err != nil {
				return err
			}
			preds, err := linking.LoadPredictions(args[1])
			if err != nil {
				return err
			}

			rep := linking.Evaluate(gold, preds)
			out := cmd.OutOrStdout()
			for _, c := range rep.Cases {
				if c.Passed {
					fmt.Fprintf(out, "%s\tpassed\n", c.ID)
					continue
				}
				fmt.Fprintf(out, "%s\tfailed\tmissing %s\tgot %s\n",
					c.ID, strings.Join(c.Missing, ","), strings.Join(c.Predicted, ","))
			}
			fmt.Fprintf(out, "%.1f%% (%d/%d) of cases correct\n", rep.Accuracy()*100, rep.Passed, rep.Total)
			return nil
		},
	}
}
