package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agenthands/linkbench/internal/core"
	"github.com/agenthands/linkbench/internal/core/linking"
	"github.com/agenthands/linkbench/internal/core/model"
	"github.com/agenthands/linkbench/internal/driver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLinkCommand(a *app) *cobra.Command {
	var (
		modelName  string
		outputPath string
		toGraph    bool
	)

	cmd := &cobra.Command{
		Use:   "link INPUT_FILE",
		Short: "Run the entity linker over a dataset and print predicted ids as JSON",
		Long: `Each line of INPUT_FILE is "id<TAB>utterance<TAB>thingtalk". The output is a
JSON object mapping every id, in file order, to the Wikidata ids predicted
for its utterance. Mentions the linker could not resolve are left out.

Example:
  linkbench link data/qald7/test.tsv --model questions_model > refined.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelName != "" {
				a.cfg.Linker.Model = modelName
			}
			ctx := cmd.Context()

			examples, err := linking.LoadExamples(args[0])
			if err != nil {
				return err
			}

			stack, err := linking.Build(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			runner := linking.NewRunner(stack.Predictor, a.cfg.Concurrency.Link, a.cfg.Retry.SkipFailed, a.logger)
			preds, err := runner.Run(ctx, examples)
			if err != nil {
				return err
			}

			if err := writePredictions(cmd.OutOrStdout(), outputPath, preds); err != nil {
				return err
			}

			if toGraph {
				dataset := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				runID, err := exportRun(ctx, a, stack.Name, dataset, examples, preds)
				if err != nil {
					return err
				}
				a.logger.Info("exported run to graph", zap.String("run_id", runID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelName, "model", "", "the name of the model or a path to the finetuned model")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&toGraph, "graph", false, "also store the predictions in the graph database")
	return cmd
}

func writePredictions(stdout io.Writer, path string, preds *linking.Predictions) error {
	if path == "" {
		return preds.Write(stdout)
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := preds.Write(fh); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

func exportRun(ctx context.Context, a *app, linker, dataset string, examples []model.Example, preds *linking.Predictions) (string, error) {
	mg := a.cfg.Memgraph
	d, err := driver.NewMemgraphDriver(ctx, mg.URI, mg.User, mg.Password, a.logger)
	if err != nil {
		return "", err
	}
	defer d.Close(context.WithoutCancel(ctx))

	if err := d.BuildIndices(ctx); err != nil {
		return "", err
	}
	return core.NewExporter(d).Export(ctx, linker, dataset, examples, preds)
}

func newPreloadCommand(a *app) *cobra.Command {
	var modelName string

	cmd := &cobra.Command{
		Use:   "preload",
		Short: "Load (and download if needed) the pretrained linking model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelName != "" {
				a.cfg.Linker.Model = modelName
			}

			stack, err := linking.Build(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			warmed, err := linking.Warmup(cmd.Context(), stack.Predictor)
			if err != nil {
				return fmt.Errorf("failed to load model: %w", err)
			}
			if !warmed {
				a.logger.Info("linker has no model to preload", zap.String("linker", stack.Name))
				return nil
			}
			a.logger.Info("model loaded", zap.String("linker", stack.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&modelName, "model", "", "the name of the model to load")
	return cmd
}
