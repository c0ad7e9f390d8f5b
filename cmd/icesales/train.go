package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/icesales/config"
	"github.com/YuminosukeSato/icesales/pipeline"
)

func newTrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Load data, fit and evaluate the model, then save it with the run artifacts.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, func(cfg *config.Config) {
				if v, ok := changed(cmd, "data", cmd.Flags().GetString); ok {
					cfg.Data.Path = v
				}
				if v, ok := changed(cmd, "model", cmd.Flags().GetString); ok {
					cfg.Model.Path = v
				}
				if v, ok := changed(cmd, "output", cmd.Flags().GetString); ok {
					cfg.Output.Dir = v
				}
				if v, ok := changed(cmd, "test-size", cmd.Flags().GetFloat64); ok {
					cfg.Data.TestSize = v
				}
				if v, ok := changed(cmd, "seed", cmd.Flags().GetUint64); ok {
					cfg.Data.Seed = v
				}
				if v, ok := changed(cmd, "plots", cmd.Flags().GetBool); ok {
					cfg.Output.Plots = v
				}
			})
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := pipeline.Run(cmd.Context(), pipeline.OptionsFromConfig(e.cfg), e.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nMAE=%.3f MSE=%.3f RMSE=%.3f R2=%.4f (holdout n=%d)\nmodel saved to %s\n",
				res.Model, res.Metrics.MAE, res.Metrics.MSE, res.Metrics.RMSE, res.Metrics.R2, res.Metrics.N,
				res.Artifacts.Model)
			return nil
		},
	}
	cmd.Flags().String("data", "", "training CSV")
	cmd.Flags().String("model", "", "where to save the model (.gob or .json)")
	cmd.Flags().String("output", "", "directory for demo table, charts and run summary")
	cmd.Flags().Float64("test-size", 0.2, "holdout fraction in (0, 1)")
	cmd.Flags().Uint64("seed", 42, "split seed")
	cmd.Flags().Bool("plots", true, "write PNG charts")
	return cmd
}
