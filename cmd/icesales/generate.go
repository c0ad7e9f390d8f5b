package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/icesales/dataset"
	"github.com/YuminosukeSato/icesales/pkg/log"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a reproducible synthetic sales dataset.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			rows, _ := cmd.Flags().GetInt("rows")
			seed, _ := cmd.Flags().GetUint64("seed")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = e.cfg.Data.Path
			}

			ds, err := dataset.GenerateSynthetic(rows, seed)
			if err != nil {
				e.logger.Error("Generation failed", err)
				return err
			}
			if err := dataset.WriteCSV(ds, out); err != nil {
				e.logger.Error("Writing dataset failed", err, log.SourceKey, out)
				return err
			}
			e.logger.Info("Dataset generated",
				log.SamplesKey, ds.Rows(),
				log.RandomSeedKey, seed,
				log.SourceKey, out,
			)
			return nil
		},
	}
	cmd.Flags().Int("rows", 100, "number of rows to generate")
	cmd.Flags().Uint64("seed", 42, "random seed")
	cmd.Flags().String("out", "", "output CSV (default: data.path from config)")
	return cmd
}
