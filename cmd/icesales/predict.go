package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/icesales/config"
	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/pkg/log"
	"github.com/YuminosukeSato/icesales/prediction"
)

func newPredictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict sales for one temperature with the saved model.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, func(cfg *config.Config) {
				if v, ok := changed(cmd, "model", cmd.Flags().GetString); ok {
					cfg.Model.Path = v
				}
			})
			if err != nil {
				return err
			}
			defer e.Close()

			temperature, _ := cmd.Flags().GetFloat64("temperature")
			m, err := model.LoadModel(e.cfg.Model.Path)
			if err != nil {
				e.logger.Error("Loading model failed", err, log.SourceKey, e.cfg.Model.Path)
				return err
			}
			resp, err := prediction.NewService(model.NewHandle(m)).Predict(temperature)
			if err != nil {
				e.logger.Error("Prediction failed", err, log.TemperatureKey, temperature)
				return err
			}
			e.logger.Debug("Prediction served",
				log.ModelIDKey, m.Metadata().ID,
				log.TemperatureKey, temperature,
				log.PredictionKey, resp.PredictedSales,
			)
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	cmd.Flags().Float64P("temperature", "t", 0, "temperature in °C")
	cmd.Flags().String("model", "", "model file (default: model.path from config)")
	_ = cmd.MarkFlagRequired("temperature")
	return cmd
}
