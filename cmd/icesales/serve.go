package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/icesales/config"
	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/pkg/errors"
	"github.com/YuminosukeSato/icesales/pkg/log"
	"github.com/YuminosukeSato/icesales/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP until interrupted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, func(cfg *config.Config) {
				if v, ok := changed(cmd, "addr", cmd.Flags().GetString); ok {
					cfg.Server.Addr = v
				}
				if v, ok := changed(cmd, "model", cmd.Flags().GetString); ok {
					cfg.Model.Path = v
				}
			})
			if err != nil {
				return err
			}
			defer e.Close()

			handle := model.NewHandle(nil)
			m, err := model.LoadModel(e.cfg.Model.Path)
			var notFound *errors.NotFoundError
			switch {
			case err == nil:
				handle.Swap(m)
				e.logger.Info("Model loaded", log.ModelIDKey, m.Metadata().ID, log.SourceKey, e.cfg.Model.Path)
			case errors.As(err, &notFound):
				// keep serving; POST /reload picks the model up once trained
				e.logger.Warn("No model yet, predictions return 503 until reload", log.SourceKey, e.cfg.Model.Path)
			default:
				e.logger.Error("Loading model failed", err, log.SourceKey, e.cfg.Model.Path)
				return err
			}

			srv := server.New(handle, server.Options{
				Addr:      e.cfg.Server.Addr,
				Mode:      e.cfg.Server.Mode,
				ModelPath: e.cfg.Model.Path,
			}, e.logger)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().String("addr", ":8000", "listen address")
	cmd.Flags().String("model", "", "model file (default: model.path from config)")
	return cmd
}
