// Command icesales generates data, trains the sales model, answers single
// predictions and serves the REST API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/icesales/config"
	"github.com/YuminosukeSato/icesales/pkg/log"
)

const defaultConfigFile = "icesales.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "icesales:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "icesales",
		Short:         "Forecast ice cream sales from temperature.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringP("config", "c", defaultConfigFile, "configuration file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (json, console, slog)")
	flags.String("log-file", "", "also write logs to this rotated file")

	root.AddCommand(
		newGenerateCommand(),
		newTrainCommand(),
		newPredictCommand(),
		newServeCommand(),
	)
	return root
}

// env is what every subcommand gets after the shared setup.
type env struct {
	cfg    *config.Config
	logger log.Logger
	closer io.Closer
}

func (e *env) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

// setup loads the configuration, applies flag overrides and builds the logger.
// A missing default config file is not an error; an explicit one must exist.
func setup(cmd *cobra.Command, overrides func(*config.Config)) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Log.File = v
	}
	if overrides != nil {
		overrides(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := log.New(log.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stdout: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger.With(log.OperationKey, cmd.Name()), closer: closer}, nil
}

// changed returns the flag value only when the user set it.
func changed[T any](cmd *cobra.Command, name string, get func(string) (T, error)) (T, bool) {
	var zero T
	if !cmd.Flags().Changed(name) {
		return zero, false
	}
	v, err := get(name)
	if err != nil {
		return zero, false
	}
	return v, true
}
