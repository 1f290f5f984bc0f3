package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/methodize/cmd/methodize/commands"
	"github.com/walteh/methodize/pkg/config"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
)

// addRootFlags adds shared flags to the root command and wires config
// loading into the pre-run hook, after flags have been parsed.
func addRootFlags(cmd *cobra.Command, opts *commands.RootOpts) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".methodize.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts.Config = cfg
		return nil
	}
}

// loadConfig loads the config file, falling back to the compiled-in rule set
// when the default config file is absent. An explicitly passed --config that
// does not exist is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	ctx := cmd.Context()

	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Msg("no config file found, using built-in rule set")
			return config.Default(), nil
		}
	}

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setupLogging configures zerolog console output. The --debug flag raises
// the global level later, once flags have been parsed.
func setupLogging(ctx context.Context) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
