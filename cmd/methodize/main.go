package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/methodize/cmd/methodize/commands"
	"github.com/walteh/methodize/pkg/log"
)

func main() {
	// Setup logging
	ctx := setupLogging(context.Background())

	// Create user logger
	userLogger := log.NewUserLogger(ctx)

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "methodize",
		Short: "Rewrite free-function call sites into method calls",
		Long: `methodize renames a fixed set of identifiers throughout source files and
rewrites call sites of configured free functions into method-call form,
promoting one argument to the receiver position and dropping it from the
argument list.`,
	}

	// Root options shared by all commands
	opts := &commands.RootOpts{UserLog: userLogger}

	// Add shared flags and config loading
	addRootFlags(rootCmd, opts)

	// Add commands
	rootCmd.AddCommand(
		commands.NewRunCmd(opts),
		commands.NewCheckCmd(opts),
		commands.NewRestoreCmd(opts),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
