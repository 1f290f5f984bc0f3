package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/methodize/pkg/operation"
	"github.com/walteh/methodize/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewRestoreCmd creates the restore command
func NewRestoreCmd(opts *RootOpts) *cobra.Command {
	var (
		files []string
		root  string
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore files from the .bak copies left by a backup run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := opts.Config
			if root != "" {
				cfg.Root = root
			}
			if len(files) > 0 {
				cfg.Files = files
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("validating config: %w", err)
			}
			if len(cfg.Files) == 0 {
				return errors.New("no files configured: pass --file or set files in the config")
			}

			logger := zerolog.Ctx(ctx)
			statusMgr := status.NewManager(cfg.Root, logger)

			op, err := operation.NewRestoreOperation(operation.Options{
				Config:    cfg,
				StatusMgr: statusMgr,
				UserLog:   opts.UserLog,
			})
			if err != nil {
				return errors.Errorf("creating restore operation: %w", err)
			}

			if err := operation.NewRunner(logger, false).Run(ctx, op); err != nil {
				return errors.Errorf("running restore: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "file or glob to restore (overrides config)")
	cmd.Flags().StringVar(&root, "root", "", "base directory for file resolution (overrides config)")

	return cmd
}
