package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/methodize/pkg/operation"
	"github.com/walteh/methodize/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates the check command
func NewCheckCmd(opts *RootOpts) *cobra.Command {
	var (
		files []string
		root  string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which files a run would change, without writing",
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

			op, err := operation.NewCheckOperation(operation.Options{
				Config:    cfg,
				StatusMgr: statusMgr,
				UserLog:   opts.UserLog,
			})
			if err != nil {
				return errors.Errorf("creating check operation: %w", err)
			}

			if err := operation.NewRunner(logger, false).Run(ctx, op); err != nil {
				return errors.Errorf("running check: %w", err)
			}

			if len(op.Changed()) == 0 {
				opts.UserLog.LogValidation(true, "All files up to date", nil)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "file or glob to check (overrides config)")
	cmd.Flags().StringVar(&root, "root", "", "base directory for file resolution (overrides config)")

	return cmd
}
