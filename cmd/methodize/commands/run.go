package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/methodize/pkg/operation"
	"github.com/walteh/methodize/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the run command
func NewRunCmd(opts *RootOpts) *cobra.Command {
	var (
		files  []string
		root   string
		backup bool
		async  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply the rename and call-pattern rules to the configured files",
		Long: `Run applies the configured rule set to every target file:
1. Rename rules rewrite fixed identifiers throughout the file
2. Call-pattern rules convert matching call sites to method form
3. Changed files are overwritten atomically in place`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := opts.Config
			if root != "" {
				cfg.Root = root
			}
			if len(files) > 0 {
				cfg.Files = files
			}
			if backup {
				cfg.Backup = true
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("validating config: %w", err)
			}
			if len(cfg.Files) == 0 {
				return errors.New("no files configured: pass --file or set files in the config")
			}

			logger := zerolog.Ctx(ctx)
			statusMgr := status.NewManager(cfg.Root, logger)

			op, err := operation.NewRewriteOperation(operation.Options{
				Config:    cfg,
				StatusMgr: statusMgr,
				UserLog:   opts.UserLog,
			})
			if err != nil {
				return errors.Errorf("creating rewrite operation: %w", err)
			}

			runner := operation.NewRunner(logger, async)
			if err := runner.Run(ctx, op); err != nil {
				return errors.Errorf("running rewrite: %w", err)
			}

			opts.UserLog.LogValidation(true, "Updated files successfully", nil)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "file or glob to rewrite (overrides config)")
	cmd.Flags().StringVar(&root, "root", "", "base directory for file resolution (overrides config)")
	cmd.Flags().BoolVar(&backup, "backup", false, "keep a .bak copy of each modified file")
	cmd.Flags().BoolVar(&async, "async", false, "run the operation asynchronously")

	return cmd
}
