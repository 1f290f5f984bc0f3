// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"bytes"
	"context"
	"fmt"

	"github.com/walteh/methodize/pkg/log"
	"github.com/walteh/methodize/pkg/rename"
	"github.com/walteh/methodize/pkg/rewrite"
	"github.com/walteh/methodize/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏭 NewCheckOperation creates the dry-run operation: the same pipeline as a
// rewrite run, with the write step skipped.
func NewCheckOperation(opts Options) (*CheckOperation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &CheckOperation{
		BaseOperation: NewBaseOperation(opts),
		renamer:       rename.NewLiteralRenamer(),
		rewriter:      rewrite.NewCallRewriter(),
	}, nil
}

// 🔍 CheckOperation reports which files a rewrite run would change
type CheckOperation struct {
	BaseOperation
	renamer  rename.Renamer
	rewriter rewrite.Rewriter

	changed []string
}

func (op *CheckOperation) Name() string { return "check" }

// Changed returns the files the run would modify, in target order. Only
// valid after Execute.
func (op *CheckOperation) Changed() []string { return op.changed }

// 🏃 Execute runs the pipeline without writing anything back
func (op *CheckOperation) Execute(ctx context.Context) error {
	targets, err := op.resolveTargets(ctx)
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	op.StatusMgr.StartOperation(ctx, len(targets))
	defer op.StatusMgr.FinishOperation(ctx)

	op.changed = nil
	for i, file := range targets {
		content, err := op.StatusMgr.ReadFile(ctx, file)
		if err != nil {
			return errors.Errorf("reading %s: %w", file, err)
		}

		renamed, err := op.renamer.Rename(ctx, bytes.NewReader(content), op.Config.Renames)
		if err != nil {
			return errors.Errorf("applying rename rules to %s: %w", file, err)
		}

		rewritten, err := op.rewriter.Rewrite(ctx, bytes.NewReader(renamed.ModifiedContent), op.Config.Patterns)
		if err != nil {
			return errors.Errorf("applying call patterns to %s: %w", file, err)
		}

		if renamed.WasModified || rewritten.WasModified {
			op.changed = append(op.changed, file)
			op.UserLog.LogFileChange(log.FileChange{
				Type:     log.FileRewritten,
				Path:     file,
				Renames:  renamed.ReplacementCount,
				Rewrites: rewritten.RewriteCount,
			})
		} else {
			op.UserLog.LogFileChange(log.FileChange{Type: log.FileUnchanged, Path: file})
		}

		op.StatusMgr.TrackFile(ctx, file, status.FileInfo{
			Path:     file,
			Status:   status.StatusUnchanged,
			Size:     int64(len(content)),
			Renames:  renamed.ReplacementCount,
			Rewrites: rewritten.RewriteCount,
			Checksum: status.Checksum(content),
		})
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	op.UserLog.LogRunChange(fmt.Sprintf("%d of %d files would change", len(op.changed), len(targets)))
	return nil
}
