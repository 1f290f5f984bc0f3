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

	"github.com/walteh/methodize/pkg/log"
	"github.com/walteh/methodize/pkg/rename"
	"github.com/walteh/methodize/pkg/rewrite"
	"github.com/walteh/methodize/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏭 NewRewriteOperation creates the operation that applies the full
// pipeline to every target file: rename pass, then call-pattern pass, then
// atomic overwrite if anything changed. Rules are validated up front.
func NewRewriteOperation(opts Options) (Operation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	renamer := rename.NewLiteralRenamer()
	rewriter := rewrite.NewCallRewriter()

	if err := renamer.ValidateRules(opts.Config.Renames); err != nil {
		return nil, errors.Errorf("validating rename rules: %w", err)
	}
	if err := rewriter.ValidatePatterns(opts.Config.Patterns); err != nil {
		return nil, errors.Errorf("validating call patterns: %w", err)
	}

	return &rewriteOperation{
		BaseOperation: NewBaseOperation(opts),
		renamer:       renamer,
		rewriter:      rewriter,
	}, nil
}

// 🔄 rewriteOperation implements the rewrite run
type rewriteOperation struct {
	BaseOperation
	renamer  rename.Renamer
	rewriter rewrite.Rewriter
}

func (op *rewriteOperation) Name() string { return "rewrite" }

// 🏃 Execute runs the pipeline over every target file, strictly in sequence.
// The buffer for each file is owned by this one pass from read to write.
func (op *rewriteOperation) Execute(ctx context.Context) error {
	targets, err := op.resolveTargets(ctx)
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	op.StatusMgr.StartOperation(ctx, len(targets))
	defer op.StatusMgr.FinishOperation(ctx)

	for i, file := range targets {
		if err := op.processFile(ctx, file); err != nil {
			op.StatusMgr.TrackFile(ctx, file, status.FileInfo{
				Path:   file,
				Status: status.StatusError,
				Error:  err,
			})
			return errors.Errorf("processing file %s: %w", file, err)
		}
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	return nil
}

// 📄 processFile applies both passes to a single file
func (op *rewriteOperation) processFile(ctx context.Context, file string) error {
	content, err := op.StatusMgr.ReadFile(ctx, file)
	if err != nil {
		return errors.Errorf("reading content: %w", err)
	}

	// Rename pass runs first so the transform pass sees canonical names;
	// the pattern's spelling set still tolerates pre-renamed input.
	renamed, err := op.renamer.Rename(ctx, bytes.NewReader(content), op.Config.Renames)
	if err != nil {
		return errors.Errorf("applying rename rules: %w", err)
	}

	rewritten, err := op.rewriter.Rewrite(ctx, bytes.NewReader(renamed.ModifiedContent), op.Config.Patterns)
	if err != nil {
		return errors.Errorf("applying call patterns: %w", err)
	}

	if !renamed.WasModified && !rewritten.WasModified {
		op.StatusMgr.TrackFile(ctx, file, status.FileInfo{
			Path:     file,
			Status:   status.StatusUnchanged,
			Size:     int64(len(content)),
			Checksum: status.Checksum(content),
		})
		op.UserLog.LogFileChange(log.FileChange{Type: log.FileUnchanged, Path: file})
		return nil
	}

	if op.Config.Backup {
		if err := op.StatusMgr.BackupFile(ctx, file); err != nil {
			return errors.Errorf("backing up: %w", err)
		}
	}

	output := rewritten.ModifiedContent
	if err := op.StatusMgr.WriteFileAtomic(ctx, file, output); err != nil {
		return errors.Errorf("writing content: %w", err)
	}

	op.StatusMgr.TrackFile(ctx, file, status.FileInfo{
		Path:     file,
		Status:   status.StatusRewritten,
		Size:     int64(len(output)),
		Renames:  renamed.ReplacementCount,
		Rewrites: rewritten.RewriteCount,
		Checksum: status.Checksum(output),
	})
	op.UserLog.LogFileChange(log.FileChange{
		Type:     log.FileRewritten,
		Path:     file,
		Renames:  renamed.ReplacementCount,
		Rewrites: rewritten.RewriteCount,
	})

	return nil
}
