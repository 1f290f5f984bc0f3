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
	"context"

	"github.com/walteh/methodize/pkg/log"
	"github.com/walteh/methodize/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏭 NewRestoreOperation creates the operation that puts back the .bak
// copies left by a rewrite run with backups enabled.
func NewRestoreOperation(opts Options) (Operation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &restoreOperation{
		BaseOperation: NewBaseOperation(opts),
	}, nil
}

// ↩️ restoreOperation implements the restore run
type restoreOperation struct {
	BaseOperation
}

func (op *restoreOperation) Name() string { return "restore" }

// 🏃 Execute restores every target file that has a backup
func (op *restoreOperation) Execute(ctx context.Context) error {
	targets, err := op.resolveTargets(ctx)
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	op.StatusMgr.StartOperation(ctx, len(targets))
	defer op.StatusMgr.FinishOperation(ctx)

	for i, file := range targets {
		hasBackup, err := op.StatusMgr.HasBackup(ctx, file)
		if err != nil {
			return errors.Errorf("checking backup for %s: %w", file, err)
		}
		if !hasBackup {
			op.UserLog.LogFileChange(log.FileChange{Type: log.FileSkipped, Path: file})
			op.StatusMgr.UpdateProgress(ctx, i+1)
			continue
		}

		if err := op.StatusMgr.RestoreFile(ctx, file); err != nil {
			return errors.Errorf("restoring %s: %w", file, err)
		}

		op.StatusMgr.TrackFile(ctx, file, status.FileInfo{
			Path:   file,
			Status: status.StatusRestored,
		})
		op.UserLog.LogFileChange(log.FileChange{Type: log.FileRestored, Path: file})
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	return nil
}
