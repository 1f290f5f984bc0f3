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

// Package operation provides the rewrite pipeline that applies rename and
// call-pattern rules to files on disk.
package operation

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/methodize/pkg/config"
	"github.com/walteh/methodize/pkg/log"
	"github.com/walteh/methodize/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation defines the interface for a single run unit
type Operation interface {
	// Name identifies the operation in logs and errors
	Name() string
	// Execute runs the operation to completion
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Config is the rule set and file selection
	Config *config.Config
	// StatusMgr owns file access and per-file status
	StatusMgr *status.Manager
	// UserLog provides user-facing feedback
	UserLog *log.UserLogger
}

// 🔍 validate checks that all required options are set
func (opts Options) validate() error {
	if opts.Config == nil {
		return errors.Errorf("config is required")
	}
	if opts.StatusMgr == nil {
		return errors.Errorf("status manager is required")
	}
	if opts.UserLog == nil {
		return errors.Errorf("user logger is required")
	}
	return nil
}

// 📦 BaseOperation carries the shared dependencies of all operations
type BaseOperation struct {
	Config    *config.Config
	StatusMgr *status.Manager
	UserLog   *log.UserLogger
}

// 🏭 NewBaseOperation creates a new base operation
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{
		Config:    opts.Config,
		StatusMgr: opts.StatusMgr,
		UserLog:   opts.UserLog,
	}
}

// 🔍 resolveTargets expands the configured file globs under Root, minus the
// ignore patterns, in a deterministic order. An entry without glob
// metacharacters that matches nothing is kept as-is so a missing file
// surfaces as a read error instead of silently matching nothing.
func (op *BaseOperation) resolveTargets(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var targets []string

	for _, pattern := range op.Config.Files {
		matches, err := doublestar.Glob(os.DirFS(op.Config.Root), pattern)
		if err != nil {
			return nil, errors.Errorf("expanding glob %s: %w", pattern, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(pattern, "*?[{") {
			matches = []string{pattern}
		}
		for _, m := range matches {
			if seen[m] || op.shouldIgnore(ctx, m) {
				continue
			}
			seen[m] = true
			targets = append(targets, m)
		}
	}

	sort.Strings(targets)
	return targets, nil
}

// 🔍 shouldIgnore checks if a file matches an ignore pattern
func (op *BaseOperation) shouldIgnore(ctx context.Context, path string) bool {
	logger := zerolog.Ctx(ctx)

	for _, pattern := range op.Config.IgnorePatterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			logger.Debug().Str("pattern", pattern).Str("path", path).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			logger.Debug().Str("file", path).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}

	return false
}
