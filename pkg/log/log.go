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

// Package log provides user-facing console feedback for rewrite runs,
// doubled into zerolog for debugging.
package log

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

func init() {
	// Enable debug output for development
	pterm.EnableDebugMessages()
}

// 📢 UserLogger provides user-friendly feedback about rewrite runs
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎨 FileChangeType represents the kind of change made to a file
type FileChangeType int

const (
	FileRewritten FileChangeType = iota
	FileUnchanged
	FileSkipped
	FileRestored
	FileError
)

// 🖼️ FileChange represents a change to one file during a run
type FileChange struct {
	Type     FileChangeType
	Path     string
	Renames  int // literal substitutions applied
	Rewrites int // call sites converted
	Err      error
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogFileChange logs a file change with appropriate emoji and formatting
func (u *UserLogger) LogFileChange(change FileChange) {
	var action string
	var printer *pterm.PrefixPrinter
	switch change.Type {
	case FileRewritten:
		action = "Rewrote"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "🔄"})
	case FileUnchanged:
		action = "Unchanged"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "👍"})
	case FileSkipped:
		action = "Skipped"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
	case FileRestored:
		action = "Restored"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "↩️"})
	case FileError:
		action = "Error"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	}

	msg := fmt.Sprintf("%s %s", action, change.Path)
	if change.Renames > 0 || change.Rewrites > 0 {
		msg += fmt.Sprintf(" (%d renames, %d call sites)", change.Renames, change.Rewrites)
	}

	if change.Err != nil {
		printer.Println(msg)
		pterm.Error.Println(change.Err)
		u.log.Error().Err(change.Err).Msg(msg) // Also log to zerolog for debugging
	} else {
		printer.Println(msg)
		u.log.Info().Msg(msg) // Also log to zerolog for debugging
	}
}

// 📊 LogRunChange logs a change to the overall run
func (u *UserLogger) LogRunChange(description string) {
	printer := pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"})
	printer.Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
	} else {
		if err != nil {
			pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
			pterm.Error.Println(err)
			u.log.Error().Err(err).Msg(description)
		} else {
			pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
			u.log.Warn().Msg(description)
		}
	}
}
