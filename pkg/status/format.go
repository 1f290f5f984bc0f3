package status

import (
	"fmt"

	"github.com/fatih/color"
)

// FileFormatter defines how file operations and progress should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a per-file status line
	FormatFileOperation(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a per-file status line with color
func (f *DefaultFileFormatter) FormatFileOperation(info FileInfo) string {
	switch info.Status {
	case StatusRewritten:
		return fmt.Sprintf("%s %s (%d renames, %d call sites)",
			color.New(color.FgGreen).Sprint("⟳ rewrote"), info.Path, info.Renames, info.Rewrites)
	case StatusRestored:
		return fmt.Sprintf("%s %s",
			color.New(color.FgCyan).Sprint("↩ restored"), info.Path)
	case StatusError:
		return fmt.Sprintf("%s %s: %v",
			color.New(color.FgRed).Sprint("✗ failed"), info.Path, info.Error)
	case StatusUnchanged:
		return fmt.Sprintf("%s %s",
			color.New(color.Faint).Sprint("- unchanged"), info.Path)
	default:
		return fmt.Sprintf("? %s", info.Path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("progress: %d/%d (%.0f%%)...", current, total, percentage)
}

// FormatError formats an error message
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return color.New(color.FgRed).Sprintf("error: %v", err)
}
