package commands

import (
	"github.com/walteh/methodize/pkg/config"
	"github.com/walteh/methodize/pkg/log"
)

// RootOpts carries the dependencies shared by all commands
type RootOpts struct {
	// Config is the loaded rule set and file selection
	Config *config.Config

	// UserLog provides user-facing feedback
	UserLog *log.UserLogger
}
