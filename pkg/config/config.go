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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 RenameRule is a single literal substitution: every occurrence of Old
// becomes New. Rules run in list order, each over the previous rule's output.
type RenameRule struct {
	Old string `json:"old" yaml:"old" hcl:"old"`
	New string `json:"new" yaml:"new" hcl:"new"`
}

// 📐 CallPattern describes one call shape to find and rewrite. A call of
// Function with exactly Arity scalar arguments, whose argument at
// ReceiverIndex is one of ReceiverSpellings, is rewritten into a method call
// on Receiver with the receiver argument dropped from the list.
type CallPattern struct {
	Function          string   `json:"function" yaml:"function" hcl:"function"`
	ReceiverSpellings []string `json:"receiver_spellings" yaml:"receiver_spellings" hcl:"receiver_spellings"`
	Receiver          string   `json:"receiver" yaml:"receiver" hcl:"receiver"`
	ReceiverIndex     int      `json:"receiver_index" yaml:"receiver_index" hcl:"receiver_index,optional"`
	Arity             int      `json:"arity" yaml:"arity" hcl:"arity"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root           string        `json:"root,omitempty" yaml:"root,omitempty" hcl:"root,optional"`
	Files          []string      `json:"files,omitempty" yaml:"files,omitempty" hcl:"files,optional"`
	IgnorePatterns []string      `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`
	Backup         bool          `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
	Renames        []RenameRule  `json:"renames,omitempty" yaml:"renames,omitempty" hcl:"rename,block"`
	Patterns       []CallPattern `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"pattern,block"`
}

// 🎯 Default returns the compiled-in rule set: the context→codegen identifier
// renames plus the transform_function_to_stub method-call conversion. Both
// receiver spellings are accepted so partially converted input still matches,
// and either one normalizes to the canonical codegen receiver.
func Default() *Config {
	return &Config{
		Root: ".",
		Renames: []RenameRule{
			{Old: "default_test_context", New: "default_test_codegen"},
			{Old: "let _context =", New: "let _codegen ="},
			{Old: "let context =", New: "let codegen ="},
		},
		Patterns: []CallPattern{
			{
				Function:          "transform_function_to_stub",
				ReceiverSpellings: []string{"&context", "&codegen"},
				Receiver:          "codegen",
				ReceiverIndex:     1,
				Arity:             3,
			},
		},
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	for i, r := range cfg.Renames {
		if r.Old == "" {
			return errors.Errorf("rename %d: old is required", i)
		}
		if r.New == "" {
			return errors.Errorf("rename %d: new is required", i)
		}
	}

	for i, p := range cfg.Patterns {
		if p.Function == "" {
			return errors.Errorf("pattern %d: function is required", i)
		}
		if len(p.ReceiverSpellings) == 0 {
			return errors.Errorf("pattern %d: at least one receiver spelling is required", i)
		}
		for j, s := range p.ReceiverSpellings {
			if s == "" {
				return errors.Errorf("pattern %d: receiver spelling %d is empty", i, j)
			}
		}
		if p.Receiver == "" {
			return errors.Errorf("pattern %d: receiver is required", i)
		}
		if p.Arity < 1 {
			return errors.Errorf("pattern %d: arity must be at least 1, got %d", i, p.Arity)
		}
		if p.ReceiverIndex < 0 || p.ReceiverIndex >= p.Arity {
			return errors.Errorf("pattern %d: receiver_index %d out of range for arity %d", i, p.ReceiverIndex, p.Arity)
		}
	}

	for _, g := range cfg.Files {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("invalid file glob: %s", g)
		}
	}
	for _, g := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("invalid ignore pattern: %s", g)
		}
	}

	// Set defaults
	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.Root = filepath.Clean(cfg.Root)

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d renames, %d patterns, %d file globs in %s",
		len(cfg.Renames), len(cfg.Patterns), len(cfg.Files), cfg.Root)
}
