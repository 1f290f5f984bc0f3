package rename

import (
	"context"
	"io"
	"strings"

	"github.com/walteh/methodize/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// Result contains the outcome of a rename pass over one buffer
type Result struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// Renamer defines the interface for literal rename operations
type Renamer interface {
	// Rename applies a set of rename rules to the content
	Rename(ctx context.Context, content io.Reader, rules []config.RenameRule) (*Result, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []config.RenameRule) error
}

// LiteralRenamer implements Renamer using plain substring replacement.
// Matching is deliberately unanchored: a rule whose old literal occurs inside
// a longer identifier rewrites that occurrence too. The shipped rule sets
// carry their own anchoring text where that matters.
type LiteralRenamer struct{}

// NewLiteralRenamer creates a new LiteralRenamer
func NewLiteralRenamer() *LiteralRenamer {
	return &LiteralRenamer{}
}

// Rename implements Renamer.Rename. Rules are applied in list order, each
// pass operating on the output of the previous one, so a later rule can see
// (but the fixed rule sets never produce) text introduced by an earlier rule.
func (r *LiteralRenamer) Rename(ctx context.Context, content io.Reader, rules []config.RenameRule) (*Result, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &Result{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	// Apply each rule
	currentContent := string(originalContent)
	for _, rule := range rules {
		// Skip empty rules
		if rule.Old == "" {
			continue
		}

		newContent := strings.ReplaceAll(currentContent, rule.Old, rule.New)

		// Update counts if changed
		if newContent != currentContent {
			result.WasModified = true
			result.ReplacementCount += strings.Count(currentContent, rule.Old)
		}

		currentContent = newContent
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidateRules implements Renamer.ValidateRules
func (r *LiteralRenamer) ValidateRules(rules []config.RenameRule) error {
	for i, rule := range rules {
		if rule.Old == "" {
			return errors.Errorf("rule %d: old is required", i)
		}
		if rule.New == "" {
			return errors.Errorf("rule %d: new is required", i)
		}
	}
	return nil
}
