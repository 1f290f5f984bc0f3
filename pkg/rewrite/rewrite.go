// Package rewrite implements the call-pattern transformer: it scans raw text
// for call sites of a configured free function and re-emits each match as a
// method call, promoting one argument to the receiver position.
//
// The scan is purely textual. It does not parse the source language and the
// supported argument spans are scalar: no nested parentheses, no embedded
// commas, no newlines. Anything that does not match the declared shape
// exactly is left verbatim.
package rewrite

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/methodize/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// Match is one located call site: the byte span it covers in the buffer and
// its trimmed top-level argument texts. Matches are transient, consumed
// immediately by the scan that produced them.
type Match struct {
	Start int
	End   int
	Args  []string
}

// Result contains the outcome of a rewrite pass over one buffer
type Result struct {
	// WasModified indicates if any call sites were rewritten
	WasModified bool

	// RewriteCount is the number of call sites rewritten
	RewriteCount int

	// OriginalContent is the content before rewriting
	OriginalContent []byte

	// ModifiedContent is the content after rewriting
	ModifiedContent []byte
}

// Rewriter defines the interface for call-pattern rewrite operations
type Rewriter interface {
	// Rewrite applies a set of call patterns to the content
	Rewrite(ctx context.Context, content io.Reader, patterns []config.CallPattern) (*Result, error)

	// ValidatePatterns checks that all patterns are valid
	ValidatePatterns(patterns []config.CallPattern) error
}

// CallRewriter implements Rewriter with a single left-to-right scan per
// pattern. The scan resumes after each emitted replacement, never inside it,
// so no call site is processed twice and one pass per pattern suffices. The
// emitted shape has one argument fewer than the matched shape, so re-running
// the same pattern over its own output is a no-op.
type CallRewriter struct{}

// NewCallRewriter creates a new CallRewriter
func NewCallRewriter() *CallRewriter {
	return &CallRewriter{}
}

// Rewrite implements Rewriter.Rewrite. Patterns are applied in list order,
// each over the output of the previous one.
func (r *CallRewriter) Rewrite(ctx context.Context, content io.Reader, patterns []config.CallPattern) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &Result{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	currentContent := string(originalContent)
	for _, pat := range patterns {
		newContent, count := applyPattern(currentContent, pat)
		if count > 0 {
			result.WasModified = true
			result.RewriteCount += count
			logger.Debug().
				Str("function", pat.Function).
				Str("receiver", pat.Receiver).
				Int("rewrites", count).
				Msg("call sites rewritten")
		}
		currentContent = newContent
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidatePatterns implements Rewriter.ValidatePatterns
func (r *CallRewriter) ValidatePatterns(patterns []config.CallPattern) error {
	for i, pat := range patterns {
		if pat.Function == "" {
			return errors.Errorf("pattern %d: function is required", i)
		}
		if len(pat.ReceiverSpellings) == 0 {
			return errors.Errorf("pattern %d: at least one receiver spelling is required", i)
		}
		if pat.Receiver == "" {
			return errors.Errorf("pattern %d: receiver is required", i)
		}
		if pat.Arity < 1 {
			return errors.Errorf("pattern %d: arity must be at least 1, got %d", i, pat.Arity)
		}
		if pat.ReceiverIndex < 0 || pat.ReceiverIndex >= pat.Arity {
			return errors.Errorf("pattern %d: receiver_index %d out of range for arity %d", i, pat.ReceiverIndex, pat.Arity)
		}
	}
	return nil
}

// applyPattern rewrites every match of pat in text, left to right. Candidate
// positions that fail the shape check are copied through verbatim and the
// scan continues after the candidate's opening paren.
func applyPattern(text string, pat config.CallPattern) (string, int) {
	needle := pat.Function + "("

	var out strings.Builder
	count := 0
	pos := 0
	for {
		idx := strings.Index(text[pos:], needle)
		if idx < 0 {
			out.WriteString(text[pos:])
			break
		}
		idx += pos

		m, ok := matchCall(text, idx, pat)
		if !ok {
			out.WriteString(text[pos : idx+len(needle)])
			pos = idx + len(needle)
			continue
		}

		out.WriteString(text[pos:m.Start])
		out.WriteString(renderCall(m, pat))
		pos = m.End
		count++
	}

	return out.String(), count
}

// matchCall parses the argument list that opens right after pat.Function at
// start. It reports a match only when the call has exactly pat.Arity
// top-level scalar arguments and the argument at pat.ReceiverIndex is one of
// the accepted receiver spellings. Arity mismatches, nested parentheses,
// newlines inside an argument span, and unterminated calls all fail the
// match and leave the input untouched.
func matchCall(text string, start int, pat config.CallPattern) (Match, bool) {
	args := make([]string, 0, pat.Arity)
	var arg strings.Builder

	i := start + len(pat.Function) + 1
	for ; i < len(text); i++ {
		switch c := text[i]; c {
		case ',':
			if len(args) >= pat.Arity {
				// more arguments than the declared shape
				return Match{}, false
			}
			args = append(args, strings.TrimSpace(arg.String()))
			arg.Reset()
		case ')':
			args = append(args, strings.TrimSpace(arg.String()))
			if len(args) != pat.Arity {
				return Match{}, false
			}
			for _, a := range args {
				if a == "" {
					return Match{}, false
				}
			}
			if !spellingAccepted(pat, args[pat.ReceiverIndex]) {
				return Match{}, false
			}
			return Match{Start: start, End: i + 1, Args: args}, true
		case '(', '\n':
			return Match{}, false
		default:
			arg.WriteByte(c)
		}
	}

	// ran off the end of the buffer inside the call
	return Match{}, false
}

// spellingAccepted reports whether the trimmed receiver argument is one of
// the pattern's accepted spellings.
func spellingAccepted(pat config.CallPattern, arg string) bool {
	for _, s := range pat.ReceiverSpellings {
		if arg == s {
			return true
		}
	}
	return false
}

// renderCall emits the canonical method-call form. The receiver is always
// pat.Receiver, never the matched spelling, and the remaining arguments keep
// their relative order with exactly one space after each comma.
func renderCall(m Match, pat config.CallPattern) string {
	rest := make([]string, 0, len(m.Args)-1)
	for i, a := range m.Args {
		if i == pat.ReceiverIndex {
			continue
		}
		rest = append(rest, a)
	}
	return pat.Receiver + "." + pat.Function + "(" + strings.Join(rest, ", ") + ")"
}
