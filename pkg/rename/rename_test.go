package rename

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/methodize/pkg/config"
)

func TestLiteralRenamer_Rename(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []config.RenameRule
		want         string
		wantCount    int
		wantModified bool
	}{
		{
			name:    "simple_rename",
			content: "let ctx = default_test_context();",
			rules: []config.RenameRule{
				{Old: "default_test_context", New: "default_test_codegen"},
			},
			want:         "let ctx = default_test_codegen();",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "multiple_occurrences",
			content: "default_test_context(); default_test_context();",
			rules: []config.RenameRule{
				{Old: "default_test_context", New: "default_test_codegen"},
			},
			want:         "default_test_codegen(); default_test_codegen();",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "rules_compose_sequentially",
			content: "let context = default_test_context();",
			rules: []config.RenameRule{
				{Old: "default_test_context", New: "default_test_codegen"},
				{Old: "let context =", New: "let codegen ="},
			},
			want:         "let codegen = default_test_codegen();",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "underscore_binding_kept_distinct",
			content: "let _context = make();\nlet context = make();",
			rules: []config.RenameRule{
				{Old: "let _context =", New: "let _codegen ="},
				{Old: "let context =", New: "let codegen ="},
			},
			want:         "let _codegen = make();\nlet codegen = make();",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "unanchored_substring_match",
			content: "my_default_test_context_helper()",
			rules: []config.RenameRule{
				{Old: "default_test_context", New: "default_test_codegen"},
			},
			want:         "my_default_test_codegen_helper()",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "no_match",
			content: "fn unrelated() {}",
			rules: []config.RenameRule{
				{Old: "default_test_context", New: "default_test_codegen"},
			},
			want:         "fn unrelated() {}",
			wantCount:    0,
			wantModified: false,
		},
		{
			name:         "empty_content",
			content:      "",
			rules:        config.Default().Renames,
			want:         "",
			wantCount:    0,
			wantModified: false,
		},
		{
			name:         "empty_rules",
			content:      "let context = make();",
			rules:        []config.RenameRule{},
			want:         "let context = make();",
			wantCount:    0,
			wantModified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renamer := NewLiteralRenamer()
			result, err := renamer.Rename(
				context.Background(),
				strings.NewReader(tt.content),
				tt.rules,
			)

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

// The shipped rule set never produces text that an earlier rule would match
// again, so a second pass must be a no-op.
func TestLiteralRenamer_DefaultRulesIdempotent(t *testing.T) {
	content := strings.Join([]string{
		"let context = default_test_context();",
		"let _context = default_test_context();",
		"transform_function_to_stub(file, &context, extra);",
	}, "\n")

	renamer := NewLiteralRenamer()
	rules := config.Default().Renames

	once, err := renamer.Rename(context.Background(), strings.NewReader(content), rules)
	require.NoError(t, err)

	twice, err := renamer.Rename(context.Background(), bytes.NewReader(once.ModifiedContent), rules)
	require.NoError(t, err)

	assert.Equal(t, string(once.ModifiedContent), string(twice.ModifiedContent))
	assert.False(t, twice.WasModified)
}

func TestLiteralRenamer_ValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		rules     []config.RenameRule
		wantError string
	}{
		{
			name:  "valid_rules",
			rules: config.Default().Renames,
		},
		{
			name: "missing_old",
			rules: []config.RenameRule{
				{New: "codegen"},
			},
			wantError: "old is required",
		},
		{
			name: "missing_new",
			rules: []config.RenameRule{
				{Old: "context"},
			},
			wantError: "new is required",
		},
		{
			name:  "empty_rules",
			rules: []config.RenameRule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renamer := NewLiteralRenamer()
			err := renamer.ValidateRules(tt.rules)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}
