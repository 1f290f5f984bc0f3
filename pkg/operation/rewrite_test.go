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

package operation_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/methodize/pkg/config"
	"github.com/walteh/methodize/pkg/log"
	"github.com/walteh/methodize/pkg/operation"
	"github.com/walteh/methodize/pkg/status"
)

// 🧪 createTestEnv creates a test environment rooted in a temp dir
func createTestEnv(t *testing.T) (context.Context, *config.Config, *status.Manager, *log.UserLogger, string) {
	tmpDir := t.TempDir()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	cfg := config.Default()
	cfg.Root = tmpDir

	statusMgr := status.NewManager(tmpDir, &logger)
	userLog := log.NewUserLogger(ctx)

	return ctx, cfg, statusMgr, userLog, tmpDir
}

// 🧪 writeTestFile writes a file under the test root
func writeTestFile(t *testing.T, root, name, content string) {
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// 🧪 readTestFile reads a file under the test root
func readTestFile(t *testing.T, root, name string) string {
	content, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	return string(content)
}

const sampleInput = `fn regression() {
    let context = default_test_context();
    let stub = transform_function_to_stub(file, &context, extra);
    let other = transform_function_to_stub(file, &codegen, extra);
    let partial = transform_function_to_stub(file, extra);
}
`

const sampleOutput = `fn regression() {
    let codegen = default_test_codegen();
    let stub = codegen.transform_function_to_stub(file, extra);
    let other = codegen.transform_function_to_stub(file, extra);
    let partial = transform_function_to_stub(file, extra);
}
`

// 🧪 TestRewriteOperation runs the full pipeline end to end
func TestRewriteOperation(t *testing.T) {
	ctx, cfg, statusMgr, userLog, tmpDir := createTestEnv(t)

	writeTestFile(t, tmpDir, "tests.rs", sampleInput)
	cfg.Files = []string{"tests.rs"}

	op, err := operation.NewRewriteOperation(operation.Options{
		Config:    cfg,
		StatusMgr: statusMgr,
		UserLog:   userLog,
	})
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, sampleOutput, readTestFile(t, tmpDir, "tests.rs"))

	info, err := statusMgr.GetFileInfo(ctx, "tests.rs")
	require.NoError(t, err)
	assert.Equal(t, status.StatusRewritten, info.Status)
	assert.Equal(t, 2, info.Renames)
	assert.Equal(t, 2, info.Rewrites)
}

// 🧪 TestRewriteOperationIdempotent reruns the pipeline over its own output
func TestRewriteOperationIdempotent(t *testing.T) {
	ctx, cfg, statusMgr, userLog, tmpDir := createTestEnv(t)

	writeTestFile(t, tmpDir, "tests.rs", sampleInput)
	cfg.Files = []string{"tests.rs"}

	opts := operation.Options{Config: cfg, StatusMgr: statusMgr, UserLog: userLog}

	op, err := operation.NewRewriteOperation(opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	again, err := operation.NewRewriteOperation(opts)
	require.NoError(t, err)
	require.NoError(t, again.Execute(ctx))

	assert.Equal(t, sampleOutput, readTestFile(t, tmpDir, "tests.rs"))

	info, err := statusMgr.GetFileInfo(ctx, "tests.rs")
	require.NoError(t, err)
	assert.Equal(t, status.StatusUnchanged, info.Status)
}

// 🧪 TestRewriteOperationGlobs checks glob expansion and ignore patterns
func TestRewriteOperationGlobs(t *testing.T) {
	ctx, cfg, statusMgr, userLog, tmpDir := createTestEnv(t)

	writeTestFile(t, tmpDir, "src/tests.rs", sampleInput)
	writeTestFile(t, tmpDir, "src/generated/tests.rs", sampleInput)
	writeTestFile(t, tmpDir, "src/lib.rs", "fn untouched() {}\n")

	cfg.Files = []string{"src/**/*.rs"}
	cfg.IgnorePatterns = []string{"src/generated/**"}

	op, err := operation.NewRewriteOperation(operation.Options{
		Config:    cfg,
		StatusMgr: statusMgr,
		UserLog:   userLog,
	})
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, sampleOutput, readTestFile(t, tmpDir, "src/tests.rs"))
	assert.Equal(t, sampleInput, readTestFile(t, tmpDir, "src/generated/tests.rs"))
	assert.Equal(t, "fn untouched() {}\n", readTestFile(t, tmpDir, "src/lib.rs"))

	infos, err := statusMgr.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "src/lib.rs", infos[0].Path)
	assert.Equal(t, status.StatusUnchanged, infos[0].Status)
	assert.Equal(t, "src/tests.rs", infos[1].Path)
	assert.Equal(t, status.StatusRewritten, infos[1].Status)
}

// 🧪 TestRewriteOperationMissingFile checks the fatal I/O path
func TestRewriteOperationMissingFile(t *testing.T) {
	ctx, cfg, statusMgr, userLog, _ := createTestEnv(t)

	cfg.Files = []string{"does/not/exist.rs"}

	op, err := operation.NewRewriteOperation(operation.Options{
		Config:    cfg,
		StatusMgr: statusMgr,
		UserLog:   userLog,
	})
	require.NoError(t, err)

	err = op.Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does/not/exist.rs")
}

// 🧪 TestRewriteOperationBackup checks backup creation on modified files
func TestRewriteOperationBackup(t *testing.T) {
	ctx, cfg, statusMgr, userLog, tmpDir := createTestEnv(t)

	writeTestFile(t, tmpDir, "tests.rs", sampleInput)
	cfg.Files = []string{"tests.rs"}
	cfg.Backup = true

	op, err := operation.NewRewriteOperation(operation.Options{
		Config:    cfg,
		StatusMgr: statusMgr,
		UserLog:   userLog,
	})
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, sampleInput, readTestFile(t, tmpDir, "tests.rs.bak"))
	assert.Equal(t, sampleOutput, readTestFile(t, tmpDir, "tests.rs"))
}

// 🧪 TestRewriteOperationOptionValidation checks constructor validation
func TestRewriteOperationOptionValidation(t *testing.T) {
	_, cfg, statusMgr, userLog, _ := createTestEnv(t)

	tests := []struct {
		name      string
		opts      operation.Options
		wantError string
	}{
		{
			name:      "missing_config",
			opts:      operation.Options{StatusMgr: statusMgr, UserLog: userLog},
			wantError: "config is required",
		},
		{
			name:      "missing_status_manager",
			opts:      operation.Options{Config: cfg, UserLog: userLog},
			wantError: "status manager is required",
		},
		{
			name:      "missing_user_logger",
			opts:      operation.Options{Config: cfg, StatusMgr: statusMgr},
			wantError: "user logger is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := operation.NewRewriteOperation(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}

	t.Run("invalid_rules", func(t *testing.T) {
		bad := config.Default()
		bad.Renames = append(bad.Renames, config.RenameRule{Old: "", New: "x"})
		_, err := operation.NewRewriteOperation(operation.Options{
			Config:    bad,
			StatusMgr: statusMgr,
			UserLog:   userLog,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating rename rules")
	})
}

// 🧪 TestCheckOperation checks the dry run leaves files untouched
func TestCheckOperation(t *testing.T) {
	ctx, cfg, statusMgr, userLog, tmpDir := createTestEnv(t)

	writeTestFile(t, tmpDir, "tests.rs", sampleInput)
	writeTestFile(t, tmpDir, "lib.rs", "fn untouched() {}\n")
	cfg.Files = []string{"*.rs"}

	op, err := operation.NewCheckOperation(operation.Options{
		Config:    cfg,
		StatusMgr: statusMgr,
		UserLog:   userLog,
	})
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, []string{"tests.rs"}, op.Changed())
	assert.Equal(t, sampleInput, readTestFile(t, tmpDir, "tests.rs"))
	assert.Equal(t, "fn untouched() {}\n", readTestFile(t, tmpDir, "lib.rs"))
}

// 🧪 TestRestoreOperation checks restore after a backup run
func TestRestoreOperation(t *testing.T) {
	ctx, cfg, statusMgr, userLog, tmpDir := createTestEnv(t)

	writeTestFile(t, tmpDir, "tests.rs", sampleInput)
	writeTestFile(t, tmpDir, "lib.rs", "fn untouched() {}\n")
	cfg.Files = []string{"*.rs"}
	cfg.Backup = true

	rewriteOp, err := operation.NewRewriteOperation(operation.Options{
		Config:    cfg,
		StatusMgr: statusMgr,
		UserLog:   userLog,
	})
	require.NoError(t, err)
	require.NoError(t, rewriteOp.Execute(ctx))
	require.Equal(t, sampleOutput, readTestFile(t, tmpDir, "tests.rs"))

	restoreOp, err := operation.NewRestoreOperation(operation.Options{
		Config:    cfg,
		StatusMgr: statusMgr,
		UserLog:   userLog,
	})
	require.NoError(t, err)
	require.NoError(t, restoreOp.Execute(ctx))

	assert.Equal(t, sampleInput, readTestFile(t, tmpDir, "tests.rs"))

	// Backup is consumed
	_, err = os.Stat(filepath.Join(tmpDir, "tests.rs.bak"))
	assert.True(t, os.IsNotExist(err))
}

// 🧪 TestRunner checks sync and async execution
func TestRunner(t *testing.T) {
	ctx, cfg, statusMgr, userLog, tmpDir := createTestEnv(t)

	logger := zerolog.Ctx(ctx)

	for _, async := range []bool{false, true} {
		name := "sync"
		if async {
			name = "async"
		}
		t.Run(name, func(t *testing.T) {
			file := name + ".rs"
			writeTestFile(t, tmpDir, file, sampleInput)

			runCfg := *cfg
			runCfg.Files = []string{file}

			op, err := operation.NewRewriteOperation(operation.Options{
				Config:    &runCfg,
				StatusMgr: statusMgr,
				UserLog:   userLog,
			})
			require.NoError(t, err)

			runner := operation.NewRunner(logger, async)
			require.NoError(t, runner.Run(ctx, op))
			assert.Equal(t, sampleOutput, readTestFile(t, tmpDir, file))
		})
	}

	t.Run("cancelled_context", func(t *testing.T) {
		writeTestFile(t, tmpDir, "cancel.rs", sampleInput)

		runCfg := *cfg
		runCfg.Files = []string{"cancel.rs"}

		op, err := operation.NewRewriteOperation(operation.Options{
			Config:    &runCfg,
			StatusMgr: statusMgr,
			UserLog:   userLog,
		})
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		runner := operation.NewRunner(logger, true)
		err = runner.Run(cancelled, op)
		if err != nil {
			assert.Contains(t, err.Error(), "cancelled")
		}
	})
}
