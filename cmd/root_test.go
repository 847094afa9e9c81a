package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/esmify/internal/config"
	"github.com/mouse-blink/esmify/internal/domain"
	domainmocks "github.com/mouse-blink/esmify/internal/domain/mocks"
	m "github.com/mouse-blink/esmify/internal/model"
)

// injectWorkflow replaces the global workflow for the duration of the test.
func injectWorkflow(t *testing.T, w domain.Workflow) {
	t.Helper()

	originalWorkflow := workflow
	workflow = w

	t.Cleanup(func() { workflow = originalWorkflow })
}

// clearConfigEnv keeps the environment from leaking into config loading.
func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{config.EnvParallel, config.EnvLogLevel} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func newTestRootCmd(subcommands ...*cobra.Command) *cobra.Command {
	cmd := newRootCmd()
	cmd.AddCommand(subcommands...)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	return cmd
}

func TestRootCmd_ListFlag(t *testing.T) {
	clearConfigEnv(t)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	injectWorkflow(t, mockWorkflow)

	mockWorkflow.On("Estimate", mock.MatchedBy(func(args domain.EstimateArgs) bool {
		return args.Dir == m.Path("./ext") && len(args.Exclude) == 0
	})).Return(nil)

	cmd := newTestRootCmd()
	cmd.SetArgs([]string{"--list", "./ext"})
	require.NoError(t, cmd.Execute())
}

func TestRootCmd_MigrateDefaults(t *testing.T) {
	clearConfigEnv(t)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	injectWorkflow(t, mockWorkflow)

	mockWorkflow.On("Migrate", mock.Anything, mock.MatchedBy(func(args domain.MigrateArgs) bool {
		return args.Dir == m.Path(".") &&
			args.Threads == 1 &&
			args.Reports == m.Path(".esmify-reports") &&
			!args.Write &&
			!args.ShowDiff
	})).Return(nil)

	cmd := newTestRootCmd()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
}

func TestRootCmd_MigrateFlags(t *testing.T) {
	clearConfigEnv(t)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	injectWorkflow(t, mockWorkflow)

	mockWorkflow.On("Migrate", mock.Anything, mock.MatchedBy(func(args domain.MigrateArgs) bool {
		return args.Threads == 4 &&
			args.Write &&
			args.ShowDiff &&
			args.Reports == m.Path("out") &&
			len(args.Exclude) == 2 &&
			args.Exclude[0] == "*.min.js" &&
			args.Exclude[1] == "vendor/"
	})).Return(nil)

	cmd := newTestRootCmd()
	cmd.SetArgs([]string{"-w", "-p", "4", "--show-diff", "-r", "out", "-x", "*.min.js", "-x", "vendor/", "./ext"})
	require.NoError(t, cmd.Execute())
}

func TestRootCmd_ConfigFileSuppliesDefaults(t *testing.T) {
	clearConfigEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("parallel = 3\nreports_dir = \"saved\"\n"), 0o644))

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	injectWorkflow(t, mockWorkflow)

	mockWorkflow.On("Migrate", mock.Anything, mock.MatchedBy(func(args domain.MigrateArgs) bool {
		return args.Threads == 3 && args.Reports == m.Path("saved")
	})).Return(nil).Once()
	mockWorkflow.On("Migrate", mock.Anything, mock.MatchedBy(func(args domain.MigrateArgs) bool {
		return args.Threads == 2 && args.Reports == m.Path("flag")
	})).Return(nil).Once()

	cmd := newTestRootCmd()
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	// Flags win over the config file.
	cmd = newTestRootCmd()
	cmd.SetArgs([]string{"-p", "2", "--reports", "flag", dir})
	require.NoError(t, cmd.Execute())
}

func TestRootCmd_ExplicitConfigErrorStopsRun(t *testing.T) {
	clearConfigEnv(t)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	injectWorkflow(t, mockWorkflow)

	cmd := newTestRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "./ext"})

	err := cmd.Execute()
	require.ErrorIs(t, err, os.ErrNotExist)
	mockWorkflow.AssertNotCalled(t, "Migrate", mock.Anything, mock.Anything)
}

func TestRootCmd_WorkflowErrorIsReturned(t *testing.T) {
	clearConfigEnv(t)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	injectWorkflow(t, mockWorkflow)

	mockWorkflow.On("Migrate", mock.Anything, mock.Anything).Return(domain.ErrInvalidDirectory)

	cmd := newTestRootCmd()
	cmd.SetArgs([]string{"./missing"})

	err := cmd.Execute()
	assert.True(t, errors.Is(err, domain.ErrInvalidDirectory))
}

func TestRootCmd_RejectsSecondDirectory(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	injectWorkflow(t, mockWorkflow)

	cmd := newTestRootCmd()
	cmd.SetArgs([]string{"./a", "./b"})

	require.Error(t, cmd.Execute())
}

func TestPrepare_BuildsWorkflow(t *testing.T) {
	clearConfigEnv(t)
	injectWorkflow(t, nil)

	originalSettings := settings
	t.Cleanup(func() { settings = originalSettings })

	cmd := newTestRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "debug"}))
	require.NoError(t, prepare(cmd, []string{t.TempDir()}))

	assert.NotNil(t, workflow)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestTargetDir(t *testing.T) {
	assert.Equal(t, m.Path("."), targetDir(nil))
	assert.Equal(t, m.Path("ext"), targetDir([]string{"ext"}))
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "esmify [dir]", cmd.Use)
	assert.Equal(t, rootLongDescription, cmd.Long)

	for _, name := range []string{"list", "write", "show-diff", "parallel", "exclude"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	for _, name := range []string{"config", "reports", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")

				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd

		Execute() // This should call os.Exit(1)

		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected exec.ExitError, got %T", err)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.True(t, strings.Contains(string(output), "error occurred"), string(output))
}

func TestExecute_ProcessLevel_Success(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS") == "1" {
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Println("success")

				return nil
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd

		Execute()

		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Success")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS=1")
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "success")
}
