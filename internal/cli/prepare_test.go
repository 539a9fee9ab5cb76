package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/relprep/internal/config"
	"github.com/mmr-tortoise/relprep/internal/model"
)

// runTestGit runs a git command in dir and fails the test on a non-zero
// exit.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// setupProject creates a git repository on branch main with the given
// version.json committed.
func setupProject(t *testing.T, policyJSON string) string {
	t.Helper()

	dir := t.TempDir()
	runTestGit(t, dir, "init", "--initial-branch=main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(policyJSON), 0644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")
	return dir
}

// execute runs the root command with args and captures stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd := NewRootCommand()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// TestPrepareCommandFork runs the full command against a real repository
// and checks the text report plus the resulting repository state.
func TestPrepareCommandFork(t *testing.T) {
	dir := setupProject(t, `{
  "version": "1.2.0",
  "release": {"branchName": "v{version}"}
}`)

	out, _, err := execute(t, "prepare", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "v1.2 branch now tracks v1.2.0 stabilization and release.")
	assert.Contains(t, out, "main branch now tracks v1.3.0-alpha development.")

	branch := strings.TrimSpace(runTestGit(t, dir, "rev-parse", "--abbrev-ref", "HEAD"))
	assert.Equal(t, "main", branch)
	assert.NoError(t, exec.Command("git", "-C", dir, "rev-parse", "--verify", "refs/heads/v1.2").Run())
}

// TestPrepareCommandJSON verifies the --json flag switches the report to
// the structured format.
func TestPrepareCommandJSON(t *testing.T) {
	dir := setupProject(t, `{
  "version": "1.2.0",
  "release": {"branchName": "v{version}"}
}`)

	out, _, err := execute(t, "prepare", "--json", dir)
	require.NoError(t, err)

	var info model.ReleaseInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "main", info.CurrentBranch.Name)
	require.NotNil(t, info.NewBranch)
	assert.Equal(t, "v1.2", info.NewBranch.Name)
}

// TestPrepareCommandTag verifies that --tag keeps the release version
// unstable under the given tag.
func TestPrepareCommandTag(t *testing.T) {
	dir := setupProject(t, `{
  "version": "1.2.0-beta",
  "release": {"branchName": "v{version}"}
}`)
	runTestGit(t, dir, "checkout", "-b", "v1.2")

	out, _, err := execute(t, "prepare", "--tag", "rc", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "v1.2 branch now tracks v1.2.0-rc stabilization and release.")
}

// TestPrepareCommandSettingsDefaults verifies that .relprep.yaml seeds
// defaults when the corresponding flags are not given.
func TestPrepareCommandSettingsDefaults(t *testing.T) {
	dir := setupProject(t, `{
  "version": "1.2.0",
  "release": {"branchName": "v{version}"}
}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFileName),
		[]byte("increment: major\njson: true\n"), 0644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "add tool settings")

	out, _, err := execute(t, "prepare", dir)
	require.NoError(t, err)

	var info model.ReleaseInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info), "settings file selects JSON output")
	assert.Equal(t, "2.0.0-alpha", info.CurrentBranch.Version)
}

// TestPrepareCommandFlagOverridesSettings verifies that an explicit flag
// wins over the settings file.
func TestPrepareCommandFlagOverridesSettings(t *testing.T) {
	dir := setupProject(t, `{
  "version": "1.2.0",
  "release": {"branchName": "v{version}"}
}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFileName),
		[]byte("increment: major\n"), 0644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "add tool settings")

	out, _, err := execute(t, "prepare", "--increment", "minor", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "main branch now tracks v1.3.0-alpha development.")
}

// TestPrepareCommandInvalidIncrement verifies the flag-level validation of
// --increment.
func TestPrepareCommandInvalidIncrement(t *testing.T) {
	dir := setupProject(t, `{"version": "1.2.0"}`)

	_, _, err := execute(t, "prepare", "--increment", "patch", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --increment")

	var pe *model.PrepError
	assert.False(t, errors.As(err, &pe), "flag validation is a generic error, not a workflow failure")
}

// TestPrepareCommandInvalidNextVersion verifies the flag-level validation
// of --next-version.
func TestPrepareCommandInvalidNextVersion(t *testing.T) {
	dir := setupProject(t, `{"version": "1.2.0"}`)

	_, _, err := execute(t, "prepare", "--next-version", "not-a-version", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --next-version")
}

// TestPrepareCommandPropagatesKind verifies that workflow failures reach
// the Execute error handler as typed errors carrying their kind.
func TestPrepareCommandPropagatesKind(t *testing.T) {
	_, errOut, err := execute(t, "prepare", t.TempDir())
	require.Error(t, err)

	var pe *model.PrepError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, model.KindNoGitRepo, pe.Kind)
	assert.Equal(t, 2, int(pe.Kind.ExitCode()))
	assert.NotEmpty(t, errOut)
}
