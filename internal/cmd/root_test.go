package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "tddkit")
	assert.Contains(t, stdout, "behavior backlog")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "tddkit", cmd.Use)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"init", "create-behavior", "detect-slow-tests", "validate-backlog", "runtime-history"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommandSilencesErrors(t *testing.T) {
	cmd := NewRootCommand()
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestLogLevelFlag(t *testing.T) {
	root := t.TempDir()
	_, _, err := execute(t, "", "init", "--path", root)
	require.NoError(t, err)

	_, stderr, err := execute(t, "", "validate-backlog", "--project-root", root, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[DEBUG] config: ")
	assert.Contains(t, stderr, "tdd.config.json")

	_, stderr, err = execute(t, "", "validate-backlog", "--project-root", root)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "[DEBUG]")
}

func TestInvalidConfigIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tdd.config.json", `{"slow_test_threshold_ms": -5}`)

	_, _, err := execute(t, "", "validate-backlog", "--project-root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow_test_threshold_ms")
}

func TestMalformedConfigIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tdd.config.json", `{"artifacts_dir": [`)

	_, _, err := execute(t, "", "create-behavior", "x", "--project-root", root)
	assert.Error(t, err)
}
