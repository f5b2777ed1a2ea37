package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/tddkit/internal/slowtest"
)

const vitestOutput = ` ✓ loads data (250ms)
 ✓ renders header (100ms)
 ✓ renders footer (101ms)
`

func TestDetectSlowTestsFromStdin(t *testing.T) {
	root := t.TempDir()

	stdout, _, err := execute(t, vitestOutput, "detect-slow-tests", "--project-root", root)
	require.NoError(t, err)

	assert.Contains(t, stdout, "🔍 Analyzing test output (threshold: 100ms)")
	assert.Contains(t, stdout, "⚠️  Found 2 slow test(s):")
	assert.Contains(t, stdout, "   - loads data: 250ms")
	assert.Contains(t, stdout, "   - renders footer: 101ms")
	assert.NotContains(t, stdout, "renders header")
	assert.Contains(t, stdout, "💡 Tip: Review agent/test-runtime/ to investigate slow tests")

	note, err := os.ReadFile(filepath.Join(root, "agent", "test-runtime", "loads-data.md"))
	require.NoError(t, err)
	assert.Contains(t, string(note), "# loads data")
	assert.Contains(t, string(note), "**Runtime**: 250ms")
	assert.FileExists(t, filepath.Join(root, "agent", "test-runtime", "renders-footer.md"))
	assert.NoFileExists(t, filepath.Join(root, "agent", "test-runtime", "history.db"))
}

func TestDetectSlowTestsFromFile(t *testing.T) {
	root := t.TempDir()
	input := writeFile(t, root, "out.txt", "--- PASS: TestParse/nested_case (0.50s)\n--- PASS: TestFast (0.01s)\n")

	stdout, _, err := execute(t, "", "detect-slow-tests", "--project-root", root, "--input", input, "--framework", "go")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Found 1 slow test(s)")
	assert.Contains(t, stdout, "TestParse/nested_case: 500ms")
}

func TestDetectSlowTestsThresholdFlag(t *testing.T) {
	root := t.TempDir()

	stdout, _, err := execute(t, vitestOutput, "detect-slow-tests", "--project-root", root, "--threshold", "300")
	require.NoError(t, err)

	assert.Contains(t, stdout, "✅ No slow tests detected (all tests <= 300ms)")
	assert.NoDirExists(t, filepath.Join(root, "agent", "test-runtime"))
}

func TestDetectSlowTestsThresholdFromConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "agent/tdd.config.json", `{"slow_test_threshold_ms": 200}`)

	stdout, _, err := execute(t, vitestOutput, "detect-slow-tests", "--project-root", root)
	require.NoError(t, err)

	assert.Contains(t, stdout, "threshold: 200ms")
	assert.Contains(t, stdout, "Found 1 slow test(s)")
}

func TestDetectSlowTestsFrameworkFromConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "agent/tdd.config.json", `{"test_framework": "pytest"}`)

	stdout, _, err := execute(t, vitestOutput, "detect-slow-tests", "--project-root", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No slow tests detected", "pytest recognizer ignores vitest lines")

	stdout, _, err = execute(t, vitestOutput, "detect-slow-tests", "--project-root", root, "--framework", "auto")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 2 slow test(s)")
}

func TestDetectSlowTestsUnknownFramework(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "agent/tdd.config.json", `{"test_framework": "mocha"}`)

	stdout, stderr, err := execute(t, vitestOutput, "detect-slow-tests", "--project-root", root, "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Found 2 slow test(s)")
	assert.Contains(t, stderr, `unknown framework "mocha", running every recognizer (known: vitest, jest, pytest, junit, go)`)

	_, stderr, err = execute(t, vitestOutput, "detect-slow-tests", "--project-root", root, "--framework", "vitest", "--log-level", "debug")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "unknown framework")
}

func TestDetectSlowTestsHelpListsFrameworks(t *testing.T) {
	stdout, _, err := execute(t, "", "detect-slow-tests", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Test framework (vitest, jest, pytest, junit, go)")
}

func TestDetectSlowTestsEmptyInput(t *testing.T) {
	root := t.TempDir()

	_, _, err := execute(t, "  \n\t", "detect-slow-tests", "--project-root", root)
	assert.True(t, errors.Is(err, slowtest.ErrNoTestOutput), "got %v", err)
	assert.NoDirExists(t, filepath.Join(root, "agent"))
}

func TestDetectSlowTestsMissingInputFile(t *testing.T) {
	root := t.TempDir()

	_, _, err := execute(t, "", "detect-slow-tests", "--project-root", root, "--input", filepath.Join(root, "missing.txt"))
	assert.Error(t, err)
}

func TestDetectSlowTestsRecord(t *testing.T) {
	root := t.TempDir()

	stdout, _, err := execute(t, vitestOutput, "detect-slow-tests", "--project-root", root, "--record")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recorded run ")
	assert.FileExists(t, filepath.Join(root, "agent", "test-runtime", "history.db"))

	stdout, _, err = execute(t, "", "runtime-history", "--project-root", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "DETECTED")
	assert.Contains(t, stdout, "loads data")
	assert.Contains(t, stdout, "renders footer")

	stdout, _, err = execute(t, "", "runtime-history", "--project-root", root, "--test", "loads data")
	require.NoError(t, err)
	assert.Contains(t, stdout, "loads data")
	assert.NotContains(t, stdout, "renders footer")
}
