package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/tddkit/internal/behavior"
	"github.com/harrison/tddkit/internal/config"
)

func TestInitCreatesLayout(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()

	res, err := Init(root, cfg)
	require.NoError(t, err)

	for _, dir := range []string{"agent", "agent/behaviors", "agent/test-runtime"} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	want := []string{
		filepath.Join(root, "agent", "tdd.config.json"),
		filepath.Join(root, "agent", "BEHAVIOR_BACKLOG.md"),
		filepath.Join(root, "agent", "LESSONS.md"),
		filepath.Join(root, "agent", "TEST_RUNTIME.md"),
	}
	assert.Equal(t, want, res.Files)
	assert.Len(t, res.Dirs, 3)
	assert.True(t, res.ConfigDiscoverable)
}

func TestInitConfigRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.TestFramework = "pytest"
	cfg.TestCommand = config.DefaultTestCommand("pytest")
	cfg.SlowTestThresholdMS = 250

	_, err := Init(root, cfg)
	require.NoError(t, err)

	loaded, source, err := config.Discover(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "agent", "tdd.config.json"), source)
	assert.Equal(t, cfg, loaded)

	data, err := os.ReadFile(source)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "pytest", raw["test_framework"])
	assert.Equal(t, float64(250), raw["slow_test_threshold_ms"])
	assert.Equal(t, true, raw["commit_after_behavior"])
}

func TestInitRendersTemplates(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.TestCommand = "go test ./..."
	cfg.SlowTestThresholdMS = 42

	_, err := Init(root, cfg)
	require.NoError(t, err)

	backlog, err := os.ReadFile(cfg.BacklogPath(root))
	require.NoError(t, err)
	assert.Contains(t, string(backlog), "go test ./...")
	assert.Contains(t, string(backlog), "Log slow tests (>42ms) in agent/test-runtime/")
	assert.Contains(t, string(backlog), "## Behaviors")

	runtime, err := os.ReadFile(filepath.Join(root, "agent", "TEST_RUNTIME.md"))
	require.NoError(t, err)
	assert.Contains(t, string(runtime), "## Slow Tests (>42ms)")
}

func TestInitBacklogAcceptsRows(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()

	_, err := Init(root, cfg)
	require.NoError(t, err)

	res, err := behavior.NewCreator(root, cfg).Create(behavior.Options{Description: "User can reset the timer"})
	require.NoError(t, err)
	assert.True(t, res.BacklogUpdated, "a freshly initialized backlog must accept rows")
}

func TestInitIdempotent(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()

	_, err := Init(root, cfg)
	require.NoError(t, err)

	// An existing record survives re-init, the backlog is reset
	record := filepath.Join(cfg.BehaviorsPath(root), "B-1.md")
	require.NoError(t, os.WriteFile(record, []byte("# B-1\n"), 0644))
	require.NoError(t, os.WriteFile(cfg.BacklogPath(root), []byte("edited"), 0644))

	_, err = Init(root, cfg)
	require.NoError(t, err)

	_, err = os.Stat(record)
	assert.NoError(t, err)
	backlog, err := os.ReadFile(cfg.BacklogPath(root))
	require.NoError(t, err)
	assert.NotEqual(t, "edited", string(backlog))
}

func TestInitCustomArtifactsDir(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ArtifactsDir = "docs/tdd"

	res, err := Init(root, cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "docs", "tdd"), res.ArtifactsPath)
	assert.False(t, res.ConfigDiscoverable)
	assert.FileExists(t, filepath.Join(root, "docs", "tdd", "tdd.config.json"))
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ArtifactsDir = "../outside"

	_, err := Init(root, cfg)
	assert.Error(t, err)
	assert.NoDirExists(t, filepath.Join(root, "..", "outside"))
}
