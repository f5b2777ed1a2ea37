package config

import "path/filepath"

// Fixed names inside the artifacts directory
const (
	BacklogFileName     = "BEHAVIOR_BACKLOG.md"
	LessonsFileName     = "LESSONS.md"
	TestRuntimeFileName = "TEST_RUNTIME.md"
	BehaviorsDirName    = "behaviors"
	RuntimeDirName      = "test-runtime"
	HistoryDBName       = "history.db"
)

// BacklogPath returns <root>/<artifacts>/BEHAVIOR_BACKLOG.md
func (c *Config) BacklogPath(root string) string {
	return filepath.Join(c.ArtifactsPath(root), BacklogFileName)
}

// BehaviorsPath returns the directory holding one record file per behavior
func (c *Config) BehaviorsPath(root string) string {
	return filepath.Join(c.ArtifactsPath(root), BehaviorsDirName)
}

// RuntimePath returns the directory holding one note per slow test
func (c *Config) RuntimePath(root string) string {
	return filepath.Join(c.ArtifactsPath(root), RuntimeDirName)
}

// HistoryPath returns the sqlite file recording slow-test detections
func (c *Config) HistoryPath(root string) string {
	return filepath.Join(c.RuntimePath(root), HistoryDBName)
}

// RuntimeDirDisplay is the runtime directory relative to the project root,
// with forward slashes, as shown in generated markdown
func (c *Config) RuntimeDirDisplay() string {
	return filepath.ToSlash(filepath.Join(c.ArtifactsDir, RuntimeDirName))
}
