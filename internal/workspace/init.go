// Package workspace lays out the TDD artifacts directory for a project.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/tddkit/internal/config"
	"github.com/harrison/tddkit/internal/filelock"
	"github.com/harrison/tddkit/internal/templates"
)

// Result lists what Init touched, in creation order
type Result struct {
	ArtifactsPath string
	Dirs          []string
	Files         []string
	// ConfigDiscoverable is false when the written config sits where
	// Discover will not look for it (a non-default artifacts dir)
	ConfigDiscoverable bool
}

type artifact struct {
	name     string
	template string
}

// artifacts rendered from the embedded templates, after the config file
var artifacts = []artifact{
	{config.BacklogFileName, templates.Backlog},
	{config.LessonsFileName, templates.Lessons},
	{config.TestRuntimeFileName, templates.TestRuntime},
}

// Init creates the artifacts directory tree under root and writes the
// config, backlog, lessons and runtime overview files.
//
// Directories are created idempotently. Files are always overwritten, so
// running Init on an existing workspace resets the backlog.
func Init(root string, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	res := &Result{ArtifactsPath: cfg.ArtifactsPath(root)}

	for _, dir := range []string{res.ArtifactsPath, cfg.BehaviorsPath(root), cfg.RuntimePath(root)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
		res.Dirs = append(res.Dirs, dir)
	}

	configPath := filepath.Join(res.ArtifactsPath, config.FileName)
	data, err := MarshalConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := filelock.AtomicWrite(configPath, data); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, configPath)

	for _, candidate := range config.CandidatePaths(root) {
		if candidate == configPath {
			res.ConfigDiscoverable = true
		}
	}

	tmplData := templates.WorkspaceData{
		TestCommand: cfg.TestCommand,
		ThresholdMS: cfg.SlowTestThresholdMS,
		RuntimeDir:  cfg.RuntimeDirDisplay(),
	}
	for _, a := range artifacts {
		content, err := templates.Render(a.template, tmplData)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(res.ArtifactsPath, a.name)
		if err := filelock.AtomicWrite(path, content); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	return res, nil
}

// MarshalConfig renders cfg as the 2-space indented JSON written by Init
func MarshalConfig(cfg *config.Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return append(data, '\n'), nil
}
