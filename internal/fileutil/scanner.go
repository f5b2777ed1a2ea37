// Package fileutil lists artifact files inside the TDD workspace.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions configures ScanDirectory
type ScanOptions struct {
	// Extensions filters by file extension, case-insensitively (".md" or "md").
	// Empty means every file.
	Extensions []string
}

// ScanDirectory returns the absolute paths of the files directly inside dir
// that match opts, sorted. Subdirectories are not descended. A missing dir is
// returned as an error satisfying errors.Is(err, fs.ErrNotExist).
func ScanDirectory(dir string, opts ScanOptions) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	extensions := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if len(extensions) > 0 && !extensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		abs, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", name, err)
		}
		files = append(files, abs)
	}

	sort.Strings(files)
	return files, nil
}

// Stem returns the base name of path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Stems maps Stem over paths
func Stems(paths []string) []string {
	stems := make([]string, 0, len(paths))
	for _, p := range paths {
		stems = append(stems, Stem(p))
	}
	return stems
}
