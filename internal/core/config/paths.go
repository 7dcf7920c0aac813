package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	ProjectRoot     string
	ReportPath      string
	MetricsTextfile string
}

// ResolvePaths makes the configured paths absolute. Relative report and
// metrics paths are taken from the project root; an unset project root is
// detected from the analyzed file upwards.
func ResolvePaths(cfg *Config, cwd, file string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	projectRoot := strings.TrimSpace(cfg.Output.ProjectRoot)
	if projectRoot != "" {
		projectRoot = ResolveRelative(cwd, projectRoot)
	} else {
		candidates := []string{cwd}
		if strings.TrimSpace(file) != "" {
			candidates = append([]string{ResolveRelative(cwd, file)}, candidates...)
		}
		root, err := DetectProjectRoot(candidates)
		if err != nil {
			return ResolvedPaths{}, err
		}
		projectRoot = root
	}

	resolved := ResolvedPaths{ProjectRoot: filepath.Clean(projectRoot)}
	if cfg.Output.Path != "" {
		resolved.ReportPath = ResolveRelative(projectRoot, cfg.Output.Path)
	}
	if cfg.Observability.MetricsTextfile != "" {
		resolved.MetricsTextfile = ResolveRelative(projectRoot, cfg.Observability.MetricsTextfile)
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate looking for a marker of a
// C project. It falls back to the process working directory.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		".git",
		FileName,
		"compile_commands.json",
		"CMakeLists.txt",
		"Makefile",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
