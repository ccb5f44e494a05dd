package main

import (
	"fmt"
	"os"

	"wl/internal/project"
	"wl/internal/source"
)

// projectSettings is the effective configuration for one invocation.
type projectSettings struct {
	// manifest is nil outside a project.
	manifest *project.Manifest
	config   project.Config
	baseDir  string
}

// loadProjectSettings finds the wl.toml governing target. Outside a
// project the defaults apply and baseDir is the working directory.
func loadProjectSettings(target string) (projectSettings, error) {
	start := target
	if start == "" || start == "-" {
		start = "."
	}
	manifest, ok, err := project.LoadManifest(start)
	if err != nil {
		return projectSettings{}, err
	}
	if ok {
		return projectSettings{manifest: manifest, config: manifest.Config, baseDir: manifest.Root}, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return projectSettings{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return projectSettings{config: project.DefaultConfig(), baseDir: wd}, nil
}

// cacheDir is the token cache location: [cache].dir, or the user cache.
func (s projectSettings) cacheDir() string {
	return s.manifest.CacheDir()
}

// displayPath renders path relative to the project base when possible.
func (s projectSettings) displayPath(path string) string {
	if rel, err := source.RelativePath(path, s.baseDir); err == nil {
		return rel
	}
	return path
}
