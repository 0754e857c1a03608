// Package constants centralizes the environment-driven conventions shared by
// all commands: the project name and where its exported tables live.
package constants

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetProjectName returns the PROJECT_NAME the build system sets. Commands
// fall back to explicit flags when it is empty.
func GetProjectName() string {
	return os.Getenv("PROJECT_NAME")
}

// GetExportsDir is where the extractors drop their tables and where the
// artifact lands.
func GetExportsDir() string {
	path := os.Getenv("EXPORTS_PATH")
	if path != "" {
		return path
	}
	return "./exports"
}

// ProjectFile resolves "<exports>/<project>.<suffix>" for the current
// project, e.g. suffix "noteheads.csv".
func ProjectFile(suffix string) string {
	project := GetProjectName()
	if project == "" {
		return ""
	}
	return filepath.Join(GetExportsDir(), fmt.Sprintf("%s.%s", project, suffix))
}
