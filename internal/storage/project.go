package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	dasherrors "github.com/abatilo/taskdash/internal/errors"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FindProjectRoot walks up from cwd looking for .git directory.
// Returns the directory containing .git, or error if not found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", dasherrors.NotInRepoError{}
		}
		dir = parent
	}
}

// ProjectDir scopes base to the enclosing git project:
// base/<sanitized-project-root>.
func ProjectDir(base string) (string, error) {
	root, err := FindProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, SanitizePath(root)), nil
}

// SanitizePath converts a path or key into a safe file name.
// "/Users/abatilo/myproject" -> "Users-abatilo-myproject"
func SanitizePath(path string) string {
	result := strings.TrimPrefix(path, "/")
	result = nonAlnum.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
