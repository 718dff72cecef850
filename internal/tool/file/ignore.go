package file

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreMatcher reports whether a workspace-relative path is gitignored.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// gitignoreMatcher matches against the workspace root's .gitignore.
type gitignoreMatcher struct {
	matcher gitignore.Matcher
}

// loadGitignore reads root/.gitignore. A missing file yields a matcher
// that ignores nothing.
func loadGitignore(root string) (*gitignoreMatcher, error) {
	path := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &gitignoreMatcher{}, nil
		}
		return nil, &GitignoreReadError{Path: path, Cause: err}
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		line = strings.TrimRight(line, " ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return &gitignoreMatcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

func (m *gitignoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}
	return m.matcher.Match(splitPath(relativePath), isDir)
}

// noIgnore never ignores anything.
type noIgnore struct{}

func (noIgnore) ShouldIgnore(string, bool) bool { return false }

func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
