package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// renderTree draws dir as an ASCII tree. Within each level files come
// before directories and both groups are sorted by name; directories carry
// a trailing slash. Top-level entries are unprefixed.
func (t *Tools) renderTree(abs string) (string, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	lines := []string{abs + "/", "│"}
	lines = append(lines, t.treeLevel(abs, 0, "")...)
	return strings.Join(lines, "\n"), nil
}

func (t *Tools) treeLevel(dir string, depth int, parentPrefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{parentPrefix + "Error: " + err.Error()}
	}

	var files, dirs []string
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		// Symlinks report as non-directories and are never followed.
		isDir := e.IsDir()
		if rel, err := t.ws.Rel(full); err == nil && t.ignore.ShouldIgnore(rel, isDir) {
			continue
		}
		if isDir {
			dirs = append(dirs, e.Name())
		} else {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	sort.Strings(dirs)

	var lines []string
	total := len(files) + len(dirs)
	for i, name := range append(files, dirs...) {
		last := i == total-1
		isDir := i >= len(files)

		prefix := ""
		if depth > 0 {
			if last {
				prefix = parentPrefix + "└── "
			} else {
				prefix = parentPrefix + "├── "
			}
		}

		if !isDir {
			lines = append(lines, prefix+name)
			continue
		}

		lines = append(lines, prefix+name+"/")
		childPrefix := "│   "
		if depth > 0 {
			if last {
				childPrefix = parentPrefix + "    "
			} else {
				childPrefix = parentPrefix + "│   "
			}
		}
		sub := t.treeLevel(filepath.Join(dir, name), depth+1, childPrefix)
		lines = append(lines, sub...)
		if !last && len(sub) > 0 {
			lines = append(lines, parentPrefix+"│")
		}
	}
	return lines
}
