package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Workspace confines file tools to a directory tree and refuses changes to
// protected paths.
type Workspace struct {
	root      string
	protected []string
}

// NewWorkspace canonicalises root and returns a workspace over it.
// Protected patterns are doublestar globs relative to the root.
func NewWorkspace(root string, protected ...string) (*Workspace, error) {
	canonical, err := CanonicaliseRoot(root)
	if err != nil {
		return nil, err
	}
	for _, p := range protected {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid protected path pattern %q", p)
		}
	}
	return &Workspace{root: canonical, protected: protected}, nil
}

// CanonicaliseRoot makes root absolute and resolves symlinks. The result
// must be an existing directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: root, Cause: err}
	}
	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: ErrNotADirectory}
	}
	return resolved, nil
}

func (w *Workspace) Root() string {
	return w.root
}

// Abs resolves path against the root and checks it stays inside.
func (w *Workspace) Abs(path string) (string, error) {
	if path == "" {
		return "", ErrPathRequired
	}

	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Clean(filepath.Join(w.root, path))
	}

	if abs != w.root && !strings.HasPrefix(abs, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return abs, nil
}

// Rel returns path relative to the root with forward slashes. The root
// itself is ".".
func (w *Workspace) Rel(path string) (string, error) {
	abs, err := w.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(w.root, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return filepath.ToSlash(rel), nil
}

// Writable resolves path for a mutating operation. Protected paths and the
// root itself are refused.
func (w *Workspace) Writable(path string) (string, error) {
	rel, err := w.Rel(path)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", fmt.Errorf("%w: workspace root", ErrProtectedPath)
	}
	for _, pattern := range w.protected {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return "", fmt.Errorf("%w: %s", ErrProtectedPath, path)
		}
	}
	return filepath.Join(w.root, filepath.FromSlash(rel)), nil
}
