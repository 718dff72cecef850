package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_Abs(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	root := ws.Root()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"relative", "a/b.txt", filepath.Join(root, "a", "b.txt"), nil},
		{"root", ".", root, nil},
		{"absolute inside", filepath.Join(root, "x"), filepath.Join(root, "x"), nil},
		{"dot dot escape", "../x", "", ErrOutsideWorkspace},
		{"sneaky escape", "a/../../x", "", ErrOutsideWorkspace},
		{"absolute outside", "/etc/passwd", "", ErrOutsideWorkspace},
		{"prefix sibling", root + "-other/x", "", ErrOutsideWorkspace},
		{"empty", "", "", ErrPathRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ws.Abs(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkspace_Rel(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)

	rel, err := ws.Rel("a/./b/../c.txt")
	require.NoError(t, err)
	assert.Equal(t, "a/c.txt", rel)

	rel, err = ws.Rel(ws.Root())
	require.NoError(t, err)
	assert.Equal(t, ".", rel)
}

func TestWorkspace_Writable(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), ".git", ".git/**", "secrets/*.key")
	require.NoError(t, err)

	for _, p := range []string{".git", ".git/config", ".git/refs/heads/main", "secrets/prod.key", "."} {
		_, err := ws.Writable(p)
		assert.ErrorIs(t, err, ErrProtectedPath, p)
	}
	for _, p := range []string{"src/main.go", ".gitignore", "secrets/readme.md"} {
		_, err := ws.Writable(p)
		assert.NoError(t, err, p)
	}
}

func TestNewWorkspace_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewWorkspace(filepath.Join(dir, "missing"))
	var rootErr *WorkspaceRootError
	assert.ErrorAs(t, err, &rootErr)

	_, err = NewWorkspace(file)
	assert.ErrorIs(t, err, ErrNotADirectory)

	_, err = NewWorkspace(dir, "[")
	assert.Error(t, err)
}

func TestNewWorkspace_ResolvesSymlinks(t *testing.T) {
	real := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(real, link))

	ws, err := NewWorkspace(link)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(real)
	require.NoError(t, err)
	assert.Equal(t, want, ws.Root())
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary([]byte("plain text")))
	assert.True(t, isBinary([]byte{'a', 0, 'b'}))
	assert.False(t, isBinary([]byte{0xFF, 0xFE, 'a', 0}))
	assert.False(t, isBinary(nil))
}
