package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/config"
	"github.com/Cyclone1070/projectgen/internal/tool"
)

// Tools implements the workspace file tools.
type Tools struct {
	ws          *Workspace
	maxFileSize int64
	ignore      ignoreMatcher
}

// New builds the file tools over ws. With RespectGitignore set, the
// workspace's .gitignore hides entries from list_directory.
func New(ws *Workspace, cfg config.ToolsConfig) (*Tools, error) {
	t := &Tools{ws: ws, maxFileSize: cfg.MaxFileSize, ignore: noIgnore{}}
	if cfg.RespectGitignore {
		m, err := loadGitignore(ws.Root())
		if err != nil {
			return nil, err
		}
		t.ignore = m
	}
	return t, nil
}

// All returns every file tool.
func (t *Tools) All() []tool.Tool {
	return []tool.Tool{
		tool.New(tool.Declaration{
			Name:        "create_wd",
			Description: "Creates a directory and any missing parents, like mkdir -p. Succeeds if the directory already exists.",
			Parameters:  tool.Object(map[string]string{"path": "Directory to create, relative to the workspace."}, "path"),
		}, t.createWD),
		tool.New(tool.Declaration{
			Name:        "create_file",
			Description: "Creates a file with the given content, creating parent directories. Overwrites an existing file; use modify_file for edits.",
			Parameters: tool.Object(map[string]string{
				"file_path": "Where to create the file.",
				"content":   "Exact text content of the file.",
			}, "file_path", "content"),
		}, t.createFile),
		tool.New(tool.Declaration{
			Name:        "modify_file",
			Description: "Replaces the first exact occurrence of old_content with new_content in an existing file. old_content must match exactly, including whitespace.",
			Parameters: tool.Object(map[string]string{
				"file_path":   "Existing file to modify.",
				"old_content": "Exact text to replace.",
				"new_content": "Replacement text.",
			}, "file_path", "old_content", "new_content"),
		}, t.modifyFile),
		tool.New(tool.Declaration{
			Name:        "append_file",
			Description: "Appends content to the end of a file, creating it and its parent directories if needed.",
			Parameters: tool.Object(map[string]string{
				"file_path": "File to append to.",
				"content":   "Text to append.",
			}, "file_path", "content"),
		}, t.appendFile),
		tool.New(tool.Declaration{
			Name:        "delete_file",
			Description: "Permanently deletes a single file. Does not delete directories.",
			Parameters:  tool.Object(map[string]string{"file_path": "File to delete."}, "file_path"),
		}, t.deleteFile),
		tool.New(tool.Declaration{
			Name:        "delete_directory",
			Description: "Permanently deletes a directory and everything inside it.",
			Parameters:  tool.Object(map[string]string{"path": "Directory to delete."}, "path"),
		}, t.deleteDirectory),
		tool.New(tool.Declaration{
			Name:        "read_file",
			Description: "Returns the complete content of a text file. Read a file before modifying it.",
			Parameters:  tool.Object(map[string]string{"file_path": "File to read."}, "file_path"),
		}, t.readFile),
		tool.New(tool.Declaration{
			Name:        "list_directory",
			Description: "Shows every file and folder below a directory as an ASCII tree. Directories end with a slash. Defaults to the workspace root.",
			Parameters:  tool.Object(map[string]string{"path": "Directory to list. Defaults to \".\"."}),
		}, t.listDirectory),
	}
}

type pathRequest struct {
	Path string `mapstructure:"path"`
}

func (r pathRequest) Validate() error {
	if r.Path == "" {
		return ErrPathRequired
	}
	return nil
}

type filePathRequest struct {
	FilePath string `mapstructure:"file_path"`
}

func (r filePathRequest) Validate() error {
	if r.FilePath == "" {
		return ErrPathRequired
	}
	return nil
}

type contentRequest struct {
	FilePath string `mapstructure:"file_path"`
	Content  string `mapstructure:"content"`
}

func (r contentRequest) Validate() error {
	if r.FilePath == "" {
		return ErrPathRequired
	}
	return nil
}

type modifyRequest struct {
	FilePath   string `mapstructure:"file_path"`
	OldContent string `mapstructure:"old_content"`
	NewContent string `mapstructure:"new_content"`
}

func (r modifyRequest) Validate() error {
	if r.FilePath == "" {
		return ErrPathRequired
	}
	if r.OldContent == "" {
		return errors.New("old_content must not be empty")
	}
	return nil
}

type listRequest struct {
	Path string `mapstructure:"path"`
}

func (t *Tools) createWD(ctx context.Context, req pathRequest) (string, error) {
	abs, err := t.ws.Writable(req.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("creating working directory: %w", err)
	}
	return "Working directory created at " + req.Path, nil
}

func (t *Tools) createFile(ctx context.Context, req contentRequest) (string, error) {
	abs, err := t.ws.Writable(req.FilePath)
	if err != nil {
		return "", err
	}
	if err := t.checkSize(abs, int64(len(req.Content))); err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, req.FilePath)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", &WriteError{Path: req.FilePath, Cause: err}
	}
	if err := writeFileAtomic(abs, []byte(req.Content), 0o644); err != nil {
		return "", &WriteError{Path: req.FilePath, Cause: err}
	}
	return "File created at " + req.FilePath, nil
}

func (t *Tools) modifyFile(ctx context.Context, req modifyRequest) (string, error) {
	abs, err := t.ws.Writable(req.FilePath)
	if err != nil {
		return "", err
	}
	data, err := readCapped(abs, t.maxFileSize)
	if err != nil {
		return "", err
	}
	contents := string(data)
	if !strings.Contains(contents, req.OldContent) {
		return "", fmt.Errorf("Content not found in %s", req.FilePath)
	}

	updated := strings.Replace(contents, req.OldContent, req.NewContent, 1)
	if err := t.checkSize(abs, int64(len(updated))); err != nil {
		return "", err
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		perm = info.Mode().Perm()
	}
	if err := writeFileAtomic(abs, []byte(updated), perm); err != nil {
		return "", &WriteError{Path: req.FilePath, Cause: err}
	}
	return "File modified at " + req.FilePath, nil
}

func (t *Tools) appendFile(ctx context.Context, req contentRequest) (string, error) {
	abs, err := t.ws.Writable(req.FilePath)
	if err != nil {
		return "", err
	}
	var current int64
	if info, err := os.Stat(abs); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrIsDirectory, req.FilePath)
		}
		current = info.Size()
	}
	if err := t.checkSize(abs, current+int64(len(req.Content))); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", &WriteError{Path: req.FilePath, Cause: err}
	}

	f, err := os.OpenFile(abs, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", &WriteError{Path: req.FilePath, Cause: err}
	}
	if _, err := f.WriteString(req.Content); err != nil {
		_ = f.Close()
		return "", &WriteError{Path: req.FilePath, Cause: err}
	}
	if err := f.Close(); err != nil {
		return "", &WriteError{Path: req.FilePath, Cause: err}
	}
	return "Content appended to " + req.FilePath, nil
}

func (t *Tools) deleteFile(ctx context.Context, req filePathRequest) (string, error) {
	abs, err := t.ws.Writable(req.FilePath)
	if err != nil {
		return "", err
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return "", fmt.Errorf("deleting file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s (use delete_directory)", ErrIsDirectory, req.FilePath)
	}
	if err := os.Remove(abs); err != nil {
		return "", fmt.Errorf("deleting file: %w", err)
	}
	return "File deleted at " + req.FilePath, nil
}

func (t *Tools) deleteDirectory(ctx context.Context, req pathRequest) (string, error) {
	abs, err := t.ws.Writable(req.Path)
	if err != nil {
		return "", err
	}
	info, err := os.Lstat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("Directory does not exist: %s", req.Path)
	}
	if err != nil {
		return "", fmt.Errorf("deleting directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, req.Path)
	}
	if err := os.RemoveAll(abs); err != nil {
		return "", fmt.Errorf("deleting directory: %w", err)
	}
	return "Directory deleted at " + req.Path, nil
}

func (t *Tools) readFile(ctx context.Context, req filePathRequest) (string, error) {
	abs, err := t.ws.Abs(req.FilePath)
	if err != nil {
		return "", err
	}
	data, err := readCapped(abs, t.maxFileSize)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if isBinary(data) {
		return "", fmt.Errorf("%w: %s", ErrBinaryFile, req.FilePath)
	}
	return string(data), nil
}

func (t *Tools) listDirectory(ctx context.Context, req listRequest) (string, error) {
	path := req.Path
	if path == "" {
		path = "."
	}
	abs, err := t.ws.Abs(path)
	if err != nil {
		return "", err
	}
	out, err := t.renderTree(abs)
	if err != nil {
		return "", fmt.Errorf("listing directory: %w", err)
	}
	return out, nil
}

func (t *Tools) checkSize(path string, size int64) error {
	if t.maxFileSize > 0 && size > t.maxFileSize {
		return fmt.Errorf("%w: %s (size %d, limit %d)", ErrFileTooLarge, path, size, t.maxFileSize)
	}
	return nil
}
