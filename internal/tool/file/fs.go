package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// binarySampleSize is how many leading bytes are checked for NUL bytes.
const binarySampleSize = 8000

// writeFileAtomic writes content through a temp file in the same directory
// and renames it into place, so a crash never leaves a half-written file.
func writeFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpPath, path, err)
	}
	committed = true
	return nil
}

// readCapped reads a whole file, refusing files larger than limit.
func readCapped(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%w: %s (size %d, limit %d)", ErrFileTooLarge, path, info.Size(), limit)
	}
	return io.ReadAll(f)
}

// isBinary looks for NUL bytes in the leading sample. UTF-16 and UTF-32
// byte order marks are treated as text.
func isBinary(content []byte) bool {
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) || (content[0] == 0xFE && content[1] == 0xFF) {
			return false
		}
	}
	if len(content) >= 4 && content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF {
		return false
	}
	for i := range min(len(content), binarySampleSize) {
		if content[i] == 0 {
			return true
		}
	}
	return false
}
