// Package atomicfile replaces files so that readers observe either the old
// content or the complete new content, never a partial write.
package atomicfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFile copies r into a pending file next to path and atomically
// replaces path with it. The pending file is removed on failure.
func WriteFile(path string, r io.Reader, perm os.FileMode) error {
	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(perm),
	)
	if err != nil {
		return fmt.Errorf("create temporary file for %s: %w", path, err)
	}
	defer pending.Cleanup()

	if _, err := io.Copy(pending, r); err != nil {
		return fmt.Errorf("write %s: %w", pending.Name(), err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	syncDir(path)
	return nil
}

// Rename moves a fully written file into place and syncs the parent
// directory so the rename survives a power loss.
func Rename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename %s to %s: %w", src, dst, err)
	}
	syncDir(dst)
	return nil
}

func syncDir(path string) {
	dir, err := os.Open(filepath.Dir(path))
	if err == nil {
		dir.Sync()
		dir.Close()
	}
}
