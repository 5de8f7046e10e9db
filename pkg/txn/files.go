// Package txn holds the per-mode transaction files and the signal protocol
// between an applying process and a later commit or rollback trigger.
package txn

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/veesix-networks/setman/pkg/atomicfile"
	"github.com/veesix-networks/setman/pkg/models"
)

const (
	lockName  = "setman.lock"
	pidName   = "setman.pid"
	stateName = "setman.state"
)

// Files are the stateful paths of one mode. Every name carries the mode
// suffix so transactions on different domains never collide.
type Files struct {
	Lock    string
	PID     string
	State   string
	Staging string
}

func Paths(workdir string, mode models.Mode) Files {
	suffix := mode.Suffix()
	state := filepath.Join(workdir, stateName+suffix)
	return Files{
		Lock:    filepath.Join(workdir, lockName+suffix),
		PID:     filepath.Join(workdir, pidName+suffix),
		State:   state,
		Staging: state + ".new",
	}
}

// Stage copies r verbatim into the staging file and returns the hex SHA-256
// of the staged bytes. The file is synced and closed before returning.
func Stage(r io.Reader, staging string) (string, error) {
	f, err := os.OpenFile(staging, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("open staging file: %w", err)
	}

	digest := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, digest), r); err != nil {
		f.Close()
		return "", fmt.Errorf("write staging file %s: %w", staging, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", fmt.Errorf("sync staging file %s: %w", staging, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close staging file %s: %w", staging, err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// Commit promotes the staging file to the state file by atomic rename.
func Commit(staging, state string) error {
	return atomicfile.Rename(staging, state)
}
