package txn

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/veesix-networks/setman/pkg/atomicfile"
)

// ErrNoTransaction means no process is awaiting confirmation.
var ErrNoTransaction = errors.New("no transaction awaiting confirmation")

func WritePID(path string, pid int) error {
	if err := atomicfile.WriteFile(path, strings.NewReader(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNoTransaction
		}
		return 0, fmt.Errorf("read pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("malformed pid file %s: %q", path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

func RemovePID(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}
