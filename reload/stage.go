package reload

import (
	"io"
	"os"
	"path/filepath"

	"github.com/wippyai/hotreload/errors"
)

// stage replaces staging with a copy of source and returns the copied
// bytes. An existing staging file that cannot be removed aborts the copy.
func stage(source, staging string) ([]byte, error) {
	if SamePath(source, staging) {
		return nil, errors.InvalidInput(errors.PhaseStage, "staging path "+staging+" resolves to the source module")
	}
	if err := os.Remove(staging); err != nil && !os.IsNotExist(err) {
		return nil, errors.IO(errors.PhaseStage, staging, "remove staging file", err)
	}

	if err := copyFile(source, staging); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(staging)
	if err != nil {
		return nil, errors.IO(errors.PhaseStage, staging, "read staging file", err)
	}
	return data, nil
}

// SamePath reports whether a and b name the same file: equal once made
// absolute and cleaned, or the same inode when both exist.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

func copyFile(source, staging string) error {
	in, err := os.Open(source)
	if err != nil {
		return errors.IO(errors.PhaseStage, source, "open source", err)
	}
	defer in.Close()

	out, err := os.OpenFile(staging, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.IO(errors.PhaseStage, staging, "create staging file", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.IO(errors.PhaseStage, staging, "copy "+source, err)
	}
	if err := out.Close(); err != nil {
		return errors.IO(errors.PhaseStage, staging, "close staging file", err)
	}
	return nil
}
