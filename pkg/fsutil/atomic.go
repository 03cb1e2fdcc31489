// Package fsutil provides small filesystem helpers used by the
// callback package. Atomic replacement is plain
// os.CreateTemp + os.Rename: no example repo in the corpus shows this
// pattern (their persistence is a database, not a result file), and
// the OS-level rename-is-atomic guarantee is correctly the standard
// library's domain rather than any third-party one's.
package fsutil

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path by first writing it to a
// temporary file in the same directory, then renaming it into place,
// so a concurrent reader never observes a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
