//go:build !windows

package orchestrator

import "os"

// replaceFile renames from to to, replacing an existing file at to.
func replaceFile(from, to string) error {
	return os.Rename(from, to)
}

// syncDir best-effort fsyncs a directory to persist the rename.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
