//go:build windows

package orchestrator

import "golang.org/x/sys/windows"

// replaceFile uses MoveFileEx so an existing file at to is replaced, which
// os.Rename does not guarantee on every Windows filesystem.
func replaceFile(from, to string) error {
	fromp, err := windows.UTF16PtrFromString(from)
	if err != nil {
		return err
	}
	top, err := windows.UTF16PtrFromString(to)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(fromp, top, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

// syncDir is a no-op on Windows; directory fsync is not generally available.
func syncDir(string) error { return nil }
