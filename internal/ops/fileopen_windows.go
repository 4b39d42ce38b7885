//go:build windows

package ops

import "os"

// createTemp creates path for writing. The file must not already exist.
// O_NOFOLLOW has no Windows equivalent; ValidatePath rejects symlinks.
func createTemp(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, openError(path, err)
	}
	return f, nil
}

// openImportFile opens path read-only.
func openImportFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	return f, nil
}
