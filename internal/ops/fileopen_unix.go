//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/hpungsan/sift/internal/errors"
)

// createTemp creates path for writing. The file must not already exist,
// and a symlink planted at path is refused.
func createTemp(path string) (*os.File, error) {
	return openNoFollow(path, syscall.O_WRONLY|syscall.O_CREAT|syscall.O_EXCL, 0600)
}

// openImportFile opens path read-only without following a final symlink.
// Parent directories are covered by ValidatePath.
func openImportFile(path string) (*os.File, error) {
	return openNoFollow(path, syscall.O_RDONLY, 0)
}

func openNoFollow(path string, flag int, perm uint32) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, perm)
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("path must not be a symlink")
		}
		return nil, openError(path, err)
	}
	return os.NewFile(uintptr(fd), path), nil
}
