package ops

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/hpungsan/sift/internal/errors"
)

// openError maps a failed open of an export or import file to a SiftError.
func openError(path string, err error) error {
	switch {
	case stderrors.Is(err, os.ErrNotExist):
		return errors.NewFileNotFound(path)
	case stderrors.Is(err, os.ErrExist):
		return errors.NewInvalidRequest(fmt.Sprintf("file already exists: %s", path))
	case stderrors.Is(err, os.ErrPermission):
		return errors.NewInvalidRequest(fmt.Sprintf("permission denied: %s", path))
	}
	return errors.NewInternal(fmt.Errorf("open %s: %w", path, err))
}
