package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/sift/internal/config"
	"github.com/hpungsan/sift/internal/errors"
)

// PathCheckMode selects the checks for a file about to be read or written.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // import
	PathCheckWrite                      // export
)

const jsonlExt = ".jsonl"

// pathPolicy is the set of directories an import or export file may live in.
// A nil dirs slice means any directory is accepted.
type pathPolicy struct {
	dirs []string
}

// newPathPolicy resolves the exports dir and every absolute allowed_paths
// entry. Entries that are symlinks are compared by their target.
func newPathPolicy(cfg *config.Config) (*pathPolicy, error) {
	if cfg != nil && cfg.AllowUnsafePaths {
		return &pathPolicy{}, nil
	}

	home, err := exportsDir(cfg)
	if err != nil {
		return nil, err
	}
	candidates := []string{home}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				candidates = append(candidates, p)
			}
		}
	}

	p := &pathPolicy{dirs: make([]string, 0, len(candidates))}
	for _, c := range candidates {
		dir, err := resolveDir(c)
		if err != nil {
			return nil, err
		}
		p.dirs = append(p.dirs, dir)
	}
	return p, nil
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
	}
	if !isSymlink(abs) {
		return abs, nil
	}
	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
	}
	return target, nil
}

// restricted reports whether the policy limits the parent directory.
func (p *pathPolicy) restricted() bool {
	return p.dirs != nil
}

// admits reports whether dir is exactly one of the allowed directories.
// Subdirectories are refused so no intermediate component can be swapped
// for a symlink between validation and open.
func (p *pathPolicy) admits(dir string) bool {
	dir = filepath.Clean(dir)
	for _, d := range p.dirs {
		if d == dir {
			return true
		}
	}
	return false
}

func (p *pathPolicy) check(path string, mode PathCheckMode) error {
	switch {
	case path == "":
		return errors.NewInvalidRequest("path is required")
	case containsTraversal(path):
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	case filepath.Ext(filepath.Clean(path)) != jsonlExt:
		return errors.NewInvalidRequest("path must have " + jsonlExt + " extension")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if p.restricted() {
		parent := filepath.Dir(abs)
		if !p.admits(parent) {
			return errors.NewInvalidRequest(fmt.Sprintf(
				"file must be directly in an allowed directory (no subdirectories); allowed: %v", p.dirs))
		}
		if isSymlink(parent) {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			return errors.NewFileNotFound(path)
		}
	}

	// Applies with allow_unsafe_paths too; the open uses O_NOFOLLOW anyway.
	if isSymlink(abs) {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	return nil
}

// ValidatePath checks an import or export path against cfg.
//
// The path needs a .jsonl extension and no ".." component. Its parent must
// be <home>/exports or an allowed_paths entry unless allow_unsafe_paths is
// set. Symlinks are refused in every mode, and a read needs the file to exist.
func ValidatePath(path string, mode PathCheckMode, cfg *config.Config) error {
	p, err := newPathPolicy(cfg)
	if err != nil {
		return err
	}
	return p.check(path, mode)
}

// exportsDir returns <home>/exports for cfg, falling back to the default home.
func exportsDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.BaseDir != "" {
		return cfg.ExportsDir(), nil
	}
	baseDir, err := config.DefaultBaseDir()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return filepath.Join(baseDir, "exports"), nil
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// containsTraversal reports whether any component of path is "..",
// splitting on "/" as well on platforms with another separator.
func containsTraversal(path string) bool {
	split := func(r rune) bool {
		return r == filepath.Separator || r == '/'
	}
	for _, part := range strings.FieldsFunc(path, split) {
		if part == ".." {
			return true
		}
	}
	return false
}
