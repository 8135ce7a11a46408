// Package linker places preprocessed files at their targets via symlinks.
package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Linker errors.
var (
	// ErrTargetExists is returned when the target path exists and is not a
	// symlink; snapconf never deletes real files.
	ErrTargetExists = errors.New("target already exists and is not a symlink")
	// ErrLinkFailed is returned when the symlink cannot be created.
	ErrLinkFailed = errors.New("failed to create target link")
)

// Link points target at source, replacing a stale symlink if one is in the
// way. The source must exist; its path is made absolute first so the link
// survives working-directory changes.
func Link(source, target string) error {
	if info, err := os.Lstat(target); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%w: %s", ErrTargetExists, target)
		}
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("%w: %s -> %s: %v", ErrLinkFailed, target, source, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s -> %s: %v", ErrLinkFailed, target, source, err)
	}
	absSource, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("%w: %s -> %s: %v", ErrLinkFailed, target, source, err)
	}
	if _, err := os.Stat(absSource); err != nil {
		return fmt.Errorf("%w: %s -> %s: %v", ErrLinkFailed, target, source, err)
	}
	if err := os.Symlink(absSource, target); err != nil {
		return fmt.Errorf("%w: %s -> %s: %v", ErrLinkFailed, target, source, err)
	}
	return nil
}
