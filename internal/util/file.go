//go:build !windows
// +build !windows

package util

import (
	"fmt"
	"os"
	"syscall"
)

const accessWrite = 0x2 // W_OK

// CheckDirWritable returns an error if path is not a directory the current user can write to.
func CheckDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	if err := syscall.Access(path, accessWrite); err != nil {
		return fmt.Errorf("user doesn't have permission to write to %s: %w", path, err)
	}
	return nil
}
