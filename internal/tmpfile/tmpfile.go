// Package tmpfile stages byte payloads through short-lived files for
// libraries and APIs that want a file path or an *os.File. The staged file is
// removed on every exit path before control returns to the caller.
package tmpfile

import (
	"fmt"
	"os"
)

// Run writes data to a fresh temp file, invokes fn with its path, then
// removes the file. The file is gone by the time Run returns, whether fn
// succeeded, failed, or panicked.
func Run(pattern string, data []byte, fn func(path string) error) error {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return fn(path)
}
