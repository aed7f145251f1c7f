package server

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// readFile returns the contents of name inside dir. Names that escape dir,
// through ".." or a symlink, fail like missing files do. Directories are
// refused.
func readFile(dir, name string) ([]byte, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("opening document root: %w", err)
	}
	defer root.Close()

	f, err := root.Open(strings.TrimLeft(name, "/"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", name)
	}

	return io.ReadAll(f)
}
