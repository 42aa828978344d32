// Package cliutil holds the output helpers shared by the oascompile commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ModelFileMode is the permission mode for written models. Compiled documents
// may describe private APIs, so only the owner can read them.
const ModelFileMode os.FileMode = 0o600

// Writef writes formatted output to w. A failed write is reported on stderr
// since the commands have nowhere else to send it.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// WriteOutput writes data to path, or to w when path is empty. Data written
// to w always ends with a newline.
func WriteOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		if _, err := w.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}
	target, err := OutputPath(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, ModelFileMode); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// OutputPath cleans path into an absolute path that is safe to overwrite.
// Symlinks and directories are refused; a path that does not exist yet is
// accepted.
func OutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("output path: cannot resolve %q: %w", path, err)
	}
	info, err := os.Lstat(abs)
	switch {
	case os.IsNotExist(err):
		return abs, nil
	case err != nil:
		return "", fmt.Errorf("output path: %w", err)
	case info.Mode()&os.ModeSymlink != 0:
		return "", fmt.Errorf("output path: refusing to write to symlink: %s", abs)
	case info.IsDir():
		return "", fmt.Errorf("output path: %s is a directory", abs)
	}
	return abs, nil
}
