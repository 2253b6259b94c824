package vos

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is the error resulting if a path search failed to find an executable file.
	ErrNotFound = exec.ErrNotFound

	// ErrNotExecutable is returned when the file exists but can't be run.
	ErrNotExecutable = fs.ErrPermission
)

func findExecutable(file string) error {
	d, err := os.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return ErrNotExecutable
}

// LookPath searches for an executable named file in the directories named by
// the PATH variable of env. If file contains a slash, it is tried directly
// and the PATH is not consulted. The result may be an absolute path or a path
// relative to the current directory.
//
// When the only candidates found exist but aren't executable ErrNotExecutable
// is returned so callers can tell the two failures apart.
func LookPath(env VEnv, file string) (string, error) {
	if file == "" {
		return "", ErrNotFound
	}
	if strings.Contains(file, "/") {
		if err := findExecutable(file); err != nil {
			return "", err
		}
		return file, nil
	}

	result := ErrNotFound
	for _, dir := range filepath.SplitList(env.Getenv("PATH")) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		switch err := findExecutable(path); {
		case err == nil:
			return path, nil
		case errors.Is(err, ErrNotExecutable):
			result = ErrNotExecutable
		}
	}
	return "", result
}
