package shell

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/josephlewis42/watchsh/core/vos"
)

// Exit statuses reported for programs that never started, following POSIX
// shells.
const (
	StatusLaunchFailed  = 1
	StatusNotExecutable = 126
	StatusNotFound      = 127
)

// DefaultWaitDelay bounds how long a Wait keeps copying output after the
// process exits.
const DefaultWaitDelay = time.Second

// LaunchError is returned when a program can't be started.
type LaunchError struct {
	Argv   []string
	Status int
	Err    error
}

func (e *LaunchError) Error() string {
	name := ""
	if len(e.Argv) > 0 {
		name = e.Argv[0]
	}
	switch e.Status {
	case StatusNotFound:
		return fmt.Sprintf("%s: command not found", name)
	case StatusNotExecutable:
		return fmt.Sprintf("%s: permission denied", name)
	default:
		return fmt.Sprintf("%s: %v", name, e.Err)
	}
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Spec describes one program to start.
type Spec struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher starts child processes.
//
// The interpreter only ever catches SIGINT, it never ignores it, so a started
// program begins with the default disposition and a terminal interrupt stops
// it.
type Launcher struct {
	// Env is searched for PATH and snapshotted into every child.
	Env vos.VEnv

	// WaitDelay is copied to exec.Cmd.WaitDelay, zero uses DefaultWaitDelay.
	WaitDelay time.Duration
}

// Start resolves spec.Argv[0] and starts it. Files in spec are duplicated
// into the child; closing the parent's copies is left to the caller.
func (l *Launcher) Start(spec Spec) (*exec.Cmd, error) {
	if len(spec.Argv) == 0 {
		return nil, &LaunchError{Status: StatusNotFound, Err: vos.ErrNotFound}
	}

	path, err := vos.LookPath(l.Env, spec.Argv[0])
	if err != nil {
		return nil, &LaunchError{Argv: spec.Argv, Status: launchStatus(err), Err: err}
	}

	cmd := &exec.Cmd{
		Path:      path,
		Args:      spec.Argv,
		Env:       l.Env.Environ(),
		Stdin:     spec.Stdin,
		Stdout:    spec.Stdout,
		Stderr:    spec.Stderr,
		WaitDelay: l.waitDelay(),
	}
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Argv: spec.Argv, Status: launchStatus(err), Err: err}
	}
	return cmd, nil
}

func (l *Launcher) waitDelay() time.Duration {
	if l.WaitDelay > 0 {
		return l.WaitDelay
	}
	return DefaultWaitDelay
}

func launchStatus(err error) int {
	switch {
	case errors.Is(err, vos.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return StatusNotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.ENOEXEC):
		return StatusNotExecutable
	default:
		return StatusLaunchFailed
	}
}

// closeAll closes every non-nil file, used for the parent's copies of
// descriptors handed to children.
func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}
