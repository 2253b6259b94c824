package shell

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/josephlewis42/watchsh/core/vos"
)

// RunPipeline runs left with its output connected to the input of right and
// waits for both. Exit statuses are ignored.
//
// Both stages are started before either is waited on, and the parent's ends of
// the pipe are closed once both have been started so right sees end of file as
// soon as left exits. A stage that fails to start is reported in the returned
// error while the other still runs.
func (l *Launcher) RunPipeline(left, right []string, stdio vos.VIO) error {
	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("pipe: %w", err)
	}

	var errs []error
	var started []*exec.Cmd

	leftCmd, err := l.Start(Spec{
		Argv:   left,
		Stdin:  stdio.Stdin(),
		Stdout: w,
		Stderr: stdio.Stderr(),
	})
	if err != nil {
		errs = append(errs, err)
	} else {
		started = append(started, leftCmd)
	}

	rightCmd, err := l.Start(Spec{
		Argv:   right,
		Stdin:  r,
		Stdout: stdio.Stdout(),
		Stderr: stdio.Stderr(),
	})
	if err != nil {
		errs = append(errs, err)
	} else {
		started = append(started, rightCmd)
	}

	closeAll(r, w)

	for _, cmd := range started {
		if err := cmd.Wait(); err != nil && !isExitError(err) {
			errs = append(errs, fmt.Errorf("%s: %w", cmd.Args[0], err))
		}
	}

	return errors.Join(errs...)
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
