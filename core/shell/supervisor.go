package shell

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultWatchdogTimeout is how long a foreground process may run.
const DefaultWatchdogTimeout = 10 * time.Second

// ErrBusy is returned when a foreground process is already being supervised.
var ErrBusy = errors.New("a foreground process is already running")

// Result describes how a supervised process ended.
type Result struct {
	Pid    int
	State  *os.ProcessState
	Killed bool
}

func (r *Result) String() string {
	return fmt.Sprintf("pid %d: %s", r.Pid, DescribeState(r.State))
}

// Supervisor waits on the foreground process and kills it if it outlives the
// watchdog.
//
// The tracked process lives in a single atomic slot shared between the
// waiting goroutine and the watchdog goroutine. Each side only clears the slot
// if it still holds its own process, so a late watchdog can never touch the
// next command.
type Supervisor struct {
	// Timeout is the watchdog duration, zero uses DefaultWatchdogTimeout.
	Timeout time.Duration

	// OnExpire, if set, is called from the watchdog goroutine after the kill
	// signal was sent.
	OnExpire func(pid int)

	fg atomic.Pointer[os.Process]
}

// Tracked returns the pid of the foreground process or 0 when idle.
func (s *Supervisor) Tracked() int {
	if proc := s.fg.Load(); proc != nil {
		return proc.Pid
	}
	return 0
}

// Run supervises a started command until it terminates. A non-zero exit is not
// an error; errors are reserved for failures of the wait itself.
func (s *Supervisor) Run(cmd *exec.Cmd) (*Result, error) {
	proc := cmd.Process
	if proc == nil {
		return nil, errors.New("supervise: command not started")
	}
	if !s.fg.CompareAndSwap(nil, proc) {
		return nil, ErrBusy
	}

	var killed atomic.Bool
	expired := make(chan struct{})
	timer := time.AfterFunc(s.timeout(), func() {
		defer close(expired)

		if !s.fg.CompareAndSwap(proc, nil) {
			return
		}
		if err := proc.Signal(unix.SIGKILL); err != nil {
			return
		}
		killed.Store(true)
		if s.OnExpire != nil {
			s.OnExpire(proc.Pid)
		}
	})

	err := cmd.Wait()

	if !timer.Stop() {
		// The watchdog already fired, let it finish before reporting.
		<-expired
	}
	s.fg.CompareAndSwap(proc, nil)

	result := &Result{Pid: proc.Pid, State: cmd.ProcessState, Killed: killed.Load()}
	if err != nil && !isExitError(err) {
		return result, err
	}
	return result, nil
}

func (s *Supervisor) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultWatchdogTimeout
}

// DescribeState renders a process exit like "exit status 1" or "killed by
// SIGKILL".
func DescribeState(state *os.ProcessState) string {
	if state == nil {
		return "unknown"
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		name := unix.SignalName(ws.Signal())
		if name == "" {
			name = ws.Signal().String()
		}
		return "killed by " + name
	}
	return fmt.Sprintf("exit status %d", state.ExitCode())
}
