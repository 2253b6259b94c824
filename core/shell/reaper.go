package shell

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
)

// Notice reports the end of a background job.
type Notice struct {
	Pid   int
	Argv  []string
	State *os.ProcessState
	Err   error
}

func (n Notice) String() string {
	status := DescribeState(n.State)
	if n.Err != nil {
		status = n.Err.Error()
	}
	return fmt.Sprintf("[Background pid %d done: %s] %s", n.Pid, status, strings.Join(n.Argv, " "))
}

// Reaper waits on background jobs so they don't linger as zombies and queues
// a Notice for each one that ends.
type Reaper struct {
	// OnDone, if set, is called from the reaping goroutine for every job.
	OnDone func(Notice)

	mu      sync.Mutex
	running map[int]*exec.Cmd
	done    []Notice
	wg      sync.WaitGroup
}

// Track starts waiting on a started background command.
func (r *Reaper) Track(cmd *exec.Cmd) {
	pid := cmd.Process.Pid

	r.mu.Lock()
	if r.running == nil {
		r.running = make(map[int]*exec.Cmd)
	}
	r.running[pid] = cmd
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		err := cmd.Wait()
		if isExitError(err) {
			err = nil
		}
		notice := Notice{Pid: pid, Argv: cmd.Args, State: cmd.ProcessState, Err: err}

		r.mu.Lock()
		delete(r.running, pid)
		r.done = append(r.done, notice)
		r.mu.Unlock()

		if r.OnDone != nil {
			r.OnDone(notice)
		}
	}()
}

// Drain returns and forgets the notices queued since the last call.
func (r *Reaper) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.done
	r.done = nil
	return out
}

// Running returns the pids of jobs that haven't ended yet.
func (r *Reaper) Running() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pids []int
	for pid := range r.running {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

// Wait blocks until every tracked job has been reaped.
func (r *Reaper) Wait() {
	r.wg.Wait()
}
