package shell

import (
	"errors"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startForTest(t *testing.T, argv ...string) *exec.Cmd {
	t.Helper()

	cmd, err := testLauncher().Start(Spec{Argv: argv})
	require.Nil(t, err)
	return cmd
}

func TestSupervisor_Run_normal(t *testing.T) {
	var expired atomic.Bool
	supervisor := &Supervisor{
		Timeout:  5 * time.Second,
		OnExpire: func(int) { expired.Store(true) },
	}

	cmd := startForTest(t, "sh", "-c", "exit 3")
	result, err := supervisor.Run(cmd)

	require.Nil(t, err)
	assert.False(t, result.Killed)
	assert.False(t, expired.Load())
	assert.Equal(t, cmd.Process.Pid, result.Pid)
	assert.Equal(t, "exit status 3", DescribeState(result.State))
	assert.Equal(t, 0, supervisor.Tracked())
}

func TestSupervisor_Run_watchdog(t *testing.T) {
	var expiredPid atomic.Int64
	supervisor := &Supervisor{
		Timeout:  200 * time.Millisecond,
		OnExpire: func(pid int) { expiredPid.Store(int64(pid)) },
	}

	cmd := startForTest(t, "sleep", "30")
	start := time.Now()
	result, err := supervisor.Run(cmd)
	elapsed := time.Since(start)

	require.Nil(t, err)
	assert.True(t, result.Killed)
	assert.Less(t, elapsed, 5*time.Second)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Equal(t, int64(cmd.Process.Pid), expiredPid.Load())
	assert.Equal(t, "killed by SIGKILL", DescribeState(result.State))
	assert.Equal(t, 0, supervisor.Tracked())
}

func TestSupervisor_Run_busy(t *testing.T) {
	supervisor := &Supervisor{Timeout: 300 * time.Millisecond}

	first := startForTest(t, "sleep", "30")
	done := make(chan *Result, 1)
	go func() {
		result, _ := supervisor.Run(first)
		done <- result
	}()

	require.Eventually(t, func() bool {
		return supervisor.Tracked() == first.Process.Pid
	}, 5*time.Second, 5*time.Millisecond)

	second := startForTest(t, "true")
	_, err := supervisor.Run(second)
	assert.True(t, errors.Is(err, ErrBusy))
	assert.Nil(t, second.Wait())

	result := <-done
	assert.True(t, result.Killed)
	assert.Equal(t, 0, supervisor.Tracked())
}

func TestSupervisor_Run_notStarted(t *testing.T) {
	supervisor := &Supervisor{}

	_, err := supervisor.Run(exec.Command("true"))

	assert.Error(t, err)
	assert.Equal(t, 0, supervisor.Tracked())
}

func TestSupervisor_reusable(t *testing.T) {
	supervisor := &Supervisor{Timeout: 100 * time.Millisecond}

	result, err := supervisor.Run(startForTest(t, "sleep", "30"))
	require.Nil(t, err)
	assert.True(t, result.Killed)

	result, err = supervisor.Run(startForTest(t, "true"))
	require.Nil(t, err)
	assert.False(t, result.Killed)
	assert.True(t, strings.HasSuffix(result.String(), ": exit status 0"), result.String())
}

func TestDescribeState_nil(t *testing.T) {
	assert.Equal(t, "unknown", DescribeState(nil))
}
