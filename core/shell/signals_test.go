package shell

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestHandleInterrupts(t *testing.T) {
	got := make(chan struct{}, 1)
	h := HandleInterrupts(func() {
		select {
		case got <- struct{}{}:
		default:
		}
	})
	defer h.Stop()

	assert.Nil(t, unix.Kill(os.Getpid(), unix.SIGINT))

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("interrupt handler wasn't called")
	}
}

func TestInterruptHandler_Stop(t *testing.T) {
	h := HandleInterrupts(nil)

	h.Stop()
	// Stopping twice is harmless.
	h.Stop()
}
