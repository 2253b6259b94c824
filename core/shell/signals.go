package shell

import (
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

// InterruptHandler catches SIGINT for the interpreter so a terminal interrupt
// stops the foreground child instead of the shell.
//
// It never signals the foreground process itself: the terminal already
// delivers the interrupt to every process in its foreground group.
type InterruptHandler struct {
	// OnInterrupt is called from the handler goroutine for each interrupt.
	OnInterrupt func()

	ch       chan os.Signal
	done     chan struct{}
	stopOnce sync.Once
}

// HandleInterrupts starts catching SIGINT until Stop is called.
func HandleInterrupts(onInterrupt func()) *InterruptHandler {
	h := &InterruptHandler{
		OnInterrupt: onInterrupt,
		ch:          make(chan os.Signal, 1),
		done:        make(chan struct{}),
	}
	signal.Notify(h.ch, unix.SIGINT)

	go h.loop()
	return h
}

func (h *InterruptHandler) loop() {
	for {
		select {
		case <-h.ch:
			if h.OnInterrupt != nil {
				h.OnInterrupt()
			}
		case <-h.done:
			return
		}
	}
}

// Stop restores the default SIGINT behavior.
func (h *InterruptHandler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.ch)
		close(h.done)
	})
}
