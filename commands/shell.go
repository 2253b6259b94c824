package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/watchsh/core/config"
	"github.com/josephlewis42/watchsh/core/logger"
	"github.com/josephlewis42/watchsh/core/shell"
	"github.com/josephlewis42/watchsh/core/vos"
)

const (
	EnvPWD = "PWD"

	// FallbackPrompt is shown when the working directory can't be determined.
	FallbackPrompt = "> "
)

// LineReader reads lines from the user, *readline.Instance satisfies it.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

var _ LineReader = (*readline.Instance)(nil)

// Options holds everything a Shell needs from its host.
type Options struct {
	Reader LineReader
	IO     vos.VIO
	// Env is passed to every child as a snapshot and modified by setenv.
	Env    *vos.MapEnv
	Config config.Shell
	// Events is optional, nil drops structured events.
	Events *logger.SessionLogger
}

type Shell struct {
	Reader LineReader
	Env    *vos.MapEnv
	Config config.Shell
	Events *logger.SessionLogger

	io         vos.VIO
	parser     *shell.Parser
	launcher   *shell.Launcher
	supervisor *shell.Supervisor
	reaper     *shell.Reaper
	color      bool

	// Set to true to quit the shell
	Quit bool
}

func NewShell(opts Options) *Shell {
	if opts.IO == nil {
		opts.IO = vos.NewOSIO()
	}
	if opts.Env == nil {
		opts.Env = vos.NewOSEnv()
	}
	if opts.Events == nil {
		opts.Events = logger.NewNopLogger().Sessionless()
	}

	s := &Shell{
		Reader: opts.Reader,
		Env:    opts.Env,
		Config: opts.Config,
		Events: opts.Events,
		io:     opts.IO,
		parser: &shell.Parser{
			MaxArgs:   opts.Config.MaxArgs,
			IsBuiltin: IsBuiltin,
		},
		launcher: &shell.Launcher{Env: opts.Env},
		reaper:   &shell.Reaper{},
		color:    opts.Config.ColorPrompt && !color.NoColor,
	}
	s.supervisor = &shell.Supervisor{
		Timeout: opts.Config.WatchdogTimeout.Std(),
		OnExpire: func(pid int) {
			s.record(logger.EventWatchdogKill, map[string]interface{}{
				"pid":     pid,
				"timeout": s.timeout().String(),
			})
		},
	}
	if pwd, err := os.Getwd(); err == nil {
		s.Env.Setenv(EnvPWD, pwd)
	}

	return s
}

// IO returns the streams the current command writes to.
func (s *Shell) IO() vos.VIO {
	return s.io
}

// Run reads and evaluates lines until end of input or exit. It returns the
// interpreter's exit code.
func (s *Shell) Run() int {
	s.record(logger.EventSessionStart, map[string]interface{}{
		"pid": os.Getpid(),
	})

	for !s.Quit {
		s.printNotices()

		s.Reader.SetPrompt(s.prompt())
		line, err := s.Reader.Readline()

		switch {
		case err == io.EOF:
			fmt.Fprintln(s.io.Stdout())
			return 0

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			fmt.Fprintf(s.io.Stderr(), "sh: %v\n", err)
			return 1

		default:
			s.Eval(line)
		}
	}
	return 0
}

// Interrupt is called when the interpreter receives SIGINT outside of a
// line read, typically while a foreground command runs.
func (s *Shell) Interrupt() {
	if s.supervisor.Tracked() != 0 {
		fmt.Fprintln(s.io.Stdout())
	}
}

// Eval runs a single line.
func (s *Shell) Eval(line string) {
	if err := shell.CheckLine(line, s.Config.MaxLineLength); err != nil {
		s.syntaxError(err)
		return
	}

	cmd, err := s.parser.Parse(line)
	if err != nil {
		s.syntaxError(err)
		return
	}

	switch cmd.Kind {
	case shell.KindEmpty:
		return
	case shell.KindBuiltin:
		s.runBuiltin(cmd.Args)
	case shell.KindExternal:
		s.runExternal(cmd.Args, cmd.Background)
	case shell.KindPipeline:
		s.runPipeline(cmd.Left, cmd.Right)
	}
}

func (s *Shell) prompt() string {
	pwd, err := os.Getwd()
	if err != nil {
		return FallbackPrompt
	}
	if s.color {
		return ColorBoldBlue.Sprint(pwd) + FallbackPrompt
	}
	return pwd + FallbackPrompt
}

func (s *Shell) runBuiltin(args []string) {
	args, redirect := shell.ResolveRedirect(args)
	stdio, closer, ok := s.redirect(s.io, redirect)
	if !ok {
		return
	}
	defer closer()

	s.record(logger.EventBuiltin, map[string]interface{}{
		"command": logger.Argv(args),
	})

	builtin, ok := AllBuiltins[args[0]]
	if !ok {
		fmt.Fprintf(s.io.Stderr(), "sh: %s: not a builtin\n", args[0])
		return
	}

	saved := s.io
	s.io = stdio
	defer func() { s.io = saved }()

	builtin.Main(s, args)
}

func (s *Shell) runExternal(args []string, background bool) {
	args, redirect := shell.ResolveRedirect(args)

	stdio := s.io
	if background {
		// Background jobs don't compete with the line reader for input.
		stdio = vos.WithStdin(stdio, nil)
	}

	stdio, closer, ok := s.redirect(stdio, redirect)
	if !ok {
		return
	}
	if len(args) == 0 {
		closer()
		return
	}

	cmd, err := s.launcher.Start(shell.Spec{
		Argv:   args,
		Stdin:  stdio.Stdin(),
		Stdout: stdio.Stdout(),
		Stderr: stdio.Stderr(),
	})
	// The child holds its own copy of the descriptor.
	closer()
	if err != nil {
		fmt.Fprintf(s.io.Stderr(), "sh: %v\n", err)
		s.record(logger.EventLaunchFailure, map[string]interface{}{
			"command": logger.Argv(args),
			"error":   logger.ErrorString(err),
		})
		return
	}

	if background {
		s.startBackground(cmd)
		return
	}

	s.record(logger.EventRunCommand, map[string]interface{}{
		"command": logger.Argv(args),
		"kind":    shell.KindExternal.String(),
		"pid":     cmd.Process.Pid,
	})

	result, err := s.supervisor.Run(cmd)
	if err != nil {
		fmt.Fprintf(s.io.Stderr(), "sh: %s: %v\n", args[0], err)
		return
	}
	if result.Killed {
		msg := fmt.Sprintf("sh: process %d exceeded %s, killed", result.Pid, s.timeout())
		if s.color {
			msg = ColorBoldRed.Sprint(msg)
		}
		fmt.Fprintln(s.io.Stderr(), msg)
	}
}

func (s *Shell) startBackground(cmd *exec.Cmd) {
	pid := cmd.Process.Pid
	fmt.Fprintf(s.io.Stdout(), "[Background pid %d started]\n", pid)
	s.record(logger.EventBackgroundStart, map[string]interface{}{
		"command": logger.Argv(cmd.Args),
		"pid":     pid,
	})

	if !s.Config.ReapBackground {
		cmd.Process.Release()
		return
	}
	s.reaper.Track(cmd)
}

func (s *Shell) runPipeline(left, right []string) {
	s.record(logger.EventRunCommand, map[string]interface{}{
		"command": logger.Argv(left),
		"right":   logger.Argv(right),
		"kind":    shell.KindPipeline.String(),
	})

	err := s.launcher.RunPipeline(left, right, s.io)
	if err == nil {
		return
	}

	// One line per failed stage.
	var joined interface{ Unwrap() []error }
	errs := []error{err}
	if errors.As(err, &joined) {
		errs = joined.Unwrap()
	}
	for _, stageErr := range errs {
		fmt.Fprintf(s.io.Stderr(), "sh: %v\n", stageErr)

		var launchErr *shell.LaunchError
		if errors.As(stageErr, &launchErr) {
			s.record(logger.EventLaunchFailure, map[string]interface{}{
				"command": logger.Argv(launchErr.Argv),
				"error":   logger.ErrorString(launchErr),
			})
		}
	}
}

// redirect applies r to stdio. The returned closer releases the opened file.
// On failure a diagnostic is printed and ok is false.
func (s *Shell) redirect(stdio vos.VIO, r *shell.Redirect) (out vos.VIO, closer func(), ok bool) {
	if r == nil {
		return stdio, func() {}, true
	}

	fd, err := r.Open()
	if err != nil {
		fmt.Fprintf(s.io.Stderr(), "sh: %v\n", err)
		s.record(logger.EventRedirectFailure, map[string]interface{}{
			"redirect": r.String(),
			"error":    logger.ErrorString(err),
		})
		return nil, nil, false
	}

	closer = func() { fd.Close() }
	switch r.Op {
	case shell.RedirectIn:
		return vos.WithStdin(stdio, fd), closer, true
	default:
		return vos.WithStdout(stdio, fd), closer, true
	}
}

func (s *Shell) printNotices() {
	for _, notice := range s.reaper.Drain() {
		fmt.Fprintln(s.io.Stdout(), notice)
		s.record(logger.EventBackgroundDone, map[string]interface{}{
			"command": logger.Argv(notice.Argv),
			"pid":     notice.Pid,
			"status":  shell.DescribeState(notice.State),
		})
	}
}

func (s *Shell) syntaxError(err error) {
	fmt.Fprintf(s.io.Stderr(), "sh: %v\n", err)
	s.record(logger.EventSyntaxError, map[string]interface{}{
		"error": logger.ErrorString(err),
	})
}

func (s *Shell) timeout() config.Duration {
	if s.Config.WatchdogTimeout > 0 {
		return s.Config.WatchdogTimeout
	}
	return config.Duration(shell.DefaultWatchdogTimeout)
}

func (s *Shell) record(typ logger.EventType, event map[string]interface{}) {
	if err := s.Events.Record(typ, event); err != nil {
		fmt.Fprintf(s.io.Stderr(), "sh: recording event: %v\n", err)
	}
}

// Background lists the pids of background jobs that are still running.
func (s *Shell) Background() []int {
	return s.reaper.Running()
}

// Wait blocks until every reaped background job has exited.
func (s *Shell) Wait() {
	s.reaper.Wait()
}
