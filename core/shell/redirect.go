package shell

import (
	"fmt"
	"os"
)

// RedirectOp is a redirection operator.
type RedirectOp string

const (
	// RedirectIn rebinds standard input to a file.
	RedirectIn RedirectOp = "<"
	// RedirectOut rebinds standard output to a file, truncating it.
	RedirectOut RedirectOp = ">"
)

// Mode new output files are created with, before the umask.
const redirectFileMode = 0644

// Redirect is the single redirection of a command.
type Redirect struct {
	Op   RedirectOp
	Path string
}

func (r *Redirect) String() string {
	return fmt.Sprintf("%s %s", r.Op, r.Path)
}

// Open opens the redirection target. The caller owns the returned file.
func (r *Redirect) Open() (*os.File, error) {
	switch r.Op {
	case RedirectIn:
		return os.Open(r.Path)
	case RedirectOut:
		return os.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, redirectFileMode)
	default:
		return nil, fmt.Errorf("unknown redirection %q", string(r.Op))
	}
}

// ResolveRedirect finds the first '<' or '>' token that has a token after it.
// The returned arguments stop just before the operator, so anything following
// the file name is dropped too. Later operators are left alone. If there is no
// redirection args is returned unchanged with a nil Redirect.
func ResolveRedirect(args []string) ([]string, *Redirect) {
	for i := 0; i+1 < len(args); i++ {
		switch op := RedirectOp(args[i]); op {
		case RedirectIn, RedirectOut:
			return args[:i:i], &Redirect{Op: op, Path: args[i+1]}
		}
	}
	return args, nil
}
